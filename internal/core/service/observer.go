package service

// Eviction reasons reported to Observer.SessionsEvicted.
const (
	EvictReasonExpired = "expired"
	EvictReasonLogout  = "logout"
	EvictReasonSweep   = "sweep"
)

// Observer receives controller events for metrics.
// A nil error means success.
type Observer interface {
	LoginAttempted(err error)
	SessionVerified(err error)
	InfoCacheLookup(hit bool)
	SessionsEvicted(reason string, n int)
}

type nopObserver struct{}

func (nopObserver) LoginAttempted(error)        {}
func (nopObserver) SessionVerified(error)       {}
func (nopObserver) InfoCacheLookup(bool)        {}
func (nopObserver) SessionsEvicted(string, int) {}
