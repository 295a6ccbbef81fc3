package httpserver

import (
	"net/http"

	"github.com/yndnr/reviewgate/internal/server/httpserver/handler"
	"github.com/yndnr/reviewgate/internal/telemetry/logger"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// API serves the /v1 endpoints and /health.
	API *handler.Handler

	// Metrics serves GET /metrics. Nil disables the endpoint.
	Metrics http.Handler

	// Logger is the base request logger.
	Logger logger.Logger

	// Observer records per-route request metrics.
	Observer RequestObserver

	// LoginLimiter throttles POST /v1/login per client IP. Nil disables it.
	LoginLimiter *LimiterRegistry

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = disabled).
	CORSAllowedOrigins []string

	// TrustedProxies lists peers whose forwarding headers identify the client.
	TrustedProxies TrustedProxies
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	mux := http.NewServeMux()

	mux.Handle("POST /v1/login", Chain(cfg.API.Login(), RateLimit(cfg.LoginLimiter)))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	mux.Handle("/", cfg.API)

	// Order: RequestID -> Recover -> CORS -> Audit -> mux
	return Chain(mux,
		RequestID(log, cfg.TrustedProxies),
		Recover(log),
		CORS(cfg.CORSAllowedOrigins),
		Audit(cfg.Observer),
	)
}
