package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SessionStats is the read side of the session store and info cache.
type SessionStats interface {
	ActiveSessions() int
	CachedProfiles() int
}

// Collector reports live store gauges at scrape time.
type Collector struct {
	stats SessionStats

	sessionsActive *prometheus.Desc
	cachedProfiles *prometheus.Desc
}

// NewCollector creates a collector reading from stats.
func NewCollector(stats SessionStats) *Collector {
	return &Collector{
		stats: stats,
		sessionsActive: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "sessions_active"),
			"Unexpired sessions held by the store.",
			nil, nil,
		),
		cachedProfiles: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "info_cache_entries"),
			"User profiles held by the info cache.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sessionsActive
	ch <- c.cachedProfiles
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.sessionsActive, prometheus.GaugeValue, float64(c.stats.ActiveSessions()))
	ch <- prometheus.MustNewConstMetric(c.cachedProfiles, prometheus.GaugeValue, float64(c.stats.CachedProfiles()))
}
