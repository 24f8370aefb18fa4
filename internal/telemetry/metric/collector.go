package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StoreStats reports the number of entries held and how many of them are
// expired but still resident.
type StoreStats func() (keys, expired int)

// StoreCollector exports store sizes, sampled at scrape time.
type StoreCollector struct {
	stats   StoreStats
	keys    *prometheus.Desc
	expired *prometheus.Desc
}

// NewStoreCollector creates a collector reading from stats.
func NewStoreCollector(stats StoreStats) *StoreCollector {
	return &StoreCollector{
		stats: stats,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "keys"),
			"Entries held in the store, including expired ones",
			nil, nil,
		),
		expired: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "expired_keys"),
			"Entries past their expiry that have not been overwritten",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.expired
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	keys, expired := c.stats()
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(keys))
	ch <- prometheus.MustNewConstMetric(c.expired, prometheus.GaugeValue, float64(expired))
}
