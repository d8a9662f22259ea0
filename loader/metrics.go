package loader

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 内容加载指标
type Metrics struct {
	CacheHits    *prometheus.CounterVec
	Loads        *prometheus.CounterVec
	Fallbacks    *prometheus.CounterVec
	LoadDuration *prometheus.HistogramVec
}

// NewMetrics 创建并注册指标。reg为nil时只创建不注册
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airlab",
			Subsystem: "content",
			Name:      "cache_hits_total",
			Help:      "Content collections served from cache",
		}, []string{"collection"}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airlab",
			Subsystem: "content",
			Name:      "loads_total",
			Help:      "Content source fetches by outcome",
		}, []string{"collection", "outcome"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airlab",
			Subsystem: "content",
			Name:      "fallbacks_total",
			Help:      "Results that substituted placeholder content",
		}, []string{"collection"}),
		LoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "airlab",
			Subsystem: "content",
			Name:      "load_duration_seconds",
			Help:      "Content source fetch and validation time",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection"}),
	}

	if reg != nil {
		reg.MustRegister(m.CacheHits, m.Loads, m.Fallbacks, m.LoadDuration)
	}
	return m
}

func (m *Metrics) hit(collection string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(collection).Inc()
}

func (m *Metrics) load(collection, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(collection, outcome).Inc()
	m.LoadDuration.WithLabelValues(collection).Observe(seconds)
}

func (m *Metrics) fallback(collection string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(collection).Inc()
}
