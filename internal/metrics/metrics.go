package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Chat metrics
	ChatRequests       *prometheus.CounterVec
	ChatRequestLatency prometheus.Histogram
	StreamErrors       prometheus.Counter

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Retrieval metrics
	RetrievalSources  *prometheus.CounterVec
	RetrievalFailures prometheus.Counter
}

var (
	globalMetrics *Metrics
	initOnce      sync.Once
)

// Init initializes the Prometheus metrics. Collectors register against
// the default registry, so Init is once-only; later calls return the
// existing instance.
func Init() *Metrics {
	initOnce.Do(initMetrics)
	return globalMetrics
}

func initMetrics() {
	metrics := &Metrics{
		// Chat requests by intent kind
		ChatRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "youtubeseoai_chat_requests_total",
			Help: "Total number of chat requests by intent",
		}, []string{"intent"}),

		// Chat request latency histogram
		ChatRequestLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "youtubeseoai_chat_request_duration_seconds",
			Help:    "Chat request latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}, // up to 2 minutes for LLM responses
		}),

		StreamErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "youtubeseoai_stream_errors_total",
			Help: "Total number of completion streams that ended in an error",
		}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "youtubeseoai_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "youtubeseoai_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		// Retrieval sources by outcome: "ok" or "failed"
		RetrievalSources: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "youtubeseoai_retrieval_sources_total",
			Help: "Total number of retrieval sources by outcome",
		}, []string{"outcome"}),

		RetrievalFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "youtubeseoai_retrieval_failures_total",
			Help: "Total number of retrievals that produced no usable text",
		}),
	}

	globalMetrics = metrics
}
