package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SearchesTotal     *prometheus.CounterVec
	FetchFailures     *prometheus.CounterVec
	ListingsExtracted prometheus.Counter
	ListingsMatched   prometheus.Counter
	NotificationsSent prometheus.Counter
	SearchDuration    prometheus.Histogram
)

var initOnce sync.Once

// Init registers all pipeline metrics on the default registry. Safe to call
// more than once.
func Init() {
	initOnce.Do(register)
}

func register() {
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searches_total",
			Help: "Total number of search page fetches.",
		},
		[]string{"status"}, // status: success, failure
	)

	FetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_failures_total",
			Help: "Total number of failed page fetches.",
		},
		[]string{"error_type"},
	)

	ListingsExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listings_extracted_total",
			Help: "Total number of listings extracted from search pages.",
		},
	)

	ListingsMatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listings_matched_total",
			Help: "Total number of listings that passed the interest filter.",
		},
	)

	NotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of Telegram notifications sent.",
		},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "Duration of a full search and filter pass.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
	)
}

// Serve exposes the metrics endpoint on the given address.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
