package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                     sync.Once
	metricsRouter            *chi.Mux
	requestDurationHistogram *prometheus.HistogramVec
	rejectedRequestsCounter  *prometheus.CounterVec
	mintedTokensCounter      *prometheus.CounterVec
	protocolWideVolumeGauge  prometheus.Gauge
	oracleClientLatency      *prometheus.HistogramVec
	ledgerLatency            *prometheus.HistogramVec
	queuePublishErrorCounter prometheus.Counter
	revertFailureCounter     prometheus.Counter
	dbLatency                *prometheus.HistogramVec
)

func init() {
	registerMetrics()
}

// Init starts the metrics server on the given port. Collectors are process
// local, so only a long running process that calls Init exposes them.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5}

	requestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "Histogram of protocol request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status"},
	)

	rejectedRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rejected_requests_total",
			Help: "Number of rejected protocol requests by operation and error code",
		},
		[]string{"operation", "code"},
	)

	mintedTokensCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minted_tokens_total",
			Help: "Amount of reward tokens minted by destination kind",
		},
		[]string{"destination"},
	)

	protocolWideVolumeGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "protocol_wide_volume",
			Help: "Last committed protocol-wide cumulative trade volume",
		},
	)

	oracleClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oracle_client_latency_seconds",
			Help:    "Histogram of price oracle durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	ledgerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_latency_seconds",
			Help:    "Histogram of token ledger call durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	queuePublishErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_publish_error_count",
			Help: "The total number of errors when publishing reward events to the queue",
		},
	)

	revertFailureCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "revert_failure_count",
			Help: "The total number of committed records that could not be reverted after a ledger failure",
		},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	prometheus.MustRegister(
		requestDurationHistogram,
		rejectedRequestsCounter,
		mintedTokensCounter,
		protocolWideVolumeGauge,
		oracleClientLatency,
		ledgerLatency,
		queuePublishErrorCounter,
		revertFailureCounter,
		dbLatency,
	)
}

func outcome(failure bool) Outcome {
	if failure {
		return Error
	}
	return Success
}

func RecordRequestDuration(d time.Duration, operation string, failure bool) {
	requestDurationHistogram.WithLabelValues(operation, outcome(failure).String()).Observe(d.Seconds())
}

func IncRejectedRequests(operation, code string) {
	rejectedRequestsCounter.WithLabelValues(operation, code).Inc()
}

func RecordMintedTokens(destination string, amount uint64) {
	mintedTokensCounter.WithLabelValues(destination).Add(float64(amount))
}

func RecordProtocolWideVolume(volume uint64) {
	protocolWideVolumeGauge.Set(float64(volume))
}

func RecordOracleClientLatency(d time.Duration, method string, failure bool) {
	oracleClientLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordLedgerLatency(d time.Duration, method string, failure bool) {
	ledgerLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	dbLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordQueuePublishError() {
	queuePublishErrorCounter.Inc()
}

func RecordRevertFailure() {
	revertFailureCounter.Inc()
}
