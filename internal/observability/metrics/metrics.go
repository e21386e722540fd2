package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success Outcome = "success"
	Error   Outcome = "error"

	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (o Outcome) String() string {
	return string(o)
}

var (
	once                       sync.Once
	metricsRouter              *chi.Mux
	eventProcessingDuration    *prometheus.HistogramVec
	streamReconnectCounter     prometheus.Counter
	droppedNotificationCounter prometheus.Counter
	httpRequestDuration        *prometheus.HistogramVec
	dbLatency                  *prometheus.HistogramVec
	poolTvlGauge               prometheus.Gauge
	poolUsersGauge             prometheus.Gauge
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter starts a dedicated metrics server on its own port.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	go func() {
		log.Info().Msgf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and registers the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	eventProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "event_processing_duration_seconds",
			Help:    "Histogram of domain event processing durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"event_type", "status"},
	)

	streamReconnectCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_reconnect_total",
			Help: "The total number of event stream reconnect attempts",
		},
	)

	droppedNotificationCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dropped_notification_total",
			Help: "The total number of malformed stream messages dropped",
		},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of read API request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"path", "method", "status"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_latency_seconds",
			Help:    "Histogram of database call durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	poolTvlGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_tvl_motes",
			Help: "Latest published TVL snapshot in motes (float approximation)",
		},
	)

	poolUsersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_total_users",
			Help: "Latest published distinct user count",
		},
	)

	prometheus.MustRegister(
		eventProcessingDuration,
		streamReconnectCounter,
		droppedNotificationCounter,
		httpRequestDuration,
		dbLatency,
		poolTvlGauge,
		poolUsersGauge,
	)
}

func RecordEventProcessingDuration(duration time.Duration, eventType string, failed bool) {
	if eventProcessingDuration == nil {
		return
	}
	status := Success
	if failed {
		status = Error
	}
	eventProcessingDuration.WithLabelValues(eventType, status.String()).Observe(duration.Seconds())
}

func RecordStreamReconnect() {
	if streamReconnectCounter == nil {
		return
	}
	streamReconnectCounter.Inc()
}

func RecordDroppedNotification() {
	if droppedNotificationCounter == nil {
		return
	}
	droppedNotificationCounter.Inc()
}

func RecordHTTPRequestDuration(duration time.Duration, path, method string, statusCode int) {
	if httpRequestDuration == nil {
		return
	}
	httpRequestDuration.WithLabelValues(path, method, strconv.Itoa(statusCode)).Observe(duration.Seconds())
}

func RecordDbLatency(duration time.Duration, method string, failed bool) {
	if dbLatency == nil {
		return
	}
	status := Success
	if failed {
		status = Error
	}
	dbLatency.WithLabelValues(method, status.String()).Observe(duration.Seconds())
}

func RecordPoolSnapshot(tvl float64, totalUsers uint64) {
	if poolTvlGauge == nil || poolUsersGauge == nil {
		return
	}
	poolTvlGauge.Set(tvl)
	poolUsersGauge.Set(float64(totalUsers))
}
