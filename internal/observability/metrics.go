package observability

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

const namespace = "lc"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	httpInflight prometheus.Gauge

	generatorRequests *prometheus.CounterVec
	generatorLatency  *prometheus.HistogramVec
	fallbacks         *prometheus.CounterVec
	missions          *prometheus.CounterVec

	reviewCompletions *prometheus.CounterVec
	casRetries        *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	submissions       *prometheus.CounterVec
	rateLimited       *prometheus.CounterVec

	pgStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	v := strings.TrimSpace(os.Getenv("METRICS_ENABLED"))
	if v == "" {
		return false
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

// Current returns the process metrics, or nil when Init has not enabled them.
func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	v := strings.TrimSpace(os.Getenv("METRICS_SCRAPE_INTERVAL_SECONDS"))
	if v == "" {
		return 10 * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 10 * time.Second
	}
	return time.Duration(n) * time.Second
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

func newMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Coach API requests by method, route, status and caller (user, cron, anonymous).",
		}, []string{"method", "route", "status", "caller"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "Coach API latency in seconds by method and route.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 30},
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "inflight_requests",
			Help: "Coach API requests currently being served.",
		}),
		generatorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "mission", Name: "generator_requests_total",
			Help: "Mission generator calls by status (ok, error, timeout, invalid).",
		}, []string{"status"}),
		generatorLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "mission", Name: "generator_duration_seconds",
			Help:    "Mission generator latency in seconds by status.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"status"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "mission", Name: "fallbacks_total",
			Help: "Missions built without the generator by reason.",
		}, []string{"reason"}),
		missions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "mission", Name: "writes_total",
			Help: "Missions created or regenerated by generation source.",
		}, []string{"source"}),
		reviewCompletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "review", Name: "completions_total",
			Help: "Review completions by outcome.",
		}, []string{"outcome"}),
		casRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cas_retries_total",
			Help: "Optimistic write retries by operation.",
		}, []string{"op"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "lookups_total",
			Help: "Cache lookups by result.",
		}, []string{"result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "submissions_total",
			Help: "Ingested submissions by status.",
		}, []string{"status"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "rate_limited_total",
			Help: "Requests rejected by the rate limiter by route.",
		}, []string{"route"}),
		pgStats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "postgres_stats",
			Help: "Postgres connection stats.",
		}, []string{"metric"}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "redis_up",
			Help: "Redis connectivity (1=up, 0=down).",
		}),
		redisPing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "redis_ping_seconds",
			Help: "Redis ping latency in seconds.",
		}),
	}
	reg.MustRegister(
		m.httpRequests, m.httpLatency, m.httpInflight,
		m.generatorRequests, m.generatorLatency, m.fallbacks, m.missions,
		m.reviewCompletions, m.casRetries, m.cacheLookups, m.submissions, m.rateLimited,
		m.pgStats, m.redisUp, m.redisPing,
	)
	return m
}

// Handler serves the Prometheus exposition for m.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

// ObserveRequest counts one finished request. Latency is kept per route
// only so the caller label does not multiply histogram series.
func (m *Metrics) ObserveRequest(method, route, status, caller string, dur time.Duration) {
	if m == nil {
		return
	}
	method, route, caller = orUnknown(method), orUnknown(route), orUnknown(caller)
	if status == "" {
		status = "0"
	}
	m.httpRequests.WithLabelValues(method, route, status, caller).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) RequestStarted() {
	if m != nil {
		m.httpInflight.Inc()
	}
}

func (m *Metrics) RequestFinished() {
	if m != nil {
		m.httpInflight.Dec()
	}
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: postgres stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.pgStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.pgStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.pgStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.pgStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.pgStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
				m.pgStats.WithLabelValues("max_open_connections").Set(float64(stats.MaxOpenConnections))
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

// The helpers below record against the process metrics and do nothing until
// Init has enabled them.

func IncCASRetry(op string) {
	if m := Current(); m != nil {
		m.casRetries.WithLabelValues(orUnknown(op)).Inc()
	}
}

func IncReviewCompletion(outcome string) {
	if m := Current(); m != nil {
		m.reviewCompletions.WithLabelValues(orUnknown(outcome)).Inc()
	}
}

func IncMissionGeneration(source string) {
	if m := Current(); m != nil {
		m.missions.WithLabelValues(orUnknown(source)).Inc()
	}
}

func ObserveGenerator(status string, d time.Duration) {
	if m := Current(); m != nil {
		status = orUnknown(status)
		m.generatorRequests.WithLabelValues(status).Inc()
		m.generatorLatency.WithLabelValues(status).Observe(d.Seconds())
	}
}

func IncFallback(reason string) {
	if m := Current(); m != nil {
		m.fallbacks.WithLabelValues(orUnknown(reason)).Inc()
	}
}

func IncCache(result string) {
	if m := Current(); m != nil {
		m.cacheLookups.WithLabelValues(orUnknown(result)).Inc()
	}
}

func IncSubmission(status string) {
	if m := Current(); m != nil {
		m.submissions.WithLabelValues(orUnknown(status)).Inc()
	}
}

func IncRateLimited(route string) {
	if m := Current(); m != nil {
		m.rateLimited.WithLabelValues(orUnknown(route)).Inc()
	}
}

func orUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
