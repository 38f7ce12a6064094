package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Token operation metrics
	TokenOperations      *prometheus.CounterVec
	OperationDuration    *prometheus.HistogramVec
	OperationErrors      *prometheus.CounterVec
	IdempotentReplays    prometheus.Counter
	IdempotencyConflicts prometheus.Counter
	InsufficientFunds    prometheus.Counter
	TransientFailures    prometheus.Counter

	// Wallet metrics
	WalletsCreated prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Token operation metrics
		TokenOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenledger_operations_total",
				Help: "Total token operations by type",
			},
			[]string{"operation"},
		),
		OperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tokenledger_operation_duration_seconds",
				Help:    "Duration of token operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OperationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenledger_operation_errors_total",
				Help: "Total token operation errors by operation",
			},
			[]string{"operation"},
		),
		IdempotentReplays: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokenledger_idempotent_replays_total",
			Help: "Total mutations answered from a stored idempotency record",
		}),
		IdempotencyConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokenledger_idempotency_conflicts_total",
			Help: "Total idempotency key reuses with a different payload",
		}),
		InsufficientFunds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokenledger_insufficient_funds_total",
			Help: "Total operations rejected for insufficient available balance",
		}),
		TransientFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokenledger_transient_failures_total",
			Help: "Total operations that exhausted storage retries",
		}),

		// Wallet metrics
		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokenledger_wallets_created_total",
			Help: "Total number of wallets created",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tokenledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tokenledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tokenledger_db_connections",
			Help: "Current number of database connections",
		}),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Outbox metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokenledger_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokenledger_outbox_errors_total",
			Help: "Total outbox publish errors",
		}),
	}
}
