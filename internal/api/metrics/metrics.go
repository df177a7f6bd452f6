// Package metrics defines the custom Prometheus metrics of both services.
// Package-level metrics register with the default registry on init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth_system"

// ── Authority ────────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label result: "created", "duplicate", "invalid", "error".
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Registration attempts by outcome.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label result: "success", "invalid_credentials", "invalid", "error".
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	},
	[]string{"result"},
)

// ValidationsTotal counts /validate calls.
// Label result: "valid", "invalid".
var ValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validations_total",
		Help:      "Token validations answered by the authority.",
	},
	[]string{"result"},
)

// NewTokensLiveGauge registers a gauge that reads the registry size on every
// scrape, so it stays current between sweeps and without a sweeper.
func NewTokensLiveGauge(reg prometheus.Registerer, live func() int) prometheus.GaugeFunc {
	return promauto.With(reg).NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tokens_live",
			Help:      "Tokens currently held by the registry.",
		},
		func() float64 { return float64(live()) },
	)
}

// TokensSweptTotal counts expired tokens removed by the sweeper.
var TokensSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_swept_total",
		Help:      "Expired tokens removed from the registry.",
	},
)

// AuditEventsTotal counts audit events by persistence outcome.
// Label result: "stored", "failed", "dropped".
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Authentication audit events by persistence outcome.",
	},
	[]string{"result"},
)

// ── Dependent services ───────────────────────────────────────────────────────

// UpstreamValidationsTotal counts validation round trips to the authority.
// Label result: "valid", "unauthenticated", "upstream_failure".
var UpstreamValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_validations_total",
		Help:      "Validation round trips to the authority by outcome.",
	},
	[]string{"result"},
)

// UpstreamValidationDuration measures validation round-trip latency.
var UpstreamValidationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_validation_duration_seconds",
		Help:      "Latency of validation round trips to the authority.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ValidationCacheTotal counts validation cache lookups.
// Label result: "hit", "miss", "error".
var ValidationCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_cache_total",
		Help:      "Validation cache lookups by result.",
	},
	[]string{"result"},
)
