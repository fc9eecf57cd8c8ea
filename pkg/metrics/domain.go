package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters, registered on the default registry and exposed on the
// metrics listener alongside the HTTP middleware metrics.
var (
	GenerationFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ai_generation_fallback_total",
		Help: "Answers served from the deterministic fallback instead of the upstream model.",
	})

	QuotaExceededTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quota_exceeded_total",
		Help: "Question creation attempts rejected because the daily quota was exhausted.",
	})
)
