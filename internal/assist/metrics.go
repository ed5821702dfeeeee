package assist

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// tracerName is the OTel tracer used for handler invocations.
const tracerName = "rsfix.assist"

// Invocation results used as metric label values.
const (
	resultApplied       = "applied"
	resultNotApplicable = "not_applicable"
	resultDisabled      = "disabled"
)

var (
	// invocationsTotal counts handler invocations.
	//
	// Labels:
	//   - assist: the assist id name
	//   - result: "applied", "not_applicable" or "disabled"
	invocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rsfix",
			Subsystem: "assist",
			Name:      "invocations_total",
			Help:      "Total assist handler invocations by result.",
		},
		[]string{"assist", "result"},
	)

	// editsTotal counts edits produced by applicable assists.
	editsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rsfix",
			Subsystem: "assist",
			Name:      "edits_total",
			Help:      "Total edits produced by applicable assists.",
		},
		[]string{"assist"},
	)
)
