package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// File results used as metric label values.
const (
	resultChanged   = "changed"
	resultUnchanged = "unchanged"
	resultCached    = "cached"
	resultError     = "error"
)

var (
	// filesTotal counts scanned files.
	//
	// Labels:
	//   - result: "changed", "unchanged", "cached" or "error"
	filesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rsfix",
			Subsystem: "scan",
			Name:      "files_total",
			Help:      "Total files scanned by result.",
		},
		[]string{"result"},
	)

	rewritesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rsfix",
			Subsystem: "scan",
			Name:      "rewrites_total",
			Help:      "Total rewrites found by scans.",
		},
	)
)
