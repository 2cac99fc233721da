package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		actionsTotal,
		staleReferencesTotal,
		digestsTotal,
	)
}

var (
	actionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gtaskbot_actions_total",
			Help: "Handled user actions by kind and outcome (ok/invalid/store_error).",
		},
		[]string{"kind", "outcome"},
	)

	staleReferencesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gtaskbot_stale_references_total",
			Help: "Delete buttons whose position no longer exists in the fresh list.",
		},
	)

	digestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gtaskbot_digests_total",
			Help: "Digest runs by outcome.",
		},
		[]string{"outcome"},
	)
)

// IncAction counts one handled action.
func IncAction(kind, outcome string) {
	actionsTotal.WithLabelValues(norm(kind), norm(outcome)).Inc()
}

// IncStaleReference counts one rejected positional reference.
func IncStaleReference() {
	staleReferencesTotal.Inc()
}

// IncDigest counts one digest run.
func IncDigest(outcome string) {
	digestsTotal.WithLabelValues(norm(outcome)).Inc()
}
