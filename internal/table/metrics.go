package table

import "expvar"

var (
	metricRoundsSettled   = expvar.NewInt("rounds_settled_total")
	metricActionsRejected = expvar.NewInt("actions_rejected_total")
)
