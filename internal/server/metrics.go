package server

import "expvar"

var (
	metricConnectionsTotal  = expvar.NewInt("tcp_connections_total")
	metricConnectionsActive = expvar.NewInt("tcp_connections_active")

	metricFramesTotal     = expvar.NewInt("frames_total")
	metricFramesMalformed = expvar.NewInt("frames_malformed_total")

	metricRequestsRejected = expvar.NewInt("requests_rejected_total")
)
