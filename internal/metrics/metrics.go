package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks request latency by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "path", "status"},
	)

	// BidsTotal counts bid attempts by outcome kind.
	BidsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_bids_total",
			Help: "Total number of bid attempts by result",
		},
		[]string{"result"},
	)

	// SweepsTotal counts lifecycle sweeps by trigger and result.
	SweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_sweeps_total",
			Help: "Total number of lifecycle sweeps",
		},
		[]string{"trigger", "result"},
	)

	// SweepTransitions counts auctions moved to a new status by sweeps.
	SweepTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_sweep_transitions_total",
			Help: "Total number of auctions transitioned by sweeps",
		},
		[]string{"trigger"},
	)

	// SweepDuration tracks how long each sweep took.
	SweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auction_sweep_duration_seconds",
			Help:    "Lifecycle sweep duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"trigger"},
	)

	// BroadcastDeliveries counts per-channel deliveries.
	BroadcastDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_broadcast_deliveries_total",
			Help: "Total number of event deliveries to connected channels",
		},
		[]string{"event", "result"},
	)

	// ConnectedChannels tracks live real-time connections.
	ConnectedChannels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auction_connected_channels",
			Help: "Current number of connected real-time channels",
		},
	)
)
