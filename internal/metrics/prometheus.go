// internal/metrics/prometheus.go
package metrics

import (
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics
var (
    PollsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "portalwatch_polls_total",
            Help: "Total connectivity polls by verdict",
        },
        []string{"verdict"},
    )

    ProbeDuration = promauto.NewHistogram(
        prometheus.HistogramOpts{
            Name:    "portalwatch_probe_duration_seconds",
            Help:    "Time spent probing reachability endpoints",
            Buckets: prometheus.DefBuckets,
        },
    )

    ConnectivityStatus = promauto.NewGauge(
        prometheus.GaugeOpts{
            Name: "portalwatch_connectivity_status",
            Help: "Current connectivity status (1=connected, 0=disconnected, -1=unknown)",
        },
    )

    ConsecutiveFailures = promauto.NewGauge(
        prometheus.GaugeOpts{
            Name: "portalwatch_consecutive_failures",
            Help: "Consecutive failed polls since the last success",
        },
    )

    TransitionsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "portalwatch_transitions_total",
            Help: "Connectivity transitions recorded, by kind",
        },
        []string{"kind"},
    )

    RemediationsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "portalwatch_remediations_total",
            Help: "Portal remediation attempts by outcome",
        },
        []string{"result"},
    )

    StoreOperations = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "portalwatch_store_operations_total",
            Help: "Logbook store operations performed",
        },
        []string{"operation", "status"},
    )
)

type Collector struct{}

func NewCollector() *Collector {
    return &Collector{}
}

func (c *Collector) RecordPoll(reachable bool, duration time.Duration) {
    PollsTotal.WithLabelValues(verdictLabel(reachable)).Inc()
    ProbeDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordTransition(kind string) {
    TransitionsTotal.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordRemediation(success bool) {
    result := "failure"
    if success {
        result = "success"
    }
    RemediationsTotal.WithLabelValues(result).Inc()
}

func (c *Collector) RecordStoreOp(operation string, err error) {
    status := "success"
    if err != nil {
        status = "error"
    }
    StoreOperations.WithLabelValues(operation, status).Inc()
}

func (c *Collector) UpdateStatus(connected, known bool, consecutiveFailures int) {
    switch {
    case !known:
        ConnectivityStatus.Set(-1)
    case connected:
        ConnectivityStatus.Set(1)
    default:
        ConnectivityStatus.Set(0)
    }
    ConsecutiveFailures.Set(float64(consecutiveFailures))
}

func verdictLabel(reachable bool) string {
    if reachable {
        return "success"
    }
    return "failure"
}
