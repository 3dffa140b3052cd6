// internal/monitor/monitor.go - single control loop driving probe, state, and remediation
package monitor

import (
    "context"
    "sync"
    "time"

    "github.com/sirupsen/logrus"
    "portalwatch/internal/config"
    "portalwatch/internal/database"
    "portalwatch/internal/metrics"
    "portalwatch/internal/network"
    "portalwatch/internal/probe"
    "portalwatch/internal/remediation"
)

// Prober produces a reachability verdict for one poll.
type Prober interface {
    Probe(ctx context.Context) probe.Verdict
}

// Notifier receives each persisted transition event.
type Notifier interface {
    NotifyTransition(event *database.ConnectivityEvent)
}

// Broadcaster receives one status frame per completed poll tick.
type Broadcaster interface {
    Broadcast(frame StatusFrame)
}

// StatusFrame is the per-tick snapshot pushed to live listeners.
type StatusFrame struct {
    Timestamp           time.Time `json:"timestamp"`
    Status              string    `json:"status"`
    Reachable           bool      `json:"reachable"`
    NetworkName         string    `json:"network_name,omitempty"`
    ConsecutiveFailures int       `json:"consecutive_failures"`
    Remediated          bool      `json:"remediated"`
}

// Snapshot is the monitor's current in-memory state, readable while the
// loop runs.
type Snapshot struct {
    Status              string    `json:"status"`
    StatusSince         time.Time `json:"status_since"`
    LastCheck           time.Time `json:"last_check"`
    LastNetwork         string    `json:"last_network,omitempty"`
    ConsecutiveFailures int       `json:"consecutive_failures"`
}

type Options struct {
    Config      *config.Config
    Store       database.Store
    Prober      Prober
    Identity    network.Provider
    Remediator  remediation.Remediator
    Metrics     *metrics.Collector
    Notifier    Notifier    // optional
    Broadcaster Broadcaster // optional
}

// Monitor owns the connectivity state and drives the poll/remediate
// cycle. All storage writes happen on the loop goroutine.
type Monitor struct {
    cfg         *config.Config
    store       database.Store
    prober      Prober
    identity    network.Provider
    remediator  remediation.Remediator
    metrics     *metrics.Collector
    notifier    Notifier
    broadcaster Broadcaster

    tracker *Tracker
    policy  *Policy

    now func() time.Time

    mu       sync.RWMutex
    snapshot Snapshot
}

func New(opts Options) *Monitor {
    return &Monitor{
        cfg:         opts.Config,
        store:       opts.Store,
        prober:      opts.Prober,
        identity:    opts.Identity,
        remediator:  opts.Remediator,
        metrics:     opts.Metrics,
        notifier:    opts.Notifier,
        broadcaster: opts.Broadcaster,
        tracker:     NewTracker(),
        policy:      NewPolicy(opts.Config.Monitor.FailureThreshold, opts.Config.RemediableSSIDs()),
        now:         time.Now,
        snapshot:    Snapshot{Status: StatusUnknown.String()},
    }
}

// Run drives the control loop until ctx is cancelled. The first poll
// happens immediately; subsequent ticks fire on the configured interval
// measured from tick start, so a slow remediation shortens but never
// inverts the schedule. The in-flight tick finishes its writes before
// Run returns.
func (m *Monitor) Run(ctx context.Context) error {
    logrus.WithFields(logrus.Fields{
        "interval":  m.cfg.Monitor.Interval,
        "threshold": m.cfg.Monitor.FailureThreshold,
    }).Info("Starting connectivity monitor")

    // Tickers start before the first poll so each interval is measured
    // from the preceding tick's start, not its completion.
    ticker := time.NewTicker(m.cfg.Monitor.Interval)
    defer ticker.Stop()

    janitor := time.NewTicker(m.cfg.Database.CleanupInterval)
    defer janitor.Stop()

    m.runTick(ctx)

    for {
        select {
        case <-ctx.Done():
            logrus.Info("Connectivity monitor stopped")
            return nil
        case <-ticker.C:
            m.runTick(ctx)
        case <-janitor.C:
            m.purgeHistory(ctx)
        }
    }
}

// RunOnce performs a single poll cycle and reports whether the internet
// was reachable. Used by the --once mode.
func (m *Monitor) RunOnce(ctx context.Context) bool {
    return m.runTick(ctx)
}

// Snapshot returns the monitor's current in-memory state.
func (m *Monitor) Snapshot() Snapshot {
    m.mu.RLock()
    defer m.mu.RUnlock()
    return m.snapshot
}

func (m *Monitor) runTick(ctx context.Context) bool {
    now := m.now()

    probeStart := time.Now()
    verdict := m.prober.Probe(ctx)

    // A shutdown signal landing mid-probe is not a connectivity
    // verdict; abort the tick so it cannot fabricate an outage.
    if ctx.Err() != nil {
        return false
    }
    m.metrics.RecordPoll(verdict.Reachable, time.Since(probeStart))

    networkName := m.currentNetwork(ctx)

    // Persist the transition before committing in-memory state.
    if event := m.tracker.Classify(verdict.Reachable, verdict.Detail, networkName, now); event != nil {
        m.persistEvent(ctx, event)
    }
    m.tracker.Advance(verdict.Reachable, now)

    summaryErr := m.store.UpsertDailySummary(ctx, database.DateKey(now), verdict.Reachable)
    m.metrics.RecordStoreOp("upsert_summary", summaryErr)
    if summaryErr != nil {
        logrus.WithError(summaryErr).Error("Failed to update daily summary")
    }

    remediated := false
    decision := m.policy.OnPollResult(verdict.Reachable, networkName)
    if decision.ShouldRemediate {
        remediated = m.remediate(ctx, networkName)
    } else if !verdict.Reachable {
        logrus.WithFields(logrus.Fields{
            "failures": m.policy.ConsecutiveFailures(),
            "reason":   decision.Reason,
        }).Info("Internet not available, remediation not triggered")
    }

    m.updateSnapshot(now, networkName)
    m.metrics.UpdateStatus(m.tracker.Status() == StatusConnected,
        m.tracker.Status() != StatusUnknown, m.policy.ConsecutiveFailures())

    if m.broadcaster != nil {
        m.broadcaster.Broadcast(StatusFrame{
            Timestamp:           now,
            Status:              m.tracker.Status().String(),
            Reachable:           verdict.Reachable,
            NetworkName:         networkName,
            ConsecutiveFailures: m.policy.ConsecutiveFailures(),
            Remediated:          remediated,
        })
    }

    return verdict.Reachable
}

func (m *Monitor) persistEvent(ctx context.Context, event *database.ConnectivityEvent) {
    err := m.store.AppendEvent(ctx, event)
    m.metrics.RecordStoreOp("append_event", err)
    if err != nil {
        // Non-fatal: monitoring continues with in-memory state.
        logrus.WithError(err).WithField("kind", event.Kind).Error("Failed to append connectivity event")
        return
    }

    m.metrics.RecordTransition(string(event.Kind))

    switch event.Kind {
    case database.EventDisconnected:
        logrus.WithFields(logrus.Fields{
            "network": event.NetworkName,
            "error":   event.ErrorDetail,
        }).Warn("DISCONNECTED")
    case database.EventReconnected:
        logrus.WithFields(logrus.Fields{
            "network":  event.NetworkName,
            "downtime": event.DurationSeconds,
        }).Info("RECONNECTED")

        outageErr := m.store.RecordOutage(ctx, database.DateKey(event.Timestamp),
            time.Duration(event.DurationSeconds)*time.Second)
        m.metrics.RecordStoreOp("record_outage", outageErr)
        if outageErr != nil {
            logrus.WithError(outageErr).Error("Failed to record outage in daily summary")
        }
    default:
        logrus.WithField("network", event.NetworkName).Info("CONNECTED")
    }

    if m.notifier != nil {
        m.notifier.NotifyTransition(event)
    }
}

// remediate invokes the external remediator synchronously. Blocking the
// loop here is deliberate: at most one remediation attempt may be in
// flight at a time.
func (m *Monitor) remediate(ctx context.Context, networkName string) bool {
    hotspot := m.cfg.HotspotFor(networkName)
    if hotspot == nil {
        logrus.WithField("network", networkName).Warn("No hotspot configured for remediation")
        // Counts as a failed attempt so the cooldown still applies and
        // the warning does not repeat every failing tick.
        m.policy.OnRemediationResult(false)
        return false
    }

    logrus.WithFields(logrus.Fields{
        "ssid":     hotspot.SSID,
        "failures": m.policy.ConsecutiveFailures(),
    }).Info("Running portal remediation")

    success, err := m.remediator.Attempt(ctx, hotspot)
    if err != nil {
        logrus.WithError(err).Warn("Remediation attempt failed")
    }

    m.policy.OnRemediationResult(success)
    m.metrics.RecordRemediation(success)
    return success
}

func (m *Monitor) currentNetwork(ctx context.Context) string {
    if m.identity == nil {
        return ""
    }
    name, err := m.identity.CurrentNetwork(ctx)
    if err != nil {
        logrus.WithError(err).Debug("Failed to read current network identity")
        return ""
    }
    return name
}

func (m *Monitor) updateSnapshot(now time.Time, networkName string) {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.snapshot = Snapshot{
        Status:              m.tracker.Status().String(),
        StatusSince:         m.tracker.StatusSince(),
        LastCheck:           now,
        LastNetwork:         networkName,
        ConsecutiveFailures: m.policy.ConsecutiveFailures(),
    }
}

func (m *Monitor) purgeHistory(ctx context.Context) {
    cutoff := m.now().Add(-m.cfg.Database.HistoryRetention)

    deleted, err := m.store.DeleteEventsBefore(ctx, cutoff)
    m.metrics.RecordStoreOp("purge_events", err)
    if err != nil {
        logrus.WithError(err).Error("Failed to purge event history")
        return
    }
    if deleted > 0 {
        logrus.WithFields(logrus.Fields{
            "deleted": deleted,
            "cutoff":  cutoff,
        }).Info("Purged old connectivity events")
    }
}
