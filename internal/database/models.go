// internal/database/models.go
package database

import (
    "time"
)

// EventKind classifies a connectivity transition.
type EventKind string

const (
    EventConnected    EventKind = "CONNECTED"
    EventDisconnected EventKind = "DISCONNECTED"
    EventReconnected  EventKind = "RECONNECTED"
)

// ConnectivityEvent is one row of the append-only transition ledger.
// Events are immutable once appended.
type ConnectivityEvent struct {
    ID              string    `json:"id"`
    Timestamp       time.Time `json:"timestamp"`
    Kind            EventKind `json:"kind"`
    DurationSeconds int64     `json:"duration_seconds,omitempty"` // RECONNECTED only: time since the paired DISCONNECTED
    NetworkName     string    `json:"network_name,omitempty"`
    ErrorDetail     string    `json:"error_detail,omitempty"` // DISCONNECTED only
}

// DailySummary aggregates poll outcomes for one host-local calendar date.
// Invariant: TotalChecks == SuccessfulChecks + FailedChecks.
type DailySummary struct {
    Date                   string  `json:"date"`
    TotalChecks            int     `json:"total_checks"`
    SuccessfulChecks       int     `json:"successful_checks"`
    FailedChecks           int     `json:"failed_checks"`
    DisconnectCount        int     `json:"disconnect_count"`
    TotalDisconnectSeconds int64   `json:"total_disconnect_seconds"`
    AvgRecoverySeconds     float64 `json:"avg_recovery_seconds"`
}

// DatabaseStats provides information about ledger size and age.
type DatabaseStats struct {
    TotalEvents  int       `json:"total_events"`
    TotalDays    int       `json:"total_days"`
    DatabaseSize int64     `json:"database_size_bytes"`
    OldestEvent  time.Time `json:"oldest_event"`
    NewestEvent  time.Time `json:"newest_event"`
}

// DateKey formats a timestamp as the daily summary key for its
// host-local calendar date.
func DateKey(t time.Time) string {
    return t.Format("2006-01-02")
}
