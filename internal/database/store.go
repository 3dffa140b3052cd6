// internal/database/store.go
package database

import (
    "context"
    "time"
)

// Store defines the persistence contract for the connectivity logbook.
// Writes come from a single goroutine (the monitor loop); reads may run
// concurrently and tolerate eventually-consistent views.
type Store interface {
    // Event ledger operations
    AppendEvent(ctx context.Context, event *ConnectivityEvent) error
    RecentEvents(ctx context.Context, limit int) ([]ConnectivityEvent, error)
    ExportAll(ctx context.Context) ([]ConnectivityEvent, error)

    // Daily aggregate operations
    UpsertDailySummary(ctx context.Context, date string, successful bool) error
    RecordOutage(ctx context.Context, date string, downtime time.Duration) error
    DailySummaries(ctx context.Context, days int) ([]DailySummary, error)

    // Retention and introspection
    DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int, error)
    Stats(ctx context.Context) (*DatabaseStats, error)

    // Close the database
    Close() error
}
