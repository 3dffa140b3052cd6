// internal/database/boltstore.go - BoltDB implementation of the logbook store
package database

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "time"

    "github.com/google/uuid"
    "go.etcd.io/bbolt"
)

var (
    EventsBucket  = []byte("events")
    SummaryBucket = []byte("daily_summary")
    MetaBucket    = []byte("meta")
)

type BoltStore struct {
    db   *bbolt.DB
    path string
}

func NewBoltStore(path string) (Store, error) {
    // Create directory if it doesn't exist
    if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
        return nil, fmt.Errorf("failed to create data directory: %w", err)
    }

    db, err := bbolt.Open(path, 0600, &bbolt.Options{
        Timeout: 1 * time.Second,
    })
    if err != nil {
        return nil, fmt.Errorf("failed to open BoltDB: %w", err)
    }

    store := &BoltStore{db: db, path: path}

    if err := store.initBuckets(); err != nil {
        db.Close()
        return nil, fmt.Errorf("failed to initialize buckets: %w", err)
    }

    return store, nil
}

func (s *BoltStore) initBuckets() error {
    return s.db.Update(func(tx *bbolt.Tx) error {
        buckets := [][]byte{EventsBucket, SummaryBucket, MetaBucket}
        for _, bucket := range buckets {
            if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
                return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
            }
        }
        return nil
    })
}

// eventKey orders the ledger by time. The uuid suffix keeps keys unique
// if two events share a nanosecond.
func eventKey(event *ConnectivityEvent) []byte {
    return []byte(fmt.Sprintf("%020d:%s", event.Timestamp.UnixNano(), event.ID))
}

func (s *BoltStore) AppendEvent(ctx context.Context, event *ConnectivityEvent) error {
    if event.ID == "" {
        event.ID = uuid.New().String()
    }
    if event.Timestamp.IsZero() {
        event.Timestamp = time.Now()
    }

    return s.db.Update(func(tx *bbolt.Tx) error {
        b := tx.Bucket(EventsBucket)

        data, err := json.Marshal(event)
        if err != nil {
            return fmt.Errorf("failed to marshal event: %w", err)
        }

        return b.Put(eventKey(event), data)
    })
}

func (s *BoltStore) RecentEvents(ctx context.Context, limit int) ([]ConnectivityEvent, error) {
    var events []ConnectivityEvent

    err := s.db.View(func(tx *bbolt.Tx) error {
        c := tx.Bucket(EventsBucket).Cursor()

        for k, v := c.Last(); k != nil; k, v = c.Prev() {
            var event ConnectivityEvent
            if err := json.Unmarshal(v, &event); err != nil {
                continue // Skip malformed entries
            }
            events = append(events, event)

            if limit > 0 && len(events) >= limit {
                break
            }
        }
        return nil
    })

    if err != nil {
        return nil, fmt.Errorf("failed to read recent events: %w", err)
    }
    return events, nil
}

func (s *BoltStore) ExportAll(ctx context.Context) ([]ConnectivityEvent, error) {
    var events []ConnectivityEvent

    err := s.db.View(func(tx *bbolt.Tx) error {
        return tx.Bucket(EventsBucket).ForEach(func(k, v []byte) error {
            var event ConnectivityEvent
            if err := json.Unmarshal(v, &event); err != nil {
                return nil
            }
            events = append(events, event)
            return nil
        })
    })

    if err != nil {
        return nil, fmt.Errorf("failed to export events: %w", err)
    }
    return events, nil
}

// UpsertDailySummary applies one poll outcome to the row for date. A
// replayed append of the same poll is not de-duplicated; it shows up as
// one extra total_checks increment.
func (s *BoltStore) UpsertDailySummary(ctx context.Context, date string, successful bool) error {
    return s.db.Update(func(tx *bbolt.Tx) error {
        b := tx.Bucket(SummaryBucket)

        summary, err := readSummary(b, date)
        if err != nil {
            return err
        }

        summary.TotalChecks++
        if successful {
            summary.SuccessfulChecks++
        } else {
            summary.FailedChecks++
        }

        return writeSummary(b, summary)
    })
}

// RecordOutage folds a finished outage into the date's aggregate.
// Called once per RECONNECTED event.
func (s *BoltStore) RecordOutage(ctx context.Context, date string, downtime time.Duration) error {
    return s.db.Update(func(tx *bbolt.Tx) error {
        b := tx.Bucket(SummaryBucket)

        summary, err := readSummary(b, date)
        if err != nil {
            return err
        }

        summary.DisconnectCount++
        summary.TotalDisconnectSeconds += int64(downtime.Seconds())
        summary.AvgRecoverySeconds = float64(summary.TotalDisconnectSeconds) / float64(summary.DisconnectCount)

        return writeSummary(b, summary)
    })
}

func (s *BoltStore) DailySummaries(ctx context.Context, days int) ([]DailySummary, error) {
    var summaries []DailySummary

    err := s.db.View(func(tx *bbolt.Tx) error {
        c := tx.Bucket(SummaryBucket).Cursor()

        for k, v := c.Last(); k != nil; k, v = c.Prev() {
            var summary DailySummary
            if err := json.Unmarshal(v, &summary); err != nil {
                continue
            }
            summaries = append(summaries, summary)

            if days > 0 && len(summaries) >= days {
                break
            }
        }
        return nil
    })

    if err != nil {
        return nil, fmt.Errorf("failed to read daily summaries: %w", err)
    }
    return summaries, nil
}

func (s *BoltStore) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int, error) {
    deleted := 0
    cutoffKey := []byte(fmt.Sprintf("%020d", cutoff.UnixNano()))

    err := s.db.Update(func(tx *bbolt.Tx) error {
        c := tx.Bucket(EventsBucket).Cursor()

        for k, _ := c.First(); k != nil && bytes.Compare(k, cutoffKey) < 0; k, _ = c.First() {
            if err := c.Delete(); err != nil {
                return fmt.Errorf("failed to delete event %s: %w", k, err)
            }
            deleted++
        }
        return nil
    })

    if err != nil {
        return deleted, err
    }
    return deleted, nil
}

func (s *BoltStore) Stats(ctx context.Context) (*DatabaseStats, error) {
    stats := &DatabaseStats{}

    err := s.db.View(func(tx *bbolt.Tx) error {
        eb := tx.Bucket(EventsBucket)
        stats.TotalEvents = eb.Stats().KeyN
        stats.TotalDays = tx.Bucket(SummaryBucket).Stats().KeyN

        c := eb.Cursor()
        if k, v := c.First(); k != nil {
            var event ConnectivityEvent
            if json.Unmarshal(v, &event) == nil {
                stats.OldestEvent = event.Timestamp
            }
        }
        if k, v := c.Last(); k != nil {
            var event ConnectivityEvent
            if json.Unmarshal(v, &event) == nil {
                stats.NewestEvent = event.Timestamp
            }
        }
        return nil
    })

    if err != nil {
        return nil, fmt.Errorf("failed to read database stats: %w", err)
    }

    if info, err := os.Stat(s.path); err == nil {
        stats.DatabaseSize = info.Size()
    }

    return stats, nil
}

func (s *BoltStore) Close() error {
    return s.db.Close()
}

func readSummary(b *bbolt.Bucket, date string) (*DailySummary, error) {
    summary := &DailySummary{Date: date}

    if v := b.Get([]byte(date)); v != nil {
        if err := json.Unmarshal(v, summary); err != nil {
            return nil, fmt.Errorf("failed to unmarshal summary %s: %w", date, err)
        }
    }
    return summary, nil
}

func writeSummary(b *bbolt.Bucket, summary *DailySummary) error {
    data, err := json.Marshal(summary)
    if err != nil {
        return fmt.Errorf("failed to marshal summary: %w", err)
    }
    return b.Put([]byte(summary.Date), data)
}
