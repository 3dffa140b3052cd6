// internal/monitor/tracker.go
package monitor

import (
    "time"

    "portalwatch/internal/database"
)

// Status is the current connectivity state.
type Status int

const (
    StatusUnknown Status = iota
    StatusConnected
    StatusDisconnected
)

func (s Status) String() string {
    switch s {
    case StatusConnected:
        return "CONNECTED"
    case StatusDisconnected:
        return "DISCONNECTED"
    default:
        return "UNKNOWN"
    }
}

// Tracker holds the last known connectivity status and classifies each
// poll verdict into the event it implies, if any. Classification is
// split from commit so the loop can persist the event before mutating
// state: a crash in between replays at worst as a no-op after restart.
type Tracker struct {
    status      Status
    statusSince time.Time
}

func NewTracker() *Tracker {
    return &Tracker{status: StatusUnknown}
}

func (t *Tracker) Status() Status {
    return t.status
}

func (t *Tracker) StatusSince() time.Time {
    return t.statusSince
}

// Classify returns the transition event this verdict would emit, or nil
// when the status is unchanged. It does not modify tracker state.
//
//   UNKNOWN      -> reachable:   CONNECTED (no duration)
//   UNKNOWN      -> unreachable: no event (initial state, nothing to pair)
//   CONNECTED    -> unreachable: DISCONNECTED with error detail
//   DISCONNECTED -> reachable:   RECONNECTED with outage duration
//   same status:                 no event
func (t *Tracker) Classify(reachable bool, detail, networkName string, now time.Time) *database.ConnectivityEvent {
    switch t.status {
    case StatusUnknown:
        if reachable {
            return &database.ConnectivityEvent{
                Timestamp:   now,
                Kind:        database.EventConnected,
                NetworkName: networkName,
            }
        }
        return nil

    case StatusConnected:
        if !reachable {
            return &database.ConnectivityEvent{
                Timestamp:   now,
                Kind:        database.EventDisconnected,
                NetworkName: networkName,
                ErrorDetail: detail,
            }
        }
        return nil

    default: // StatusDisconnected
        if reachable {
            return &database.ConnectivityEvent{
                Timestamp:       now,
                Kind:            database.EventReconnected,
                NetworkName:     networkName,
                DurationSeconds: int64(now.Sub(t.statusSince).Seconds()),
            }
        }
        return nil
    }
}

// Advance commits the verdict to tracker state. Call after the
// classified event (if any) has been handed to the store.
func (t *Tracker) Advance(reachable bool, now time.Time) {
    next := StatusDisconnected
    if reachable {
        next = StatusConnected
    }

    if t.status != next {
        t.statusSince = now
    }
    t.status = next
}
