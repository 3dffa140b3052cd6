// internal/monitor/tracker_test.go
package monitor

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "portalwatch/internal/database"
)

func TestTrackerInitialConnected(t *testing.T) {
    tracker := NewTracker()
    now := time.Now()

    event := tracker.Classify(true, "", "HomeNet", now)
    require.NotNil(t, event)
    assert.Equal(t, database.EventConnected, event.Kind)
    assert.Equal(t, "HomeNet", event.NetworkName)
    assert.Zero(t, event.DurationSeconds)

    tracker.Advance(true, now)
    assert.Equal(t, StatusConnected, tracker.Status())
}

func TestTrackerInitialDisconnectedEmitsNothing(t *testing.T) {
    tracker := NewTracker()
    now := time.Now()

    event := tracker.Classify(false, "all tests failed", "", now)
    assert.Nil(t, event)

    tracker.Advance(false, now)
    assert.Equal(t, StatusDisconnected, tracker.Status())
}

func TestTrackerDisconnectCarriesErrorDetail(t *testing.T) {
    tracker := NewTracker()
    now := time.Now()

    tracker.Advance(true, now)

    event := tracker.Classify(false, "all connectivity tests failed", "EE WiFi", now.Add(30*time.Second))
    require.NotNil(t, event)
    assert.Equal(t, database.EventDisconnected, event.Kind)
    assert.Equal(t, "all connectivity tests failed", event.ErrorDetail)
}

func TestTrackerNoDuplicateDisconnects(t *testing.T) {
    tracker := NewTracker()
    now := time.Now()

    tracker.Advance(true, now)

    disconnects := 0
    for i := 1; i <= 5; i++ {
        tick := now.Add(time.Duration(i) * 30 * time.Second)
        if event := tracker.Classify(false, "down", "", tick); event != nil {
            require.Equal(t, database.EventDisconnected, event.Kind)
            disconnects++
        }
        tracker.Advance(false, tick)
    }

    assert.Equal(t, 1, disconnects)
}

func TestTrackerReconnectDuration(t *testing.T) {
    tracker := NewTracker()
    start := time.Now()

    tracker.Advance(true, start)

    down := start.Add(30 * time.Second)
    tracker.Advance(false, down)

    up := down.Add(90 * time.Second)
    event := tracker.Classify(true, "", "EE WiFi", up)
    require.NotNil(t, event)
    assert.Equal(t, database.EventReconnected, event.Kind)
    assert.Equal(t, int64(90), event.DurationSeconds)
}

func TestTrackerClassifyIsPure(t *testing.T) {
    tracker := NewTracker()
    now := time.Now()

    tracker.Classify(true, "", "", now)
    tracker.Classify(true, "", "", now)
    assert.Equal(t, StatusUnknown, tracker.Status())

    // Both calls still classify as the initial transition
    event := tracker.Classify(true, "", "", now)
    require.NotNil(t, event)
    assert.Equal(t, database.EventConnected, event.Kind)
}

func TestTrackerStatusSinceMovesOnlyOnTransition(t *testing.T) {
    tracker := NewTracker()
    start := time.Now()

    tracker.Advance(true, start)
    since := tracker.StatusSince()

    tracker.Advance(true, start.Add(30*time.Second))
    assert.Equal(t, since, tracker.StatusSince())

    down := start.Add(60 * time.Second)
    tracker.Advance(false, down)
    assert.Equal(t, down, tracker.StatusSince())
}
