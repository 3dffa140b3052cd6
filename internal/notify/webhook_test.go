// internal/notify/webhook_test.go
package notify

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "portalwatch/internal/config"
    "portalwatch/internal/database"
)

func testWebhookConfig(url string) config.WebhookConfig {
    return config.WebhookConfig{
        Enabled: true,
        URL:     url,
        Timeout: 5 * time.Second,
        Throttle: config.ThrottleConfig{
            Window:    15 * time.Minute,
            MaxEvents: 10,
        },
    }
}

func TestWebhookDeliversEvent(t *testing.T) {
    var mu sync.Mutex
    var received []database.ConnectivityEvent

    done := make(chan struct{}, 1)
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        var event database.ConnectivityEvent
        require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
        assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

        mu.Lock()
        received = append(received, event)
        mu.Unlock()
        done <- struct{}{}
    }))
    defer server.Close()

    webhook := NewWebhook(testWebhookConfig(server.URL))
    webhook.NotifyTransition(&database.ConnectivityEvent{
        ID:          "evt-1",
        Timestamp:   time.Now(),
        Kind:        database.EventDisconnected,
        NetworkName: "CafeWiFi",
        ErrorDetail: "all connectivity tests failed",
    })

    select {
    case <-done:
    case <-time.After(5 * time.Second):
        t.Fatal("webhook was never delivered")
    }

    mu.Lock()
    defer mu.Unlock()
    require.Len(t, received, 1)
    assert.Equal(t, database.EventDisconnected, received[0].Kind)
    assert.Equal(t, "CafeWiFi", received[0].NetworkName)
}

func TestWebhookThrottleCapsWindow(t *testing.T) {
    cfg := testWebhookConfig("http://127.0.0.1:1")
    cfg.Throttle.MaxEvents = 3
    webhook := NewWebhook(cfg)

    now := time.Now()
    for i := 0; i < 3; i++ {
        assert.True(t, webhook.allow(now.Add(time.Duration(i)*time.Minute)))
    }
    assert.False(t, webhook.allow(now.Add(4*time.Minute)))
    assert.False(t, webhook.allow(now.Add(5*time.Minute)))
}

func TestWebhookThrottleSlidesForward(t *testing.T) {
    cfg := testWebhookConfig("http://127.0.0.1:1")
    cfg.Throttle.Window = 10 * time.Minute
    cfg.Throttle.MaxEvents = 2
    webhook := NewWebhook(cfg)

    now := time.Now()
    assert.True(t, webhook.allow(now))
    assert.True(t, webhook.allow(now.Add(time.Minute)))
    assert.False(t, webhook.allow(now.Add(2*time.Minute)))

    // First two deliveries have aged out of the window
    assert.True(t, webhook.allow(now.Add(12*time.Minute)))
}

func TestWebhookThrottledEventNotDelivered(t *testing.T) {
    var hits int
    var mu sync.Mutex
    done := make(chan struct{}, 4)
    server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        mu.Lock()
        hits++
        mu.Unlock()
        done <- struct{}{}
    }))
    defer server.Close()

    cfg := testWebhookConfig(server.URL)
    cfg.Throttle.MaxEvents = 1
    webhook := NewWebhook(cfg)

    now := time.Now()
    webhook.NotifyTransition(&database.ConnectivityEvent{ID: "a", Timestamp: now, Kind: database.EventDisconnected})
    webhook.NotifyTransition(&database.ConnectivityEvent{ID: "b", Timestamp: now.Add(time.Second), Kind: database.EventReconnected})

    select {
    case <-done:
    case <-time.After(5 * time.Second):
        t.Fatal("first webhook was never delivered")
    }

    // Give a suppressed second delivery a moment to show up if it were
    // going to
    time.Sleep(100 * time.Millisecond)

    mu.Lock()
    defer mu.Unlock()
    assert.Equal(t, 1, hits)
}
