// internal/notify/webhook.go - transition webhook with throttling
package notify

import (
    "bytes"
    "context"
    "encoding/json"
    "net/http"
    "sync"
    "time"

    "github.com/sirupsen/logrus"
    "portalwatch/internal/config"
    "portalwatch/internal/database"
)

// Webhook posts each connectivity transition to a configured URL. A
// sliding throttle window caps deliveries so a flapping link cannot
// flood the receiver. Delivery is best-effort and never blocks the
// monitor loop.
type Webhook struct {
    cfg    config.WebhookConfig
    client *http.Client

    mu   sync.Mutex
    sent []time.Time
}

func NewWebhook(cfg config.WebhookConfig) *Webhook {
    return &Webhook{
        cfg:    cfg,
        client: &http.Client{Timeout: cfg.Timeout},
    }
}

func (w *Webhook) NotifyTransition(event *database.ConnectivityEvent) {
    if !w.allow(event.Timestamp) {
        logrus.WithField("kind", event.Kind).Debug("Webhook notification throttled")
        return
    }
    go w.deliver(event)
}

func (w *Webhook) allow(now time.Time) bool {
    w.mu.Lock()
    defer w.mu.Unlock()

    cutoff := now.Add(-w.cfg.Throttle.Window)
    kept := w.sent[:0]
    for _, t := range w.sent {
        if t.After(cutoff) {
            kept = append(kept, t)
        }
    }
    w.sent = kept

    if len(w.sent) >= w.cfg.Throttle.MaxEvents {
        return false
    }
    w.sent = append(w.sent, now)
    return true
}

func (w *Webhook) deliver(event *database.ConnectivityEvent) {
    payload, err := json.Marshal(event)
    if err != nil {
        logrus.WithError(err).Error("Failed to encode webhook payload")
        return
    }

    ctx, cancel := context.WithTimeout(context.Background(), w.cfg.Timeout)
    defer cancel()

    req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(payload))
    if err != nil {
        logrus.WithError(err).Error("Failed to build webhook request")
        return
    }
    req.Header.Set("Content-Type", "application/json")

    resp, err := w.client.Do(req)
    if err != nil {
        logrus.WithError(err).WithField("kind", event.Kind).Warn("Webhook delivery failed")
        return
    }
    defer resp.Body.Close()

    if resp.StatusCode >= 300 {
        logrus.WithFields(logrus.Fields{
            "kind":   event.Kind,
            "status": resp.StatusCode,
        }).Warn("Webhook delivery rejected")
        return
    }

    logrus.WithField("kind", event.Kind).Debug("Webhook notification delivered")
}
