// internal/probe/prober.go
package probe

import (
    "context"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/sirupsen/logrus"
)

// DefaultEndpoints mixes raw IP literals and DNS names so a DNS outage
// alone cannot produce a false negative.
var DefaultEndpoints = []string{
    "https://8.8.8.8",
    "https://1.1.1.1",
    "https://www.google.com",
    "https://www.cloudflare.com",
}

// Verdict is the aggregate outcome of one probe call.
type Verdict struct {
    Reachable bool
    Detail    string // set when unreachable
}

// Prober checks reachability against an ordered endpoint list. Each
// endpoint gets one short-timeout request per call; per-endpoint
// failures are swallowed and the next endpoint is tried. The verdict is
// reachable once minSuccesses endpoints have answered.
type Prober struct {
    endpoints    []string
    minSuccesses int
    client       *http.Client
}

func NewProber(endpoints []string, timeout time.Duration, minSuccesses int) *Prober {
    if len(endpoints) == 0 {
        endpoints = DefaultEndpoints
    }
    if timeout <= 0 {
        timeout = 5 * time.Second
    }
    if minSuccesses < 1 {
        minSuccesses = 1
    }

    return &Prober{
        endpoints:    endpoints,
        minSuccesses: minSuccesses,
        // TLS verification stays on: a captive portal intercepting
        // these hosts fails the handshake, which is exactly the
        // unreachable signal we want.
        client: &http.Client{
            Timeout: timeout,
        },
    }
}

func (p *Prober) Probe(ctx context.Context) Verdict {
    successes := 0
    var failures []string

    for _, endpoint := range p.endpoints {
        if ctx.Err() != nil {
            return Verdict{Reachable: false, Detail: "probe cancelled"}
        }

        if err := p.check(ctx, endpoint); err != nil {
            logrus.WithFields(logrus.Fields{
                "endpoint": endpoint,
                "error":    err,
            }).Debug("Probe endpoint failed")
            failures = append(failures, fmt.Sprintf("%s: %v", endpoint, err))
            continue
        }

        successes++
        if successes >= p.minSuccesses {
            return Verdict{Reachable: true}
        }
    }

    if successes > 0 {
        return Verdict{
            Reachable: false,
            Detail: fmt.Sprintf("insufficient connectivity: %d of %d required endpoints reachable; %s",
                successes, p.minSuccesses, strings.Join(failures, "; ")),
        }
    }
    return Verdict{
        Reachable: false,
        Detail:    "all connectivity tests failed: " + strings.Join(failures, "; "),
    }
}

func (p *Prober) check(ctx context.Context, endpoint string) error {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
    if err != nil {
        return err
    }

    resp, err := p.client.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()
    io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return fmt.Errorf("status %d", resp.StatusCode)
    }
    return nil
}
