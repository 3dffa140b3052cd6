// internal/remediation/remediator.go
package remediation

import (
    "context"
    "fmt"
    "os"
    "os/exec"
    "time"

    "github.com/sirupsen/logrus"
    "portalwatch/internal/config"
)

// Remediator attempts an out-of-band portal re-authentication for one
// hotspot. Any non-true result is a failure; the caller does not
// inspect why.
type Remediator interface {
    Attempt(ctx context.Context, hotspot *config.HotspotConfig) (bool, error)
}

// CommandRemediator runs the hotspot's configured helper command (the
// browser-automation portal login lives outside this process). Exit
// status zero means the portal flow completed.
type CommandRemediator struct{}

func NewCommandRemediator() *CommandRemediator {
    return &CommandRemediator{}
}

func (r *CommandRemediator) Attempt(ctx context.Context, hotspot *config.HotspotConfig) (bool, error) {
    if len(hotspot.Command) == 0 {
        return false, fmt.Errorf("no remediation command configured for %s", hotspot.SSID)
    }

    timeout := hotspot.Timeout
    if timeout <= 0 {
        timeout = 2 * time.Minute
    }
    ctx, cancel := context.WithTimeout(ctx, timeout)
    defer cancel()

    cmd := exec.CommandContext(ctx, hotspot.Command[0], hotspot.Command[1:]...)
    cmd.Env = append(os.Environ(),
        "PORTALWATCH_SSID="+hotspot.SSID,
        "PORTALWATCH_LOGIN_TYPE="+hotspot.LoginType,
        "PORTALWATCH_USERNAME="+hotspot.Username,
        "PORTALWATCH_PASSWORD="+hotspot.Password,
    )

    start := time.Now()
    output, err := cmd.CombinedOutput()

    fields := logrus.Fields{
        "ssid":     hotspot.SSID,
        "duration": time.Since(start),
    }
    if err != nil {
        fields["output"] = tail(string(output), 512)
        logrus.WithError(err).WithFields(fields).Warn("Remediation command failed")
        return false, err
    }

    logrus.WithFields(fields).Info("Remediation command completed")
    return true, nil
}

// Chain tries a prioritized list of remediators in order until one
// succeeds.
type Chain struct {
    remediators []Remediator
}

func NewChain(remediators ...Remediator) *Chain {
    return &Chain{remediators: remediators}
}

func (c *Chain) Attempt(ctx context.Context, hotspot *config.HotspotConfig) (bool, error) {
    var lastErr error

    for _, remediator := range c.remediators {
        if ctx.Err() != nil {
            return false, ctx.Err()
        }

        ok, err := remediator.Attempt(ctx, hotspot)
        if ok {
            return true, nil
        }
        if err != nil {
            lastErr = err
        }
    }

    if lastErr != nil {
        return false, fmt.Errorf("all remediators failed: %w", lastErr)
    }
    return false, nil
}

func tail(s string, n int) string {
    if len(s) <= n {
        return s
    }
    return s[len(s)-n:]
}
