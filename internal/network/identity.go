// internal/network/identity.go
package network

import (
    "context"
    "os/exec"
    "strings"
)

// Provider reports the identity of the currently active network. An
// empty name with a nil error means no identity is available, which the
// remediation policy treats as eligible.
type Provider interface {
    CurrentNetwork(ctx context.Context) (string, error)
}

// NetshProvider shells out to netsh to read the connected WLAN profile.
type NetshProvider struct{}

func (p *NetshProvider) CurrentNetwork(ctx context.Context) (string, error) {
    cmd := exec.CommandContext(ctx, "netsh", "wlan", "show", "interfaces")
    output, err := cmd.Output()
    if err != nil {
        return "", err
    }
    return ParseWlanProfile(string(output)), nil
}

// ParseWlanProfile extracts the profile name from `netsh wlan show
// interfaces` output. Returns "" when no profile is connected.
func ParseWlanProfile(output string) string {
    for _, line := range strings.Split(output, "\n") {
        key, value, found := strings.Cut(line, ":")
        // Key must be exactly "Profile": "Connection mode" reports the
        // value "Profile" and must not match.
        if !found || strings.TrimSpace(key) != "Profile" {
            continue
        }
        name := strings.TrimSpace(value)
        if name != "" && name != "Not configured" {
            return name
        }
    }
    return ""
}

// StaticProvider always reports the same network name. Used for wired
// uplinks where the hotspot identity is fixed, and in tests.
type StaticProvider struct {
    Name string
}

func (p *StaticProvider) CurrentNetwork(ctx context.Context) (string, error) {
    return p.Name, nil
}
