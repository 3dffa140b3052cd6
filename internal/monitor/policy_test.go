// internal/monitor/policy_test.go
package monitor

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestPolicyTriggersAtThreshold(t *testing.T) {
    policy := NewPolicy(3, nil)

    assert.False(t, policy.OnPollResult(false, "").ShouldRemediate)
    assert.False(t, policy.OnPollResult(false, "").ShouldRemediate)
    assert.True(t, policy.OnPollResult(false, "").ShouldRemediate)
    assert.Equal(t, 3, policy.ConsecutiveFailures())
}

func TestPolicyDefaultThresholdTriggersOnFirstFailure(t *testing.T) {
    policy := NewPolicy(1, nil)

    assert.True(t, policy.OnPollResult(false, "").ShouldRemediate)
}

func TestPolicySuccessResetsCounter(t *testing.T) {
    policy := NewPolicy(2, nil)

    policy.OnPollResult(false, "")
    policy.OnPollResult(true, "")
    assert.Equal(t, 0, policy.ConsecutiveFailures())

    // Counter restarts; one more failure is below threshold again
    assert.False(t, policy.OnPollResult(false, "").ShouldRemediate)
}

func TestPolicyUnknownNetworkIsEligible(t *testing.T) {
    policy := NewPolicy(1, map[string]bool{"EE WiFi": true})

    assert.True(t, policy.OnPollResult(false, "").ShouldRemediate)
}

func TestPolicyForeignNetworkIsNotEligible(t *testing.T) {
    policy := NewPolicy(1, map[string]bool{"EE WiFi": true})

    decision := policy.OnPollResult(false, "GuestWiFi")
    assert.False(t, decision.ShouldRemediate)
    assert.Contains(t, decision.Reason, "GuestWiFi")

    // The failure still counts even when remediation is gated off
    assert.Equal(t, 1, policy.ConsecutiveFailures())
}

func TestPolicyRemediableNetworkIsEligible(t *testing.T) {
    policy := NewPolicy(1, map[string]bool{"EE WiFi": true})

    assert.True(t, policy.OnPollResult(false, "EE WiFi").ShouldRemediate)
}

func TestPolicyCooldownSkipsPollAfterAttempt(t *testing.T) {
    policy := NewPolicy(1, nil)

    assert.True(t, policy.OnPollResult(false, "").ShouldRemediate)
    policy.OnRemediationResult(false)

    // The poll right after an attempt never re-triggers
    decision := policy.OnPollResult(false, "")
    assert.False(t, decision.ShouldRemediate)
    assert.Contains(t, decision.Reason, "cooling down")

    // Cooldown lasts exactly one poll
    assert.True(t, policy.OnPollResult(false, "").ShouldRemediate)
}

func TestPolicyRemediationSuccessResetsOptimistically(t *testing.T) {
    policy := NewPolicy(2, nil)

    policy.OnPollResult(false, "")
    policy.OnPollResult(false, "")
    policy.OnRemediationResult(true)
    assert.Equal(t, 0, policy.ConsecutiveFailures())
}

func TestPolicySuccessClearsCooldown(t *testing.T) {
    policy := NewPolicy(1, nil)

    policy.OnPollResult(false, "")
    policy.OnRemediationResult(true)
    policy.OnPollResult(true, "")

    // A fresh outage triggers immediately; no stale cooldown
    assert.True(t, policy.OnPollResult(false, "").ShouldRemediate)
}
