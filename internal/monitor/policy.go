// internal/monitor/policy.go
package monitor

// Decision is the remediation policy's verdict for one poll tick.
type Decision struct {
    ShouldRemediate bool
    Reason          string
}

// Policy decides when a run of failed polls warrants invoking the
// remediator. It counts consecutive failures, gates on the remediable
// network set, and is consulted exactly once per tick, so remediation
// can never fire twice within one poll interval. After an attempt it
// cools down for one poll, giving the portal login time to take effect
// before escalating again.
type Policy struct {
    threshold           int
    remediable          map[string]bool
    consecutiveFailures int
    cooldown            bool
}

func NewPolicy(threshold int, remediable map[string]bool) *Policy {
    if threshold < 1 {
        threshold = 1
    }
    return &Policy{
        threshold:  threshold,
        remediable: remediable,
    }
}

func (p *Policy) ConsecutiveFailures() int {
    return p.consecutiveFailures
}

// OnPollResult folds one verdict into the failure counter and decides
// whether to remediate this tick. An unknown network (empty name) is
// always eligible; a known network must be in the remediable set.
func (p *Policy) OnPollResult(reachable bool, networkName string) Decision {
    if reachable {
        p.consecutiveFailures = 0
        p.cooldown = false
        return Decision{}
    }

    p.consecutiveFailures++

    if p.cooldown {
        p.cooldown = false
        return Decision{Reason: "cooling down after remediation attempt"}
    }

    if p.consecutiveFailures < p.threshold {
        return Decision{Reason: "below failure threshold"}
    }

    if networkName != "" && !p.remediable[networkName] {
        return Decision{Reason: "network not in remediable set: " + networkName}
    }

    return Decision{ShouldRemediate: true}
}

// OnRemediationResult starts the one-poll cooldown regardless of
// outcome and, on success, resets the failure counter optimistically;
// the next poll verifies it.
func (p *Policy) OnRemediationResult(success bool) {
    p.cooldown = true
    if success {
        p.consecutiveFailures = 0
    }
}
