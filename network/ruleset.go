package network

import "fmt"

// ConfigurationError reports a rule combination that would make the
// synthesized template diverge from the caller's intent. It aborts the
// synthesis step; there is no recovery path.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string {
	return e.msg
}

func configurationErrorf(format string, args ...any) error {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

// egressState tracks the lifecycle of the default-egress sentinel.
type egressState int

const (
	// egressAllByDefault is terminal: the single allow-all entry
	// subsumes every explicit egress rule for the group's lifetime.
	egressAllByDefault egressState = iota
	// egressDenyByDefault holds the match-no-traffic placeholder
	// until a real rule arrives.
	egressDenyByDefault
	// egressFirstRuleAdded: the placeholder is gone and never comes
	// back.
	egressFirstRuleAdded
)

// RuleSet owns the ingress and egress rule collections of a single
// security group. Rules are append-only and de-duplicated on a
// description-excluded structural equality; the egress side carries a
// sentinel entry until a real rule supersedes it. A RuleSet is owned
// and mutated by exactly one group during a single synthesis pass, so
// there is no locking.
type RuleSet struct {
	allowAllOutbound bool
	state            egressState
	ingress          []Rule
	egress           []Rule
}

// NewRuleSet seeds the egress side so the emitted list always has at
// least one entry: allow-all when outbound traffic is open by default,
// the match-no-traffic placeholder otherwise.
func NewRuleSet(allowAllOutbound bool) *RuleSet {
	rs := &RuleSet{allowAllOutbound: allowAllOutbound}
	if allowAllOutbound {
		rs.state = egressAllByDefault
		rs.egress = append(rs.egress, allowAllRule())
	} else {
		rs.state = egressDenyByDefault
		rs.egress = append(rs.egress, matchNoTrafficRule())
	}
	return rs
}

// AllowAllOutbound reports whether the set was created in allow-all
// egress mode.
func (rs *RuleSet) AllowAllOutbound() bool {
	return rs.allowAllOutbound
}

// AddIngress appends the rule unless an equal one (ignoring the
// description) is already present. It always succeeds; duplicate adds
// are no-ops and the first description wins.
func (rs *RuleSet) AddIngress(r Rule) bool {
	if containsRule(rs.ingress, r) {
		return false
	}
	rs.ingress = append(rs.ingress, r)
	return true
}

// AddEgress appends the rule to the egress side.
//
// In allow-all mode every call is a no-op: the single allow-all entry
// already covers whatever the caller asks for, and emitting a second
// entry would only grow the template. In deny-by-default mode the
// first successful add removes the match-no-traffic placeholder, which
// is never re-added. An explicit rule that duplicates the allow-all
// pattern is rejected with a ConfigurationError: "all traffic" egress
// must be expressed through the allow-all-outbound mode so the emitted
// rule list cannot silently diverge from the configured default.
func (rs *RuleSet) AddEgress(r Rule) (bool, error) {
	if rs.state == egressAllByDefault {
		return false, nil
	}
	if isAllowAllPattern(r) {
		return false, configurationErrorf(
			"cannot add an all-traffic egress rule to a security group that denies outbound traffic by default; set allowAllOutbound instead")
	}
	rs.DropEgressPlaceholder()
	if containsRule(rs.egress, r) {
		return false, nil
	}
	rs.egress = append(rs.egress, r)
	return true, nil
}

// DropEgressPlaceholder removes the match-no-traffic placeholder when a
// real egress rule lands outside the inline list, e.g. as a standalone
// rule resource. No-op in allow-all mode or once the placeholder is
// already gone; it never comes back either way.
func (rs *RuleSet) DropEgressPlaceholder() {
	if rs.state == egressDenyByDefault {
		rs.egress = removeRule(rs.egress, matchNoTrafficRule())
		rs.state = egressFirstRuleAdded
	}
}

// Ingress returns a copy of the ingress rules in insertion order.
func (rs *RuleSet) Ingress() []Rule {
	out := make([]Rule, len(rs.ingress))
	copy(out, rs.ingress)
	return out
}

// Egress returns a copy of the egress rules in insertion order.
func (rs *RuleSet) Egress() []Rule {
	out := make([]Rule, len(rs.egress))
	copy(out, rs.egress)
	return out
}

func containsRule(rules []Rule, r Rule) bool {
	for _, have := range rules {
		if equalIgnoringDescription(have, r) {
			return true
		}
	}
	return false
}

func removeRule(rules []Rule, r Rule) []Rule {
	out := rules[:0]
	for _, have := range rules {
		if !equalIgnoringDescription(have, r) {
			out = append(out, have)
		}
	}
	return out
}
