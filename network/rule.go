package network

// Rule is a single ingress or egress entry as it will appear on the
// synthesized security group. Exactly one of CidrIP, CidrIPv6 or
// PeerGroupID carries the peer side; the rest stay zero.
type Rule struct {
	CidrIP      string
	CidrIPv6    string
	PeerGroupID string
	Protocol    string
	FromPort    int64
	ToPort      int64
	Description string
}

// direction selects which projection a peer contributes to a rule.
type direction int

const (
	directionIngress direction = iota
	directionEgress
)

// RuleFields is the peer-side fragment of a rule. Peers project
// themselves into one of these instead of being spread field-by-field
// at every call site.
type RuleFields struct {
	CidrIP      string
	CidrIPv6    string
	PeerGroupID string
}

// buildRule assembles a fixed-field rule from the peer and port
// projections. The description is taken as-is; callers derive defaults
// before getting here.
func buildRule(peer Peer, port PortRange, description string, dir direction) Rule {
	var fields RuleFields
	if dir == directionIngress {
		fields = peer.ToIngressRuleFields()
	} else {
		fields = peer.ToEgressRuleFields()
	}
	return Rule{
		CidrIP:      fields.CidrIP,
		CidrIPv6:    fields.CidrIPv6,
		PeerGroupID: fields.PeerGroupID,
		Protocol:    port.Protocol(),
		FromPort:    port.FromPort(),
		ToPort:      port.ToPort(),
		Description: description,
	}
}

// equalIgnoringDescription reports whether two rules are the same rule
// for de-duplication purposes. Two rules that differ only in their
// description are duplicates.
func equalIgnoringDescription(a, b Rule) bool {
	return a.CidrIP == b.CidrIP &&
		a.CidrIPv6 == b.CidrIPv6 &&
		a.PeerGroupID == b.PeerGroupID &&
		a.Protocol == b.Protocol &&
		a.FromPort == b.FromPort &&
		a.ToPort == b.ToPort
}

// allowAllRule is the single egress entry emitted when the group allows
// all outbound traffic by default.
func allowAllRule() Rule {
	return Rule{
		CidrIP:      "0.0.0.0/0",
		Protocol:    "-1",
		Description: "Allow all outbound traffic by default",
	}
}

// matchNoTrafficRule is the placeholder emitted while the group denies
// all outbound traffic. CloudFormation requires at least one egress
// entry to suppress the platform's implicit allow-all, so we emit one
// that can never match: an unroutable address with an ICMP type/code
// pair that does not exist.
func matchNoTrafficRule() Rule {
	return Rule{
		CidrIP:      "255.255.255.255/32",
		Protocol:    "icmp",
		FromPort:    252,
		ToPort:      86,
		Description: "Disallow all traffic",
	}
}

// isAllowAllPattern reports whether a candidate egress rule duplicates
// the allow-all semantics, regardless of its description.
func isAllowAllPattern(r Rule) bool {
	return equalIgnoringDescription(r, allowAllRule())
}
