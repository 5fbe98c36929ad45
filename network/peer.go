package network

// Peer is the far side of a security group rule: the source of ingress
// traffic or the destination of egress traffic. A peer knows how to
// project itself into the peer-side fields of a rule for either
// direction, whether the projection may be inlined on the owning
// group, and a stable identity string used to derive default rule
// descriptions.
type Peer interface {
	ToIngressRuleFields() RuleFields
	ToEgressRuleFields() RuleFields
	CanInlineRule() bool
	UniqueID() string
}

type cidrPeer struct {
	cidr string
	ipv6 bool
}

// IPv4 returns a peer for an IPv4 CIDR block, e.g. "10.0.0.0/16".
func IPv4(cidr string) Peer {
	return &cidrPeer{cidr: cidr}
}

// IPv6 returns a peer for an IPv6 CIDR block.
func IPv6(cidr string) Peer {
	return &cidrPeer{cidr: cidr, ipv6: true}
}

// AnyIPv4 returns the 0.0.0.0/0 peer.
func AnyIPv4() Peer {
	return IPv4("0.0.0.0/0")
}

// AnyIPv6 returns the ::/0 peer.
func AnyIPv6() Peer {
	return IPv6("::/0")
}

func (p *cidrPeer) ToIngressRuleFields() RuleFields {
	return p.fields()
}

func (p *cidrPeer) ToEgressRuleFields() RuleFields {
	return p.fields()
}

func (p *cidrPeer) fields() RuleFields {
	if p.ipv6 {
		return RuleFields{CidrIPv6: p.cidr}
	}
	return RuleFields{CidrIP: p.cidr}
}

func (p *cidrPeer) CanInlineRule() bool {
	return true
}

func (p *cidrPeer) UniqueID() string {
	return p.cidr
}
