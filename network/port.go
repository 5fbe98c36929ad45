package network

import "fmt"

// PortRange is the traffic-matching side of a security group rule: an
// IP protocol plus a port (or ICMP type/code) interval. Like Peer, it
// projects itself into rule fields and reports whether it may be
// inlined.
type PortRange interface {
	Protocol() string
	FromPort() int64
	ToPort() int64
	CanInlineRule() bool
	fmt.Stringer
}

type portRange struct {
	protocol string
	from     int64
	to       int64
	label    string
}

func (p *portRange) Protocol() string    { return p.protocol }
func (p *portRange) FromPort() int64     { return p.from }
func (p *portRange) ToPort() int64       { return p.to }
func (p *portRange) CanInlineRule() bool { return true }

func (p *portRange) String() string {
	if p.label != "" {
		return p.label
	}
	if p.from == p.to {
		return fmt.Sprintf("%s %d", p.protocol, p.from)
	}
	return fmt.Sprintf("%s %d-%d", p.protocol, p.from, p.to)
}

// TCP matches a single TCP port.
func TCP(port int64) PortRange {
	return &portRange{protocol: "tcp", from: port, to: port}
}

// TCPRange matches an inclusive TCP port interval.
func TCPRange(from, to int64) PortRange {
	return &portRange{protocol: "tcp", from: from, to: to}
}

// UDP matches a single UDP port.
func UDP(port int64) PortRange {
	return &portRange{protocol: "udp", from: port, to: port}
}

// UDPRange matches an inclusive UDP port interval.
func UDPRange(from, to int64) PortRange {
	return &portRange{protocol: "udp", from: from, to: to}
}

// ICMPTypeAndCode matches one ICMP type/code pair. The CloudFormation
// encoding reuses the port fields for type and code.
func ICMPTypeAndCode(icmpType, icmpCode int64) PortRange {
	return &portRange{
		protocol: "icmp",
		from:     icmpType,
		to:       icmpCode,
		label:    fmt.Sprintf("icmp type %d code %d", icmpType, icmpCode),
	}
}

// ICMPPing matches ICMP echo requests.
func ICMPPing() PortRange {
	return ICMPTypeAndCode(8, -1)
}

// AllTCP matches every TCP port.
func AllTCP() PortRange {
	return &portRange{protocol: "tcp", from: 0, to: 65535, label: "all tcp"}
}

// AllUDP matches every UDP port.
func AllUDP() PortRange {
	return &portRange{protocol: "udp", from: 0, to: 65535, label: "all udp"}
}

// AllTraffic matches every protocol and port.
func AllTraffic() PortRange {
	return &portRange{protocol: "-1", label: "all traffic"}
}
