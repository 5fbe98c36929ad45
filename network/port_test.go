package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/obianom/cloudrig/network"
)

func TestPortRangeProjections(t *testing.T) {
	tests := []struct {
		name     string
		port     network.PortRange
		protocol string
		from     int64
		to       int64
		str      string
	}{
		{"single tcp", network.TCP(443), "tcp", 443, 443, "tcp 443"},
		{"tcp range", network.TCPRange(8000, 8080), "tcp", 8000, 8080, "tcp 8000-8080"},
		{"single udp", network.UDP(53), "udp", 53, 53, "udp 53"},
		{"udp range", network.UDPRange(60000, 61000), "udp", 60000, 61000, "udp 60000-61000"},
		{"icmp ping", network.ICMPPing(), "icmp", 8, -1, "icmp type 8 code -1"},
		{"all tcp", network.AllTCP(), "tcp", 0, 65535, "all tcp"},
		{"all udp", network.AllUDP(), "udp", 0, 65535, "all udp"},
		{"all traffic", network.AllTraffic(), "-1", 0, 0, "all traffic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.protocol, tt.port.Protocol())
			assert.Equal(t, tt.from, tt.port.FromPort())
			assert.Equal(t, tt.to, tt.port.ToPort())
			assert.Equal(t, tt.str, tt.port.String())
			assert.True(t, tt.port.CanInlineRule())
		})
	}
}

func TestPeerProjections(t *testing.T) {
	v4 := network.IPv4("10.0.0.0/16")
	assert.Equal(t, network.RuleFields{CidrIP: "10.0.0.0/16"}, v4.ToIngressRuleFields())
	assert.Equal(t, network.RuleFields{CidrIP: "10.0.0.0/16"}, v4.ToEgressRuleFields())
	assert.Equal(t, "10.0.0.0/16", v4.UniqueID())
	assert.True(t, v4.CanInlineRule())

	v6 := network.IPv6("2001:db8::/32")
	assert.Equal(t, network.RuleFields{CidrIPv6: "2001:db8::/32"}, v6.ToIngressRuleFields())

	assert.Equal(t, "0.0.0.0/0", network.AnyIPv4().UniqueID())
	assert.Equal(t, "::/0", network.AnyIPv6().UniqueID())
}
