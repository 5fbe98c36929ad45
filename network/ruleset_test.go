package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obianom/cloudrig/network"
)

func ingressRule(t *testing.T, rs *network.RuleSet, cidr string, port int64, desc string) bool {
	t.Helper()
	return rs.AddIngress(testRule(cidr, port, desc))
}

func testRule(cidr string, port int64, desc string) network.Rule {
	return network.Rule{
		CidrIP:      cidr,
		Protocol:    "tcp",
		FromPort:    port,
		ToPort:      port,
		Description: desc,
	}
}

func TestAddIngressIdempotent(t *testing.T) {
	rs := network.NewRuleSet(true)

	require.True(t, ingressRule(t, rs, "10.0.0.0/16", 22, "ssh"))
	require.False(t, ingressRule(t, rs, "10.0.0.0/16", 22, "other-desc"))

	rules := rs.Ingress()
	require.Len(t, rules, 1)
	assert.Equal(t, "ssh", rules[0].Description, "first description wins")
}

func TestAddIngressDistinctRules(t *testing.T) {
	rs := network.NewRuleSet(true)

	require.True(t, ingressRule(t, rs, "10.0.0.0/16", 22, ""))
	require.True(t, ingressRule(t, rs, "10.0.0.0/16", 80, ""))
	require.True(t, ingressRule(t, rs, "192.168.0.0/24", 22, ""))

	assert.Len(t, rs.Ingress(), 3)
}

func TestAllowAllOutboundEgressIsTerminal(t *testing.T) {
	rs := network.NewRuleSet(true)

	want := rs.Egress()
	require.Len(t, want, 1)
	assert.Equal(t, "0.0.0.0/0", want[0].CidrIP)
	assert.Equal(t, "-1", want[0].Protocol)

	// Every explicit egress add is a no-op in this mode.
	added, err := rs.AddEgress(testRule("10.1.0.0/16", 443, ""))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, want, rs.Egress())
}

func TestDenyByDefaultSentinelSwap(t *testing.T) {
	rs := network.NewRuleSet(false)

	initial := rs.Egress()
	require.Len(t, initial, 1)
	assert.Equal(t, "255.255.255.255/32", initial[0].CidrIP)
	assert.Equal(t, "icmp", initial[0].Protocol)
	assert.Equal(t, int64(252), initial[0].FromPort)
	assert.Equal(t, int64(86), initial[0].ToPort)

	added, err := rs.AddEgress(testRule("10.0.0.0/16", 80, ""))
	require.NoError(t, err)
	require.True(t, added)

	rules := rs.Egress()
	require.Len(t, rules, 1)
	assert.Equal(t, "10.0.0.0/16", rules[0].CidrIP)

	// Placeholder never comes back, rules keep accumulating.
	added, err = rs.AddEgress(testRule("10.2.0.0/16", 443, ""))
	require.NoError(t, err)
	require.True(t, added)
	assert.Len(t, rs.Egress(), 2)
	for _, r := range rs.Egress() {
		assert.NotEqual(t, "255.255.255.255/32", r.CidrIP)
	}
}

func TestDenyByDefaultEgressDedup(t *testing.T) {
	rs := network.NewRuleSet(false)

	added, err := rs.AddEgress(testRule("10.0.0.0/16", 80, ""))
	require.NoError(t, err)
	require.True(t, added)

	added, err = rs.AddEgress(testRule("10.0.0.0/16", 80, "dup"))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, rs.Egress(), 1)
}

func TestDropEgressPlaceholder(t *testing.T) {
	rs := network.NewRuleSet(false)
	require.Len(t, rs.Egress(), 1)

	rs.DropEgressPlaceholder()
	assert.Empty(t, rs.Egress())

	// One-way: a later inline add does not resurrect the placeholder.
	added, err := rs.AddEgress(testRule("10.0.0.0/16", 80, ""))
	require.NoError(t, err)
	require.True(t, added)
	require.Len(t, rs.Egress(), 1)
	assert.Equal(t, "10.0.0.0/16", rs.Egress()[0].CidrIP)

	// No-op in allow-all mode.
	open := network.NewRuleSet(true)
	open.DropEgressPlaceholder()
	require.Len(t, open.Egress(), 1)
	assert.Equal(t, "0.0.0.0/0", open.Egress()[0].CidrIP)
}

func TestExplicitAllTrafficEgressRejected(t *testing.T) {
	rs := network.NewRuleSet(false)

	before := rs.Egress()
	_, err := rs.AddEgress(network.Rule{CidrIP: "0.0.0.0/0", Protocol: "-1"})
	require.Error(t, err)

	var cfgErr *network.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, before, rs.Egress(), "failed add must leave the egress list unchanged")

	// Same rejection regardless of description.
	_, err = rs.AddEgress(network.Rule{CidrIP: "0.0.0.0/0", Protocol: "-1", Description: "open"})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, before, rs.Egress())
}
