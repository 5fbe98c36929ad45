package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obianom/cloudrig/config"
)

func TestParseRules(t *testing.T) {
	data := []byte(`
allow_all_outbound: false
ingress:
  - cidr: 10.0.0.0/16
    protocol: tcp
    from_port: 443
    to_port: 443
    description: https from vpc
  - cidr: 192.168.0.0/24
    protocol: udp
    from_port: 53
    to_port: 53
egress:
  - cidr: 10.1.0.0/16
    protocol: tcp
    from_port: 5432
    to_port: 5432
`)

	rules, err := config.ParseRules(data)
	require.NoError(t, err)

	assert.False(t, rules.AllowAllOutbound)
	require.Len(t, rules.Ingress, 2)
	assert.Equal(t, config.RuleEntry{
		Cidr:        "10.0.0.0/16",
		Protocol:    "tcp",
		FromPort:    443,
		ToPort:      443,
		Description: "https from vpc",
	}, rules.Ingress[0])
	require.Len(t, rules.Egress, 1)
	assert.Equal(t, int64(5432), rules.Egress[0].FromPort)
}

func TestParseRulesInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			"bad cidr",
			`ingress:
  - cidr: not-a-cidr
    protocol: tcp
    from_port: 80
    to_port: 80`,
		},
		{
			"bad protocol",
			`ingress:
  - cidr: 10.0.0.0/16
    protocol: gre
    from_port: 80
    to_port: 80`,
		},
		{
			"port out of range",
			`ingress:
  - cidr: 10.0.0.0/16
    protocol: tcp
    from_port: 80
    to_port: 70000`,
		},
		{
			"to before from",
			`ingress:
  - cidr: 10.0.0.0/16
    protocol: tcp
    from_port: 443
    to_port: 80`,
		},
		{
			"not yaml",
			`{{{`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseRules([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
