package network_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/require"

	"github.com/obianom/cloudrig/network"
)

func testStack(t *testing.T) awscdk.Stack {
	t.Helper()
	app := awscdk.NewApp(nil)
	return awscdk.NewStack(app, jsii.String("TestStack"), nil)
}

func TestSecurityGroupDefaultAllowAllEgress(t *testing.T) {
	stack := testStack(t)

	network.NewSecurityGroup(stack, "Web", &network.SecurityGroupProps{
		VpcID:       jsii.String("vpc-123456"),
		Description: jsii.String("web tier"),
	})

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroup"), map[string]interface{}{
		"GroupDescription": "web tier",
		"VpcId":            "vpc-123456",
		"SecurityGroupEgress": []interface{}{
			map[string]interface{}{
				"CidrIp":      "0.0.0.0/0",
				"IpProtocol":  "-1",
				"Description": "Allow all outbound traffic by default",
			},
		},
	})
}

func TestSecurityGroupDenyByDefaultEgress(t *testing.T) {
	stack := testStack(t)

	network.NewSecurityGroup(stack, "Locked", &network.SecurityGroupProps{
		VpcID:            jsii.String("vpc-123456"),
		AllowAllOutbound: jsii.Bool(false),
	})

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroup"), map[string]interface{}{
		"SecurityGroupEgress": []interface{}{
			map[string]interface{}{
				"CidrIp":      "255.255.255.255/32",
				"IpProtocol":  "icmp",
				"FromPort":    252,
				"ToPort":      86,
				"Description": "Disallow all traffic",
			},
		},
	})
}

func TestSecurityGroupInlineIngress(t *testing.T) {
	stack := testStack(t)

	sg := network.NewSecurityGroup(stack, "Web", &network.SecurityGroupProps{
		VpcID: jsii.String("vpc-123456"),
	})
	sg.AddIngressRule(network.AnyIPv4(), network.TCP(443), "https")
	sg.AddIngressRule(network.AnyIPv4(), network.TCP(443), "https again")

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroup"), map[string]interface{}{
		"SecurityGroupIngress": []interface{}{
			map[string]interface{}{
				"CidrIp":      "0.0.0.0/0",
				"IpProtocol":  "tcp",
				"FromPort":    443,
				"ToPort":      443,
				"Description": "https",
			},
		},
	})
	// Inline path emits no standalone rule resources.
	template.ResourceCountIs(jsii.String("AWS::EC2::SecurityGroupIngress"), jsii.Number(0))
}

func TestSecurityGroupEgressReplacesPlaceholder(t *testing.T) {
	stack := testStack(t)

	sg := network.NewSecurityGroup(stack, "Locked", &network.SecurityGroupProps{
		VpcID:            jsii.String("vpc-123456"),
		AllowAllOutbound: jsii.Bool(false),
	})
	require.NoError(t, sg.AddEgressRule(network.IPv4("10.0.0.0/16"), network.TCP(80), ""))

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroup"), map[string]interface{}{
		"SecurityGroupEgress": []interface{}{
			map[string]interface{}{
				"CidrIp":      "10.0.0.0/16",
				"IpProtocol":  "tcp",
				"FromPort":    80,
				"ToPort":      80,
				"Description": "to 10.0.0.0/16:tcp 80",
			},
		},
	})
}

func TestSecurityGroupAllTrafficEgressFails(t *testing.T) {
	stack := testStack(t)

	sg := network.NewSecurityGroup(stack, "Locked", &network.SecurityGroupProps{
		VpcID:            jsii.String("vpc-123456"),
		AllowAllOutbound: jsii.Bool(false),
	})

	err := sg.AddEgressRule(network.AnyIPv4(), network.AllTraffic(), "")
	var cfgErr *network.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestImportedGroupEmitsStandaloneRules(t *testing.T) {
	stack := testStack(t)

	imported := network.FromGroupID(stack, "External", "sg-0123456789abcdef0")
	imported.AddIngressRule(network.IPv4("192.168.0.0/24"), network.TCP(22), "")
	require.NoError(t, imported.AddEgressRule(network.IPv4("10.0.0.0/8"), network.TCP(5432), "postgres"))

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::EC2::SecurityGroup"), jsii.Number(0))
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroupIngress"), map[string]interface{}{
		"GroupId":    "sg-0123456789abcdef0",
		"CidrIp":     "192.168.0.0/24",
		"IpProtocol": "tcp",
		"FromPort":   22,
		"ToPort":     22,
	})
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroupEgress"), map[string]interface{}{
		"GroupId":     "sg-0123456789abcdef0",
		"CidrIp":      "10.0.0.0/8",
		"Description": "postgres",
	})
}

func TestAllowAllGroupIgnoresStandaloneEgress(t *testing.T) {
	stack := testStack(t)

	sg := network.NewSecurityGroup(stack, "Web", &network.SecurityGroupProps{
		VpcID: jsii.String("vpc-123456"),
	})
	imported := network.FromGroupID(stack, "External", "sg-0123456789abcdef0")

	// Non-inlinable peer, but allow-all mode still makes this a no-op.
	require.NoError(t, sg.AddEgressRule(imported, network.TCP(443), ""))

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::EC2::SecurityGroupEgress"), jsii.Number(0))
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroup"), map[string]interface{}{
		"SecurityGroupEgress": []interface{}{
			map[string]interface{}{
				"CidrIp":      "0.0.0.0/0",
				"IpProtocol":  "-1",
				"Description": "Allow all outbound traffic by default",
			},
		},
	})
}

func TestStandaloneEgressDropsPlaceholder(t *testing.T) {
	stack := testStack(t)

	sg := network.NewSecurityGroup(stack, "Locked", &network.SecurityGroupProps{
		VpcID:            jsii.String("vpc-123456"),
		AllowAllOutbound: jsii.Bool(false),
	})
	imported := network.FromGroupID(stack, "External", "sg-0123456789abcdef0")

	require.NoError(t, sg.AddEgressRule(imported, network.TCP(5432), "postgres"))

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroupEgress"), map[string]interface{}{
		"DestinationSecurityGroupId": "sg-0123456789abcdef0",
		"FromPort":                   5432,
		"Description":                "postgres",
	})
	// The real rule supersedes the deny-all placeholder even though it
	// lives outside the inline list.
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroup"), map[string]interface{}{
		"SecurityGroupEgress": []interface{}{},
	})
}

func TestManagedGroupWithImportedPeerFallsBack(t *testing.T) {
	stack := testStack(t)

	sg := network.NewSecurityGroup(stack, "Web", &network.SecurityGroupProps{
		VpcID: jsii.String("vpc-123456"),
	})
	imported := network.FromGroupID(stack, "External", "sg-0123456789abcdef0")

	sg.AddIngressRule(imported, network.TCP(8080), "")

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroupIngress"), map[string]interface{}{
		"SourceSecurityGroupId": "sg-0123456789abcdef0",
		"FromPort":              8080,
	})
}
