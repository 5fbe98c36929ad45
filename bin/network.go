package main

import (
	"log"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/obianom/cloudrig/config"
	"github.com/obianom/cloudrig/network"
)

// Network related resources
func createNetworkResources(stack awscdk.Stack) *network.SecurityGroup {
	rulesPath := os.Getenv("RULES_FILE")
	if rulesPath == "" {
		rulesPath = "config/rules.yaml"
	}

	rules, err := config.LoadRules(rulesPath)
	if err != nil {
		log.Fatal("load rules: ", err)
	}

	securityGroup := network.NewSecurityGroup(stack, "AppSecurityGroup", &network.SecurityGroupProps{
		VpcID:            jsii.String(config.CheckEnv("VPC_ID")),
		Description:      jsii.String("Application traffic for the deploy pipeline targets"),
		AllowAllOutbound: jsii.Bool(rules.AllowAllOutbound),
	})

	for _, entry := range rules.Ingress {
		securityGroup.AddIngressRule(network.IPv4(entry.Cidr), entryPort(entry), entry.Description)
	}
	for _, entry := range rules.Egress {
		if err := securityGroup.AddEgressRule(network.IPv4(entry.Cidr), entryPort(entry), entry.Description); err != nil {
			log.Fatal("egress rule: ", err)
		}
	}

	return securityGroup
}

func entryPort(entry config.RuleEntry) network.PortRange {
	switch entry.Protocol {
	case "tcp":
		return network.TCPRange(entry.FromPort, entry.ToPort)
	case "udp":
		return network.UDPRange(entry.FromPort, entry.ToPort)
	default:
		return network.ICMPTypeAndCode(entry.FromPort, entry.ToPort)
	}
}
