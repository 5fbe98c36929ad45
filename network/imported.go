package network

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// importedSecurityGroup represents a security group that exists outside
// this stack and is known only by its ID. It has no rule set of its
// own: every rule added against it becomes a standalone resource, and
// it never inlines when used as a peer.
type importedSecurityGroup struct {
	construct constructs.Construct
	groupID   string
}

// FromGroupID imports an existing security group by its ID. The result
// supports the same rule-adding surface as a managed group but aims
// every rule at the external group through standalone resources.
func FromGroupID(scope constructs.Construct, id string, groupID string) ISecurityGroup {
	return &importedSecurityGroup{
		construct: constructs.NewConstruct(scope, &id),
		groupID:   groupID,
	}
}

func (s *importedSecurityGroup) GroupID() *string {
	return jsii.String(s.groupID)
}

func (s *importedSecurityGroup) AddIngressRule(peer Peer, port PortRange, description string) {
	if description == "" {
		description = fmt.Sprintf("from %s:%s", peer.UniqueID(), port)
	}
	fields := peer.ToIngressRuleFields()
	ruleID := fmt.Sprintf("from %s:%s", peer.UniqueID(), port)
	awsec2.NewCfnSecurityGroupIngress(s.construct, jsii.String(ruleID), &awsec2.CfnSecurityGroupIngressProps{
		GroupId:               s.GroupID(),
		CidrIp:                nonEmpty(fields.CidrIP),
		CidrIpv6:              nonEmpty(fields.CidrIPv6),
		SourceSecurityGroupId: nonEmpty(fields.PeerGroupID),
		IpProtocol:            jsii.String(port.Protocol()),
		FromPort:              portNumber(port.Protocol(), port.FromPort()),
		ToPort:                portNumber(port.Protocol(), port.ToPort()),
		Description:           jsii.String(description),
	})
}

func (s *importedSecurityGroup) AddEgressRule(peer Peer, port PortRange, description string) error {
	if description == "" {
		description = fmt.Sprintf("to %s:%s", peer.UniqueID(), port)
	}
	fields := peer.ToEgressRuleFields()
	ruleID := fmt.Sprintf("to %s:%s", peer.UniqueID(), port)
	awsec2.NewCfnSecurityGroupEgress(s.construct, jsii.String(ruleID), &awsec2.CfnSecurityGroupEgressProps{
		GroupId:                    s.GroupID(),
		CidrIp:                     nonEmpty(fields.CidrIP),
		CidrIpv6:                   nonEmpty(fields.CidrIPv6),
		DestinationSecurityGroupId: nonEmpty(fields.PeerGroupID),
		IpProtocol:                 jsii.String(port.Protocol()),
		FromPort:                   portNumber(port.Protocol(), port.FromPort()),
		ToPort:                     portNumber(port.Protocol(), port.ToPort()),
		Description:                jsii.String(description),
	})
	return nil
}

func (s *importedSecurityGroup) ToIngressRuleFields() RuleFields {
	return RuleFields{PeerGroupID: s.groupID}
}

func (s *importedSecurityGroup) ToEgressRuleFields() RuleFields {
	return RuleFields{PeerGroupID: s.groupID}
}

// An imported group cannot be inlined: the owning stack has no handle
// on its definition, so rules referencing it must stand alone.
func (s *importedSecurityGroup) CanInlineRule() bool {
	return false
}

func (s *importedSecurityGroup) UniqueID() string {
	return s.groupID
}
