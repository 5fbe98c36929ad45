package network

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// ISecurityGroup is a security group as seen by rule-adding code: a
// managed group defined in this stack, or one imported by its ID. An
// imported group cannot carry inline rules, so additions against it
// fall back to standalone rule resources. Every security group is also
// a Peer, so groups can reference each other in rules.
type ISecurityGroup interface {
	Peer
	GroupID() *string
	AddIngressRule(peer Peer, port PortRange, description string)
	AddEgressRule(peer Peer, port PortRange, description string) error
}

// SecurityGroupProps configures a managed security group.
type SecurityGroupProps struct {
	VpcID       *string
	Description *string
	GroupName   *string
	// AllowAllOutbound defaults to true, matching the platform's own
	// default posture.
	AllowAllOutbound *bool
}

// SecurityGroup is a managed security group: it owns the underlying
// CfnSecurityGroup and a RuleSet that is pushed onto the resource
// after every mutation.
type SecurityGroup struct {
	construct constructs.Construct
	cfn       awsec2.CfnSecurityGroup
	rules     *RuleSet
}

// NewSecurityGroup defines a security group in scope and seeds its
// egress posture per props.AllowAllOutbound.
func NewSecurityGroup(scope constructs.Construct, id string, props *SecurityGroupProps) *SecurityGroup {
	construct := constructs.NewConstruct(scope, &id)

	allowAll := true
	if props.AllowAllOutbound != nil {
		allowAll = *props.AllowAllOutbound
	}

	description := props.Description
	if description == nil {
		description = jsii.String(id)
	}

	cfn := awsec2.NewCfnSecurityGroup(construct, jsii.String("Resource"), &awsec2.CfnSecurityGroupProps{
		GroupDescription: description,
		GroupName:        props.GroupName,
		VpcId:            props.VpcID,
	})

	sg := &SecurityGroup{
		construct: construct,
		cfn:       cfn,
		rules:     NewRuleSet(allowAll),
	}
	sg.syncEgress()
	return sg
}

// GroupID returns the deploy-time group ID token.
func (s *SecurityGroup) GroupID() *string {
	return s.cfn.AttrGroupId()
}

// AddIngressRule allows traffic from peer on port. Adding the same
// peer/port pair twice keeps a single rule and the first description.
func (s *SecurityGroup) AddIngressRule(peer Peer, port PortRange, description string) {
	if description == "" {
		description = fmt.Sprintf("from %s:%s", peer.UniqueID(), port)
	}
	if !peer.CanInlineRule() || !port.CanInlineRule() {
		s.addStandaloneIngress(peer, port, description)
		return
	}
	if s.rules.AddIngress(buildRule(peer, port, description, directionIngress)) {
		s.syncIngress()
	}
}

// AddEgressRule allows traffic to peer on port. In allow-all-outbound
// mode this is a no-op; in deny-by-default mode an explicit all-traffic
// rule is rejected with a ConfigurationError.
func (s *SecurityGroup) AddEgressRule(peer Peer, port PortRange, description string) error {
	if description == "" {
		description = fmt.Sprintf("to %s:%s", peer.UniqueID(), port)
	}
	// The allow-all entry subsumes any egress rule, inline or
	// standalone.
	if s.rules.AllowAllOutbound() {
		return nil
	}
	if !peer.CanInlineRule() || !port.CanInlineRule() {
		s.rules.DropEgressPlaceholder()
		s.syncEgress()
		s.addStandaloneEgress(peer, port, description)
		return nil
	}
	added, err := s.rules.AddEgress(buildRule(peer, port, description, directionEgress))
	if err != nil {
		return err
	}
	if added {
		s.syncEgress()
	}
	return nil
}

// Rules exposes the rule set for inspection in tests and assertions.
func (s *SecurityGroup) Rules() *RuleSet {
	return s.rules
}

func (s *SecurityGroup) ToIngressRuleFields() RuleFields {
	return RuleFields{PeerGroupID: *s.GroupID()}
}

func (s *SecurityGroup) ToEgressRuleFields() RuleFields {
	return RuleFields{PeerGroupID: *s.GroupID()}
}

func (s *SecurityGroup) CanInlineRule() bool {
	return true
}

func (s *SecurityGroup) UniqueID() string {
	return *s.construct.Node().Id()
}

// syncIngress pushes the current ingress snapshot onto the Cfn
// resource. The rendered list is whatever the rule set holds at synth
// time.
func (s *SecurityGroup) syncIngress() {
	props := make([]interface{}, 0)
	for _, r := range s.rules.Ingress() {
		props = append(props, &awsec2.CfnSecurityGroup_IngressProperty{
			CidrIp:                nonEmpty(r.CidrIP),
			CidrIpv6:              nonEmpty(r.CidrIPv6),
			SourceSecurityGroupId: nonEmpty(r.PeerGroupID),
			IpProtocol:            jsii.String(r.Protocol),
			FromPort:              portNumber(r.Protocol, r.FromPort),
			ToPort:                portNumber(r.Protocol, r.ToPort),
			Description:           nonEmpty(r.Description),
		})
	}
	s.cfn.SetSecurityGroupIngress(&props)
}

func (s *SecurityGroup) syncEgress() {
	props := make([]interface{}, 0)
	for _, r := range s.rules.Egress() {
		props = append(props, &awsec2.CfnSecurityGroup_EgressProperty{
			CidrIp:                     nonEmpty(r.CidrIP),
			CidrIpv6:                   nonEmpty(r.CidrIPv6),
			DestinationSecurityGroupId: nonEmpty(r.PeerGroupID),
			IpProtocol:                 jsii.String(r.Protocol),
			FromPort:                   portNumber(r.Protocol, r.FromPort),
			ToPort:                     portNumber(r.Protocol, r.ToPort),
			Description:                nonEmpty(r.Description),
		})
	}
	s.cfn.SetSecurityGroupEgress(&props)
}

func (s *SecurityGroup) addStandaloneIngress(peer Peer, port PortRange, description string) {
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

func (s *SecurityGroup) addStandaloneEgress(peer Peer, port PortRange, description string) {
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
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return jsii.String(s)
}

// portNumber maps the rule's port fields into the template. The
// all-protocols wildcard carries no port interval.
func portNumber(protocol string, port int64) *float64 {
	if protocol == "-1" {
		return nil
	}
	return jsii.Number(float64(port))
}
