// Package messaging wires SNS topics into stacks, including exporting
// a topic for other stacks and importing one that only exists as an
// ARN.
package messaging

import (
	"fmt"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssns"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// TopicProps configures a topic and its optional cross-stack export.
type TopicProps struct {
	TopicName   *string
	DisplayName *string
	// ExportName, when set, publishes the topic ARN as a named stack
	// export so sibling stacks can import it without a direct
	// reference.
	ExportName *string
}

// Topic is an SNS topic defined in this stack.
type Topic struct {
	topic awssns.Topic
}

// NewTopic defines the topic and, when requested, its export.
func NewTopic(scope constructs.Construct, id string, props *TopicProps) *Topic {
	topic := awssns.NewTopic(scope, jsii.String(id), &awssns.TopicProps{
		TopicName:   props.TopicName,
		DisplayName: props.DisplayName,
	})

	if props.ExportName != nil {
		awscdk.NewCfnOutput(scope, jsii.String(id+"ArnExport"), &awscdk.CfnOutputProps{
			Value:      topic.TopicArn(),
			ExportName: props.ExportName,
		})
	}

	return &Topic{topic: topic}
}

// Topic returns the underlying SNS topic for alarm actions and
// subscriptions.
func (t *Topic) Topic() awssns.ITopic {
	return t.topic
}

// TopicArn returns the deploy-time ARN token.
func (t *Topic) TopicArn() *string {
	return t.topic.TopicArn()
}

// FromTopicArn imports a topic that exists outside this stack. The
// result is identifier-only: it can be subscribed to and targeted by
// alarm actions but carries no mutable configuration.
func FromTopicArn(scope constructs.Construct, id string, topicArn string) (awssns.ITopic, error) {
	if _, err := TopicNameFromArn(topicArn); err != nil {
		return nil, err
	}
	return awssns.Topic_FromTopicArn(scope, jsii.String(id), jsii.String(topicArn)), nil
}

// TopicNameFromArn extracts the topic name from an SNS topic ARN,
// e.g. arn:aws:sns:us-east-1:123456789012:pipeline-alarms.
func TopicNameFromArn(topicArn string) (string, error) {
	parts := strings.Split(topicArn, ":")
	if len(parts) != 6 || parts[0] != "arn" || parts[2] != "sns" || parts[5] == "" {
		return "", fmt.Errorf("not an SNS topic ARN: %q", topicArn)
	}
	return parts[5], nil
}
