package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/obianom/cloudrig/messaging"
)

// Monitoring resources
func createMonitoringResources(stack awscdk.Stack) *messaging.Topic {
	return messaging.NewTopic(stack, "PipelineAlarmTopic", &messaging.TopicProps{
		TopicName:   jsii.String("pipeline-alarms"),
		DisplayName: jsii.String("Pipeline Alarms"),
		ExportName:  jsii.String("pipeline-alarm-topic"),
	})
}
