package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipeline"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/jsii-runtime-go"

	"github.com/obianom/cloudrig/messaging"
	"github.com/obianom/cloudrig/network"
	"github.com/obianom/cloudrig/registry"
)

func createStackOutputs(stack awscdk.Stack, pipeline awscodepipeline.Pipeline,
	codeBuildProject awscodebuild.Project, lambdaFunction awslambda.Function,
	securityGroup *network.SecurityGroup, appImages *registry.AdoptedRepository,
	alarmTopic *messaging.Topic) {
	awscdk.NewCfnOutput(stack, jsii.String("codePipelineNameOutput"), &awscdk.CfnOutputProps{
		Value: pipeline.PipelineName(),
	})

	awscdk.NewCfnOutput(stack, jsii.String("CodeBuildProjectOutput"), &awscdk.CfnOutputProps{
		Value: codeBuildProject.ProjectName(),
	})

	awscdk.NewCfnOutput(stack, jsii.String("LambdaFunctionNameOutput"), &awscdk.CfnOutputProps{
		Value: lambdaFunction.FunctionName(),
	})

	awscdk.NewCfnOutput(stack, jsii.String("AppSecurityGroupOutput"), &awscdk.CfnOutputProps{
		Value: securityGroup.GroupID(),
	})

	awscdk.NewCfnOutput(stack, jsii.String("AppImagesRepositoryOutput"), &awscdk.CfnOutputProps{
		Value: appImages.RepositoryName(),
	})

	awscdk.NewCfnOutput(stack, jsii.String("AlarmTopicArnOutput"), &awscdk.CfnOutputProps{
		Value: alarmTopic.TopicArn(),
	})
}
