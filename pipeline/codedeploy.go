package pipeline

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodedeploy"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/jsii-runtime-go"
)

// CodeDeploy related resources
func NewCodeDeployResources(resources *Resources, applicationName string, lambdaAlias awslambda.Alias, lambdaFunction awslambda.Function) (awscodedeploy.LambdaApplication, awscodedeploy.LambdaDeploymentGroup) {
	// Create CodeDeploy application
	codeDeployApp := awscodedeploy.NewLambdaApplication(resources.Stack, jsii.String("LambdaDeployV1"), &awscodedeploy.LambdaApplicationProps{
		ApplicationName: jsii.String(applicationName),
	})

	// Create deployment group with alarms
	lambdaErrorsAlarm := createLambdaErrorAlarm(resources.Stack, lambdaFunction)
	deploymentGroup := createDeploymentGroup(resources.Stack, codeDeployApp, lambdaAlias, lambdaErrorsAlarm)

	return codeDeployApp, deploymentGroup
}

func createDeploymentGroup(stack awscdk.Stack, app awscodedeploy.LambdaApplication,
	alias awslambda.Alias, errorAlarm awscloudwatch.IAlarm) awscodedeploy.LambdaDeploymentGroup {
	return awscodedeploy.NewLambdaDeploymentGroup(stack, jsii.String("BGCDeployment"),
		&awscodedeploy.LambdaDeploymentGroupProps{
			Application:      app,
			Alias:            alias,
			DeploymentConfig: awscodedeploy.LambdaDeploymentConfig_CANARY_10PERCENT_5MINUTES(),
			AutoRollback: &awscodedeploy.AutoRollbackConfig{
				FailedDeployment:  jsii.Bool(true),
				StoppedDeployment: jsii.Bool(true),
				DeploymentInAlarm: jsii.Bool(true),
			},
			Alarms: &[]awscloudwatch.IAlarm{errorAlarm},
		})
}

func createLambdaErrorAlarm(stack awscdk.Stack, lambdaFunction awslambda.Function) awscloudwatch.Alarm {
	return awscloudwatch.NewAlarm(stack, jsii.String("LambdaErrorsAlarm"), &awscloudwatch.AlarmProps{
		AlarmDescription: jsii.String("Alarm for Lambda errors"),
		AlarmName:        jsii.String("LambdaErrorsAlarm"),
		Metric: awscloudwatch.NewMetric(&awscloudwatch.MetricProps{
			Namespace:  jsii.String("AWS/Lambda"),
			MetricName: jsii.String("Errors"),
			Statistic:  jsii.String("Sum"),
			Period:     awscdk.Duration_Minutes(jsii.Number(1)),
			DimensionsMap: &map[string]*string{
				"FunctionName": lambdaFunction.FunctionName(),
			},
		}),
		EvaluationPeriods:  jsii.Number(1),
		Threshold:          jsii.Number(1),
		ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_OR_EQUAL_TO_THRESHOLD,
		TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
	})
}
