package pipeline

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatchactions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipeline"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipelineactions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/jsii-runtime-go"
)

// Pipeline related resources
func NewPipelineResources(resources *Resources, lambdaFunction awslambda.Function, codeBuildProject awscodebuild.Project) (awscodepipeline.Pipeline, error) {
	// Create pipeline role
	pipelineRole := createPipelineRole(resources.Stack)

	// Register artifacts; source and build stages share them by name
	artifacts := NewSet()
	sourceArtifact, err := artifacts.Get("SourceArtifact")
	if err != nil {
		return nil, err
	}
	buildArtifact, err := artifacts.Get("BuildArtifact")
	if err != nil {
		return nil, err
	}

	// Create pipeline
	pipeline := createPipeline(resources, pipelineRole, sourceArtifact, buildArtifact, lambdaFunction, codeBuildProject)

	// Create pipeline alarms
	pipelineAlarm := createPipelineAlarm(resources.Stack, pipeline)
	pipelineAlarm.AddAlarmAction(awscloudwatchactions.NewSnsAction(resources.AlarmTopic))

	return pipeline, nil
}

func createPipelineRole(stack awscdk.Stack) awsiam.Role {
	return awsiam.NewRole(stack, jsii.String("CodePipelineRole"), &awsiam.RoleProps{
		AssumedBy: awsiam.NewServicePrincipal(jsii.String("codepipeline.amazonaws.com"), nil),
	})
}

func createPipeline(resources *Resources, pipelineRole awsiam.IRole,
	sourceArtifact *Artifact, buildArtifact *Artifact,
	lambdaFunction awslambda.Function, codeBuildProject awscodebuild.Project) awscodepipeline.Pipeline {

	return awscodepipeline.NewPipeline(resources.Stack, jsii.String("pipelineV1"),
		&awscodepipeline.PipelineProps{
			PipelineName:   jsii.String("CodeBuildPipelineV1"),
			ArtifactBucket: resources.ArtifactBucket,
			Role:           pipelineRole,
			Stages: &[]*awscodepipeline.StageProps{
				createSourceStage(resources, sourceArtifact),
				createBuildStage(buildArtifact, sourceArtifact, codeBuildProject),
				createDeployStage(buildArtifact, lambdaFunction),
			},
			CrossAccountKeys: jsii.Bool(false),
		})
}

func createSourceStage(resources *Resources, sourceArtifact *Artifact) *awscodepipeline.StageProps {
	return &awscodepipeline.StageProps{
		StageName: jsii.String("Source"),
		Actions: &[]awscodepipeline.IAction{
			awscodepipelineactions.NewGitHubSourceAction(&awscodepipelineactions.GitHubSourceActionProps{
				ActionName: jsii.String("pipelineSource"),
				Owner:      jsii.String(resources.Source.Owner),
				Repo:       jsii.String(resources.Source.Repo),
				Branch:     jsii.String(resources.Source.Branch),
				OauthToken: resources.GithubSecret.SecretValue(),
				Output:     sourceArtifact.CodePipeline(),
				Trigger:    awscodepipelineactions.GitHubTrigger_WEBHOOK,
			}),
		},
	}
}

func createBuildStage(buildArtifact *Artifact, sourceArtifact *Artifact,
	codeBuildProject awscodebuild.Project) *awscodepipeline.StageProps {
	return &awscodepipeline.StageProps{
		StageName: jsii.String("Build"),
		Actions: &[]awscodepipeline.IAction{
			awscodepipelineactions.NewCodeBuildAction(&awscodepipelineactions.CodeBuildActionProps{
				ActionName: jsii.String("pipelineBuild"),
				Project:    codeBuildProject,
				Input:      sourceArtifact.CodePipeline(),
				Outputs:    &[]awscodepipeline.Artifact{buildArtifact.CodePipeline()},
			}),
		},
	}
}

func createDeployStage(buildArtifact *Artifact, lambdaFunction awslambda.Function) *awscodepipeline.StageProps {
	// The deploy lambda reads the bundle manifest out of the build
	// artifact; the location string travels through UserParameters.
	manifest := buildArtifact.AtPath("appspec.yaml")

	return &awscodepipeline.StageProps{
		StageName: jsii.String("Deploy"),
		Actions: &[]awscodepipeline.IAction{
			awscodepipelineactions.NewLambdaInvokeAction(&awscodepipelineactions.LambdaInvokeActionProps{
				ActionName: jsii.String("DeployLambda"),
				Inputs:     &[]awscodepipeline.Artifact{buildArtifact.CodePipeline()},
				Lambda:     lambdaFunction,
				UserParameters: &map[string]interface{}{
					"manifestLocation": manifest.Location(),
					"manifestKey":      manifest.ObjectKey(),
				},
			}),
		},
	}
}

func createPipelineAlarm(stack awscdk.Stack, pipeline awscodepipeline.Pipeline) awscloudwatch.Alarm {
	return awscloudwatch.NewAlarm(stack, jsii.String("PipelineFailureAlarm"), &awscloudwatch.AlarmProps{
		AlarmDescription: jsii.String("Alert when CodePipeline project fails"),
		AlarmName:        jsii.String("PipelineFailureAlarm"),
		Metric: awscloudwatch.NewMetric(&awscloudwatch.MetricProps{
			Namespace:  jsii.String("AWS/CodePipeline"),
			MetricName: jsii.String("FailedPipelines"),
			Statistic:  jsii.String("Sum"),
			Period:     awscdk.Duration_Minutes(jsii.Number(5)),
			DimensionsMap: &map[string]*string{
				"PipelineName": pipeline.PipelineName(),
			},
			Unit: awscloudwatch.Unit_COUNT,
		}),
		EvaluationPeriods:  jsii.Number(1),
		Threshold:          jsii.Number(1),
		ComparisonOperator: awscloudwatch.ComparisonOperator_GREATER_THAN_OR_EQUAL_TO_THRESHOLD,
		TreatMissingData:   awscloudwatch.TreatMissingData_NOT_BREACHING,
	})
}
