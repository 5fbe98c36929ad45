package main

import (
	"log"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/obianom/cloudrig/config"
	"github.com/obianom/cloudrig/pipeline"
	"github.com/obianom/cloudrig/registry"
)

type DeploymentStackProps struct {
	awscdk.StackProps
}

func NewDeploymentStack(scope constructs.Construct, id string, props *DeploymentStackProps) awscdk.Stack {
	stack := initializeStack(scope, id, props)

	// Shared collaborators
	alarmTopic := createMonitoringResources(stack)
	resources := &pipeline.Resources{
		Stack:          stack,
		GithubSecret:   createGithubSecret(stack),
		ArtifactBucket: createArtifactBucket(stack),
		AlarmTopic:     alarmTopic.Topic(),
		Source: pipeline.SourceConfig{
			Owner:  config.CheckEnv("GITHUB_OWNER"),
			Repo:   config.CheckEnv("GITHUB_REPO"),
			Branch: config.CheckEnv("GITHUB_BRANCH"),
		},
	}

	// Security group driven by the rules file
	securityGroup := createNetworkResources(stack)

	// Pipeline, build and deploy resources
	lambdaFunction, lambdaAlias := createLambdaResources(resources)
	codeBuildProject := pipeline.NewCodeBuildResources(resources)
	pipelineV1, err := pipeline.NewPipelineResources(resources, lambdaFunction, codeBuildProject)
	if err != nil {
		log.Fatal("pipeline resources: ", err)
	}
	pipeline.NewCodeDeployResources(resources, config.CheckEnv("CODE_DEPLOY_APP_NAME"), lambdaAlias, lambdaFunction)

	// Adopt the pre-existing image repository into this stack
	appImages := registry.NewAdoptedRepository(stack, "AppImages", &registry.AdoptedRepositoryProps{
		RepositoryName: jsii.String(config.CheckEnv("ECR_REPOSITORY")),
	})

	createStackOutputs(stack, pipelineV1, codeBuildProject, lambdaFunction, securityGroup, appImages, alarmTopic)

	return stack
}

func main() {
	defer jsii.Close()

	config.LoadEnv()

	app := awscdk.NewApp(nil)
	NewDeploymentStack(app, "CloudrigStack", &DeploymentStackProps{
		awscdk.StackProps{
			Env: env(),
		},
	})

	app.Synth(nil)
}

func env() *awscdk.Environment {
	return &awscdk.Environment{
		Account: jsii.String(os.Getenv("ACCOUNT_ID")),
		Region:  jsii.String("us-east-1"),
	}
}
