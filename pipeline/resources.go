package pipeline

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssecretsmanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssns"
)

// Resources carries the stack-level collaborators the pipeline
// constructs hang off.
type Resources struct {
	Stack          awscdk.Stack
	GithubSecret   awssecretsmanager.ISecret
	ArtifactBucket awss3.IBucket
	AlarmTopic     awssns.ITopic
	Source         SourceConfig
}

// SourceConfig identifies the GitHub source the pipeline tracks.
type SourceConfig struct {
	Owner  string
	Repo   string
	Branch string
}
