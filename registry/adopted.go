// Package registry adopts container repositories that were created
// outside CloudFormation into a stack's lifecycle. Adoption goes
// through a custom resource backed by a Go lambda; on stack deletion
// the handler empties and removes the repository.
package registry

import (
	"path/filepath"
	"runtime"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3assets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const handlerID = "AdoptedRepositoryHandler"

// AdoptedRepositoryProps configures repository adoption.
type AdoptedRepositoryProps struct {
	RepositoryName *string
}

// AdoptedRepository is an existing ECR repository placed under this
// stack's control. The physical resource ID is the repository name, so
// changing the name replaces the adoption.
type AdoptedRepository struct {
	construct      constructs.Construct
	resource       awscdk.CustomResource
	repositoryArn  *string
	repositoryName *string
}

// NewAdoptedRepository adopts the named repository. All adoptions in a
// stack share one handler lambda; each adoption scopes the handler's
// ECR permissions to its own repository ARN.
func NewAdoptedRepository(scope constructs.Construct, id string, props *AdoptedRepositoryProps) *AdoptedRepository {
	construct := constructs.NewConstruct(scope, &id)
	stack := awscdk.Stack_Of(construct)

	repositoryArn := stack.FormatArn(&awscdk.ArnComponents{
		Service:      jsii.String("ecr"),
		Resource:     jsii.String("repository"),
		ResourceName: props.RepositoryName,
	})

	handler := adoptionHandler(stack)
	handler.AddToRolePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Effect: awsiam.Effect_ALLOW,
		Actions: jsii.Strings(
			"ecr:DescribeRepositories",
			"ecr:ListImages",
			"ecr:BatchDeleteImage",
			"ecr:DeleteRepository",
		),
		Resources: jsii.Strings(*repositoryArn),
	}))

	resource := awscdk.NewCustomResource(construct, jsii.String("Resource"), &awscdk.CustomResourceProps{
		ResourceType: jsii.String("Custom::AdoptedRepository"),
		ServiceToken: handler.FunctionArn(),
		Properties: &map[string]interface{}{
			"RepositoryName": props.RepositoryName,
		},
	})

	return &AdoptedRepository{
		construct:      construct,
		resource:       resource,
		repositoryArn:  repositoryArn,
		repositoryName: props.RepositoryName,
	}
}

// RepositoryName returns the adopted repository's name.
func (r *AdoptedRepository) RepositoryName() *string {
	return r.repositoryName
}

// RepositoryArn returns the adopted repository's ARN.
func (r *AdoptedRepository) RepositoryArn() *string {
	return r.repositoryArn
}

// adoptionHandler returns the stack's shared adoption lambda, defining
// it on first use.
func adoptionHandler(stack awscdk.Stack) awslambda.Function {
	if existing := stack.Node().TryFindChild(jsii.String(handlerID)); existing != nil {
		return existing.(awslambda.Function)
	}

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("Could not get file name")
	}
	handlerDir := filepath.Join(filepath.Dir(filename), "..", "bin", "adopter")

	return awslambda.NewFunction(stack, jsii.String(handlerID), &awslambda.FunctionProps{
		Runtime:      awslambda.Runtime_PROVIDED_AL2(),
		Handler:      jsii.String("bootstrap"),
		Architecture: awslambda.Architecture_X86_64(),
		MemorySize:   jsii.Number(256),
		Timeout:      awscdk.Duration_Minutes(jsii.Number(5)),
		Code:         awslambda.Code_FromAsset(jsii.String(handlerDir), &awss3assets.AssetOptions{}),
	})
}
