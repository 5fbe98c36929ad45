package registry_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"

	"github.com/obianom/cloudrig/registry"
)

func TestAdoptedRepositoryCustomResource(t *testing.T) {
	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("TestStack"), nil)

	registry.NewAdoptedRepository(stack, "AppImages", &registry.AdoptedRepositoryProps{
		RepositoryName: jsii.String("app-images"),
	})

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("Custom::AdoptedRepository"), map[string]interface{}{
		"RepositoryName": "app-images",
	})
	template.ResourceCountIs(jsii.String("AWS::Lambda::Function"), jsii.Number(1))
}

func TestAdoptedRepositoriesShareOneHandler(t *testing.T) {
	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("TestStack"), nil)

	registry.NewAdoptedRepository(stack, "AppImages", &registry.AdoptedRepositoryProps{
		RepositoryName: jsii.String("app-images"),
	})
	registry.NewAdoptedRepository(stack, "JobImages", &registry.AdoptedRepositoryProps{
		RepositoryName: jsii.String("job-images"),
	})

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("Custom::AdoptedRepository"), jsii.Number(2))
	template.ResourceCountIs(jsii.String("AWS::Lambda::Function"), jsii.Number(1))
}
