package main

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
)

func TestInitializeStackAppliesSynthesizer(t *testing.T) {
	app := awscdk.NewApp(nil)
	stack := initializeStack(app, "TestStack", nil)

	// The qualifier surfaces in the bootstrap version parameter.
	template := assertions.Template_FromStack(stack, nil)
	template.HasParameter(jsii.String("BootstrapVersion"), map[string]interface{}{
		"Default": "/cdk-bootstrap/cloudrig-artifact-bucket-v1/version",
	})
}
