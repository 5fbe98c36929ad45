package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/codedeploy"
	"github.com/aws/aws-sdk-go-v2/service/codedeploy/types"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"
	cptypes "github.com/aws/aws-sdk-go-v2/service/codepipeline/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Global AWS clients
var (
	codeDeployClient     *codedeploy.Client
	codePipelineClient   *codepipeline.Client
	secretsManagerClient *secretsmanager.Client
	s3Client             *s3.Client
)

// This init() function runs once when the Lambda starts
func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(fmt.Sprintf("failed to load AWS config: %v", err))
	}

	codeDeployClient = codedeploy.NewFromConfig(cfg)
	codePipelineClient = codepipeline.NewFromConfig(cfg)
	secretsManagerClient = secretsmanager.NewFromConfig(cfg)
	s3Client = s3.NewFromConfig(cfg)
}

// CodePipelineEvent is the structure of the event received from CodePipeline
type CodePipelineEvent struct {
	CodePipelineJob struct {
		ID   string  `json:"id"`
		Data JobData `json:"data"`
	} `json:"CodePipeline.job"`
}

type JobData struct {
	InputArtifacts  []Artifact `json:"inputArtifacts"`
	OutputArtifacts []Artifact `json:"outputArtifacts"`
}

type Artifact struct {
	Location Location `json:"location"`
	Name     string   `json:"name"`
	Revision string   `json:"revision"`
}

type Location struct {
	S3Location S3Location `json:"s3Location"`
	Type       string     `json:"type"`
}

type S3Location struct {
	BucketName string `json:"bucketName"`
	ObjectKey  string `json:"objectKey"`
}

// Maximum time to wait for a deployment to reach a terminal state
const maxWaitTimeSeconds = 300 // 5 minutes

// getGitHubToken retrieves the token from AWS Secrets Manager
func getGitHubToken(ctx context.Context) (string, error) {
	secretARN := os.Getenv("GITHUB_TOKEN")
	if secretARN == "" {
		return "", fmt.Errorf("GITHUB_TOKEN environment variable not set")
	}

	result, err := secretsManagerClient.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretARN),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret value: %w", err)
	}

	return *result.SecretString, nil
}

// verifyArtifact confirms the build artifact actually exists in the
// artifact bucket before a deployment references it.
func verifyArtifact(ctx context.Context, bucket, key string) error {
	_, err := s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("artifact s3://%s/%s not readable: %w", bucket, key, err)
	}
	return nil
}

// monitorDeployment waits for the deployment to reach a terminal state
// (failed, succeeded or stopped)
func monitorDeployment(ctx context.Context, deploymentID string) error {
	log.Info().Str("deployment_id", deploymentID).Msg("monitoring deployment status")
	startTime := time.Now()
	endTime := startTime.Add(time.Second * maxWaitTimeSeconds)

	for time.Now().Before(endTime) {
		result, err := codeDeployClient.GetDeployment(ctx, &codedeploy.GetDeploymentInput{
			DeploymentId: aws.String(deploymentID),
		})
		if err != nil {
			return fmt.Errorf("failed to get deployment status: %w", err)
		}

		status := result.DeploymentInfo.Status
		log.Info().Str("deployment_id", deploymentID).Str("status", string(status)).Msg("deployment status")

		switch status {
		case types.DeploymentStatusSucceeded:
			return nil
		case types.DeploymentStatusFailed, types.DeploymentStatusStopped:
			return fmt.Errorf("deployment %s ended with status: %s", deploymentID, status)
		}

		time.Sleep(15 * time.Second)
	}

	return fmt.Errorf("timed out waiting for deployment %s to complete", deploymentID)
}

func handler(ctx context.Context, event CodePipelineEvent) error {
	jobID := event.CodePipelineJob.ID
	if jobID == "" {
		return fmt.Errorf("job ID not found in event")
	}

	applicationName := os.Getenv("APPLICATION_NAME")
	deploymentGroupName := os.Getenv("DEPLOYMENT_GROUP_NAME")
	if applicationName == "" || deploymentGroupName == "" {
		log.Error().
			Str("application_name", applicationName).
			Str("deployment_group_name", deploymentGroupName).
			Msg("missing required environment variables")
		reportFailure(ctx, jobID, "Missing required environment variables")
		return nil
	}

	// Extract the S3 artifact location
	var s3BucketName, s3ObjectKey string
	if len(event.CodePipelineJob.Data.InputArtifacts) > 0 {
		artifact := event.CodePipelineJob.Data.InputArtifacts[0]
		s3BucketName = artifact.Location.S3Location.BucketName
		s3ObjectKey = artifact.Location.S3Location.ObjectKey
		log.Info().Str("bucket", s3BucketName).Str("key", s3ObjectKey).Msg("using artifact from S3")

		if err := verifyArtifact(ctx, s3BucketName, s3ObjectKey); err != nil {
			log.Error().Err(err).Msg("artifact verification failed")
			reportFailure(ctx, jobID, fmt.Sprintf("Artifact verification failed: %v", err))
			return nil
		}
	} else {
		log.Warn().Msg("no input artifacts found in the CodePipeline event")
	}

	// The token is not needed for the deployment itself; fetching it
	// early surfaces permission problems in this run's logs.
	if _, err := getGitHubToken(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to get GitHub token")
	}

	deployInput := &codedeploy.CreateDeploymentInput{
		ApplicationName:     aws.String(applicationName),
		DeploymentGroupName: aws.String(deploymentGroupName),
		Description:         aws.String(fmt.Sprintf("Deployment triggered by CodePipeline job %s", jobID)),
	}

	if s3BucketName != "" && s3ObjectKey != "" {
		deployInput.Revision = &types.RevisionLocation{
			RevisionType: types.RevisionLocationTypeS3,
			S3Location: &types.S3Location{
				Bucket:     aws.String(s3BucketName),
				Key:        aws.String(s3ObjectKey),
				BundleType: types.BundleTypeZip,
			},
		}
	} else {
		log.Warn().Msg("no S3 location available for deployment, continuing without revision specification")
	}

	resp, err := codeDeployClient.CreateDeployment(ctx, deployInput)
	if err != nil {
		log.Error().Err(err).Msg("failed to create deployment")
		reportFailure(ctx, jobID, fmt.Sprintf("Failed to create deployment: %v", err))
		return nil
	}

	deploymentID := *resp.DeploymentId
	log.Info().Str("deployment_id", deploymentID).Msg("created deployment")

	if err := monitorDeployment(ctx, deploymentID); err != nil {
		log.Error().Err(err).Msg("deployment monitoring failed")
		reportFailure(ctx, jobID, fmt.Sprintf("Deployment monitoring failed: %v", err))
		return nil
	}

	return reportSuccess(ctx, jobID)
}

// reportSuccess notifies CodePipeline that the job finished
func reportSuccess(ctx context.Context, jobID string) error {
	_, err := codePipelineClient.PutJobSuccessResult(ctx, &codepipeline.PutJobSuccessResultInput{
		JobId: aws.String(jobID),
	})
	if err != nil {
		return fmt.Errorf("failed to report success to CodePipeline: %w", err)
	}
	log.Info().Str("job_id", jobID).Msg("reported job completion to CodePipeline")
	return nil
}

// reportFailure notifies CodePipeline that the job failed
func reportFailure(ctx context.Context, jobID string, message string) {
	log.Error().Str("job_id", jobID).Str("reason", message).Msg("reporting failure")
	_, err := codePipelineClient.PutJobFailureResult(ctx, &codepipeline.PutJobFailureResultInput{
		JobId: aws.String(jobID),
		FailureDetails: &cptypes.FailureDetails{
			Message: aws.String(message),
			Type:    cptypes.FailureTypeJobFailed,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to report failure to CodePipeline")
	}
}

func main() {
	lambda.Start(handler)
}
