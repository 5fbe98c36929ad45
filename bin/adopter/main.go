package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Global AWS clients
var ecrClient *ecr.Client

// This init() function runs once when the Lambda starts
func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(fmt.Sprintf("failed to load AWS config: %v", err))
	}

	ecrClient = ecr.NewFromConfig(cfg)
}

func repositoryName(event cfn.Event) (string, error) {
	name, ok := event.ResourceProperties["RepositoryName"].(string)
	if !ok || name == "" {
		return "", fmt.Errorf("RepositoryName property is required")
	}
	return name, nil
}

// handler implements the custom resource lifecycle. The physical
// resource ID is the repository name, so a name change on Update makes
// CloudFormation create the new adoption first and delete the old one
// afterwards.
func handler(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	name, err := repositoryName(event)
	if err != nil {
		return event.PhysicalResourceID, nil, err
	}

	log.Info().
		Str("request_type", string(event.RequestType)).
		Str("repository", name).
		Msg("handling adoption request")

	switch event.RequestType {
	case cfn.RequestCreate, cfn.RequestUpdate:
		if err := verifyRepository(ctx, name); err != nil {
			return name, nil, err
		}
		return name, map[string]interface{}{"RepositoryName": name}, nil

	case cfn.RequestDelete:
		// Delete events carry the physical ID of the adoption being
		// torn down; during a replace that is the old repository.
		if event.PhysicalResourceID != "" {
			name = event.PhysicalResourceID
		}
		if err := releaseRepository(ctx, name); err != nil {
			return name, nil, err
		}
		return name, nil, nil

	default:
		return name, nil, fmt.Errorf("unexpected request type %q", event.RequestType)
	}
}

// verifyRepository confirms the repository exists before the stack
// claims it.
func verifyRepository(ctx context.Context, name string) error {
	_, err := ecrClient.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
		RepositoryNames: []string{name},
	})
	if err != nil {
		return fmt.Errorf("repository %s cannot be adopted: %w", name, err)
	}
	return nil
}

// releaseRepository empties and deletes the repository. A repository
// that is already gone counts as released.
func releaseRepository(ctx context.Context, name string) error {
	if err := deleteImages(ctx, name); err != nil {
		return err
	}

	_, err := ecrClient.DeleteRepository(ctx, &ecr.DeleteRepositoryInput{
		RepositoryName: aws.String(name),
	})
	if err != nil {
		var notFound *types.RepositoryNotFoundException
		if errors.As(err, &notFound) {
			log.Warn().Str("repository", name).Msg("repository already deleted")
			return nil
		}
		return fmt.Errorf("delete repository %s: %w", name, err)
	}

	log.Info().Str("repository", name).Msg("repository released")
	return nil
}

func deleteImages(ctx context.Context, name string) error {
	paginator := ecr.NewListImagesPaginator(ecrClient, &ecr.ListImagesInput{
		RepositoryName: aws.String(name),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			var notFound *types.RepositoryNotFoundException
			if errors.As(err, &notFound) {
				return nil
			}
			return fmt.Errorf("list images in %s: %w", name, err)
		}
		if len(page.ImageIds) == 0 {
			continue
		}

		_, err = ecrClient.BatchDeleteImage(ctx, &ecr.BatchDeleteImageInput{
			RepositoryName: aws.String(name),
			ImageIds:       page.ImageIds,
		})
		if err != nil {
			return fmt.Errorf("delete images in %s: %w", name, err)
		}
		log.Info().Str("repository", name).Int("count", len(page.ImageIds)).Msg("deleted images")
	}

	return nil
}

func main() {
	lambda.Start(cfn.LambdaWrap(handler))
}
