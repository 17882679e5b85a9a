// Package app wires configuration, AWS clients and services into the route
// set served by the Lambda functions and the dev server.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"genai-camera/handler"
	"genai-camera/internal/config"
	"genai-camera/internal/integrations/paramstore"
	"genai-camera/internal/objectstore"
	"genai-camera/internal/repository"
	"genai-camera/internal/usecase"
)

type DynamoDBAPI interface {
	GetItem(ctx context.Context, in *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *awsdynamodb.PutItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *awsdynamodb.UpdateItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *awsdynamodb.QueryInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *awsdynamodb.ScanInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.ScanOutput, error)
}

type S3API interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

type SSMAPI interface {
	GetParametersByPath(ctx context.Context, in *awsssm.GetParametersByPathInput, optFns ...func(*awsssm.Options)) (*awsssm.GetParametersByPathOutput, error)
}

// Clients are the AWS APIs the services run against. Images, when set,
// replaces the S3 bucket store (the dev server passes a MinIO store).
type Clients struct {
	DynamoDB DynamoDBAPI
	S3       S3API
	SSM      SSMAPI
	Images   usecase.ImageWriter
}

// NewClients builds SDK clients from an AWS config. AWS_ENDPOINT_URL and the
// per-service variants are honoured by the SDK, which is how the dev server
// reaches DynamoDB Local.
func NewClients(awsCfg aws.Config) Clients {
	return Clients{
		DynamoDB: awsdynamodb.NewFromConfig(awsCfg),
		S3:       awss3.NewFromConfig(awsCfg),
		SSM:      awsssm.NewFromConfig(awsCfg),
	}
}

// Build creates the services enabled by cfg. Prompt seeding runs here when
// PROMPT_SEED_PATH is set; a failed seed is logged and does not stop startup.
func Build(ctx context.Context, cfg *config.Config, c Clients) (handler.Services, error) {
	var svc handler.Services

	if cfg.CaptionEnabled() || cfg.PromptsEnabled() {
		if c.DynamoDB == nil {
			return svc, errors.New("app: dynamodb client is required")
		}
	}

	if cfg.CaptionEnabled() {
		captions, err := repository.NewCaptionClient(c.DynamoDB, cfg.TableName, cfg.CaptionPartitionID)
		if err != nil {
			return svc, fmt.Errorf("app: caption client: %w", err)
		}
		captionSvc, err := usecase.NewCaptionService(captions, cfg.ContentBaseURL)
		if err != nil {
			return svc, err
		}
		svc.Caption = captionSvc
	}

	if cfg.PromptsEnabled() {
		prompts, err := repository.NewPromptClient(c.DynamoDB, cfg.PromptTableName, cfg.UtilTableName)
		if err != nil {
			return svc, fmt.Errorf("app: prompt client: %w", err)
		}
		promptSvc, err := usecase.NewPromptService(prompts, cfg.DefaultPromptID)
		if err != nil {
			return svc, err
		}
		if cfg.PromptSeedPath != "" {
			seedPrompts(ctx, promptSvc, c.SSM, cfg.PromptSeedPath)
		}
		svc.Prompts = promptSvc
	}

	if cfg.CameraEnabled() {
		images := c.Images
		if images == nil {
			if c.S3 == nil {
				return svc, errors.New("app: s3 client is required")
			}
			store, err := objectstore.NewS3Store(c.S3, cfg.BucketName)
			if err != nil {
				return svc, fmt.Errorf("app: s3 store: %w", err)
			}
			images = store
		}
		cameraSvc, err := usecase.NewCameraService(images, cfg.MaxImageBytes)
		if err != nil {
			return svc, err
		}
		svc.Camera = cameraSvc
	}

	return svc, nil
}

func seedPrompts(ctx context.Context, svc *usecase.PromptService, api SSMAPI, seedPath string) {
	logger := log.Ctx(ctx).With().Str("seedPath", seedPath).Logger()
	if api == nil {
		logger.Warn().Msg("Prompt seeding skipped: no SSM client")
		return
	}
	ps, err := paramstore.New(api)
	if err != nil {
		logger.Warn().Err(err).Msg("Prompt seeding skipped")
		return
	}
	templates, err := ps.Templates(ctx, seedPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read prompt templates")
		return
	}
	created, err := svc.Seed(ctx, templates)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to seed prompt templates")
		return
	}
	logger.Info().Int("templates", len(templates)).Strs("created", created).Msg("Prompt templates seeded")
}
