package di

import (
	"context"

	"squad-backend/application/ports"
	"squad-backend/infrastructure/config"
	dynamostore "squad-backend/infrastructure/persistence/dynamodb"
	"squad-backend/infrastructure/persistence/memory"
	"squad-backend/infrastructure/messaging/eventbridge"
	"squad-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideWeekendStore is the backend selector. It tries to stand up the
// durable DynamoDB store, which probes table connectivity during
// construction; on any failure it falls back to the in-memory store and
// records the reason. Selection happens exactly once: a process that came up
// ephemeral stays ephemeral.
func ProvideWeekendStore(
	ctx context.Context,
	cfg *config.Config,
	awsCfg aws.Config,
	awsErr error,
	logger *zap.Logger,
) (ports.WeekendStore, ports.StorageStatus) {
	if awsErr != nil {
		logger.Warn("AWS configuration unavailable, using in-memory store",
			zap.Error(awsErr),
		)
		return memory.NewWeekendStore(), ports.StorageStatus{
			Mode:           ports.StorageModeEphemeral,
			FallbackReason: awsErr.Error(),
		}
	}

	client := awsdynamodb.NewFromConfig(awsCfg)
	store, err := dynamostore.NewWeekendStore(ctx, client, cfg.DynamoDBTable, cfg.StoreTimeout, logger)
	if err != nil {
		logger.Warn("DynamoDB unavailable, falling back to in-memory store",
			zap.String("table", cfg.DynamoDBTable),
			zap.Error(err),
		)
		return memory.NewWeekendStore(), ports.StorageStatus{
			Mode:           ports.StorageModeEphemeral,
			FallbackReason: err.Error(),
		}
	}

	logger.Info("Using durable DynamoDB store", zap.String("table", cfg.DynamoDBTable))
	return store, ports.StorageStatus{Mode: ports.StorageModeDurable}
}

// ProvideEventPublisher creates the EventBridge change-event publisher.
// Events only make sense against the durable store: an ephemeral process
// would announce writes that vanish with it.
func ProvideEventPublisher(
	cfg *config.Config,
	awsCfg aws.Config,
	awsErr error,
	status ports.StorageStatus,
	logger *zap.Logger,
) ports.EventPublisher {
	if !cfg.EnableEvents || awsErr != nil || status.Mode != ports.StorageModeDurable {
		return nil
	}
	client := awseventbridge.NewFromConfig(awsCfg)
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the CloudWatch request metrics publisher when
// enabled.
func ProvideMetrics(
	cfg *config.Config,
	awsCfg aws.Config,
	awsErr error,
	logger *zap.Logger,
) *observability.Metrics {
	if !cfg.EnableMetrics || awsErr != nil {
		return nil
	}
	client := awscloudwatch.NewFromConfig(awsCfg)
	return observability.NewMetrics(client, logger)
}
