package di

import (
	"context"

	"squad-backend/application/ports"
	"squad-backend/application/services"
	"squad-backend/infrastructure/config"
	"squad-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies. It is built once at startup;
// in particular StorageStatus is fixed here and never mutated afterward, so
// the health endpoint reads selector state without any store call.
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	Store          ports.WeekendStore
	StorageStatus  ports.StorageStatus
	WeekendService *services.WeekendService
	Metrics        *observability.Metrics
}

// InitializeContainer creates a fully wired container. Construction order:
// logger, AWS clients, store selection (durable with ephemeral fallback),
// optional event publisher and metrics, then the service façade on top.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, awsErr := ProvideAWSConfig(ctx, cfg)

	store, status := ProvideWeekendStore(ctx, cfg, awsCfg, awsErr, logger)
	events := ProvideEventPublisher(cfg, awsCfg, awsErr, status, logger)
	metrics := ProvideMetrics(cfg, awsCfg, awsErr, logger)

	svc := services.NewWeekendService(store, events, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Store:          store,
		StorageStatus:  status,
		WeekendService: svc,
		Metrics:        metrics,
	}, nil
}
