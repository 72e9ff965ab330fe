package services

import (
	"context"

	"squad-backend/application/ports"
	"squad-backend/domain/weekend"
	apperrors "squad-backend/pkg/errors"

	"go.uber.org/zap"
)

// WeekendService is the façade the HTTP layer talks to. It delegates to
// whichever store the backend selector activated and adds nothing beyond
// argument checks; store errors pass through unchanged.
type WeekendService struct {
	store  ports.WeekendStore
	events ports.EventPublisher
	logger *zap.Logger
}

// NewWeekendService creates the service. events may be nil to disable change
// notifications.
func NewWeekendService(store ports.WeekendStore, events ports.EventPublisher, logger *zap.Logger) *WeekendService {
	return &WeekendService{
		store:  store,
		events: events,
		logger: logger,
	}
}

// List returns every weekend record ordered ascending by id.
func (s *WeekendService) List(ctx context.Context) ([]weekend.Record, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list weekends", zap.Error(err))
		return nil, err
	}
	return records, nil
}

// Upsert merges the record into the store, creating it when absent. The id is
// required; nothing is written without one.
func (s *WeekendService) Upsert(ctx context.Context, rec weekend.Record) error {
	if err := rec.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	if err := s.store.UpsertMerge(ctx, rec); err != nil {
		s.logger.Error("Failed to upsert weekend",
			zap.String("id", rec.ID),
			zap.Error(err),
		)
		return err
	}

	if s.events != nil {
		// Change events are best-effort; a publish failure never fails
		// the write that already landed.
		if err := s.events.PublishRecordUpserted(ctx, rec); err != nil {
			s.logger.Warn("Failed to publish upsert event",
				zap.String("id", rec.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Upserted weekend", zap.String("id", rec.ID))
	return nil
}

// Initialize seeds the store with the candidate set when it is empty and
// reports whether anything was written.
func (s *WeekendService) Initialize(ctx context.Context, records []weekend.Record) (ports.InitResult, error) {
	result, err := s.store.InitializeIfEmpty(ctx, records)
	if err != nil {
		s.logger.Error("Failed to initialize weekends", zap.Error(err))
		return "", err
	}

	if result == ports.InitResultInitialized && s.events != nil {
		if err := s.events.PublishStoreInitialized(ctx, len(records)); err != nil {
			s.logger.Warn("Failed to publish initialize event", zap.Error(err))
		}
	}

	s.logger.Info("Initialize weekends completed", zap.String("result", string(result)))
	return result, nil
}
