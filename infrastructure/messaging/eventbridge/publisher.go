package eventbridge

import (
	"context"
	"encoding/json"
	"time"

	"squad-backend/domain/weekend"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const source = "squad-backend"

const (
	detailTypeRecordUpserted   = "weekend.record.upserted"
	detailTypeStoreInitialized = "weekend.store.initialized"
)

// Publisher emits weekend change events to an EventBridge bus. It implements
// ports.EventPublisher.
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates a new EventBridge publisher.
func NewPublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

type recordUpsertedDetail struct {
	EventID string                 `json:"event_id"`
	ID      string                 `json:"id"`
	Fields  map[string]interface{} `json:"fields"`
}

type storeInitializedDetail struct {
	EventID string `json:"event_id"`
	Count   int    `json:"count"`
}

// PublishRecordUpserted emits an event for a merged weekend record.
func (p *Publisher) PublishRecordUpserted(ctx context.Context, rec weekend.Record) error {
	return p.put(ctx, detailTypeRecordUpserted, recordUpsertedDetail{
		EventID: uuid.New().String(),
		ID:      rec.ID,
		Fields:  rec.Fields,
	})
}

// PublishStoreInitialized emits an event after a successful bulk seed.
func (p *Publisher) PublishStoreInitialized(ctx context.Context, count int) error {
	return p.put(ctx, detailTypeStoreInitialized, storeInitializedDetail{
		EventID: uuid.New().String(),
		Count:   count,
	})
}

func (p *Publisher) put(ctx context.Context, detailType string, detail interface{}) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return err
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.eventBusName),
				Source:       aws.String(source),
				DetailType:   aws.String(detailType),
				Detail:       aws.String(string(data)),
				Time:         aws.Time(time.Now()),
			},
		},
	})
	if err != nil {
		return err
	}
	if out.FailedEntryCount > 0 {
		p.logger.Warn("EventBridge rejected entries",
			zap.Int32("failed", out.FailedEntryCount),
			zap.String("detailType", detailType),
		)
	}
	return nil
}
