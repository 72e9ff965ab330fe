package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"squad-backend/application/ports"
	"squad-backend/domain/weekend"
	apperrors "squad-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	// All weekend records live in a single partition so a Query returns
	// them in SK order, which for ISO-date ids is chronological order.
	weekendPartition = "WEEKEND"

	pkAttr = "PK"
	skAttr = "SK"
)

// api is the slice of the DynamoDB client this store actually uses.
type api interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// WeekendStore implements ports.WeekendStore on a DynamoDB table. Concurrency
// control is delegated entirely to DynamoDB's per-item atomicity; merges use
// the native UpdateItem partial write rather than read-modify-write.
type WeekendStore struct {
	client    api
	tableName string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewWeekendStore creates the durable store and probes connectivity with a
// DescribeTable call. A probe failure is returned to the caller so the
// backend selector can fall back to the in-memory store.
func NewWeekendStore(ctx context.Context, client api, tableName string, timeout time.Duration, logger *zap.Logger) (*WeekendStore, error) {
	s := &WeekendStore{
		client:    client,
		tableName: tableName,
		timeout:   timeout,
		logger:    logger,
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := client.DescribeTable(probeCtx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	}); err != nil {
		return nil, fmt.Errorf("dynamodb connectivity probe failed for table %s: %w", tableName, err)
	}

	logger.Info("DynamoDB weekend store initialized",
		zap.String("table", tableName),
		zap.Duration("timeout", timeout),
	)
	return s, nil
}

// ListAll queries the weekend partition in ascending SK order, paging through
// the full result set before returning. Documents missing an id in the body
// get it synthesized from the sort key.
func (s *WeekendStore) ListAll(ctx context.Context) ([]weekend.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	keyCond := expression.Key(pkAttr).Equal(expression.Value(weekendPartition))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to build list query").WithCause(err)
	}

	var records []weekend.Record
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ScanIndexForward:          aws.Bool(true),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, s.classify(err, "query weekends")
		}

		for _, item := range out.Items {
			rec, err := itemToRecord(item)
			if err != nil {
				return nil, apperrors.NewDatabaseError("malformed weekend document").WithCause(err)
			}
			records = append(records, rec)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return records, nil
}

// UpsertMerge issues a single UpdateItem that sets only the supplied fields.
// Fields already stored but absent from the incoming record are untouched,
// and DynamoDB creates the item when the key is new, so merge and create are
// one write. Concurrent writers to the same id resolve last-writer-wins per
// field.
func (s *WeekendStore) UpsertMerge(ctx context.Context, rec weekend.Record) error {
	if err := rec.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	update := expression.Set(expression.Name("id"), expression.Value(rec.ID))
	for k, v := range rec.Fields {
		update = update.Set(expression.Name(k), expression.Value(v))
	}
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return apperrors.NewDatabaseError("failed to build merge expression").WithCause(err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       recordKey(rec.ID),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return s.classify(err, "merge weekend "+rec.ID)
	}

	s.logger.Debug("Merged weekend record",
		zap.String("id", rec.ID),
		zap.Int("fields", len(rec.Fields)),
	)
	return nil
}

// InitializeIfEmpty probes the partition with a Limit-1 query and, when no
// document exists, writes every candidate in one TransactWriteItems batch so
// the initial set lands all-or-nothing. The window between probe and commit
// is not protected against a second concurrent initializer; that race is
// accepted and left to the transaction's last writer.
//
// TransactWriteItems caps a batch at 100 items, which bounds the candidate
// set this store can seed.
func (s *WeekendStore) InitializeIfEmpty(ctx context.Context, records []weekend.Record) (ports.InitResult, error) {
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return "", apperrors.NewValidationError(err.Error())
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	keyCond := expression.Key(pkAttr).Equal(expression.Value(weekendPartition))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return "", apperrors.NewDatabaseError("failed to build existence probe").WithCause(err)
	}

	probe, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return "", s.classify(err, "probe weekends")
	}
	if len(probe.Items) > 0 {
		return ports.InitResultAlreadyPopulated, nil
	}

	if len(records) == 0 {
		return ports.InitResultInitialized, nil
	}

	writes := make([]types.TransactWriteItem, 0, len(records))
	for _, rec := range records {
		item, err := recordToItem(rec)
		if err != nil {
			return "", apperrors.NewDatabaseError("failed to marshal weekend "+rec.ID).WithCause(err)
		}
		writes = append(writes, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(s.tableName),
				Item:      item,
			},
		})
	}

	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	}); err != nil {
		return "", s.classify(err, "initialize weekends")
	}

	s.logger.Info("Initialized weekend table", zap.Int("count", len(records)))
	return ports.InitResultInitialized, nil
}

// classify folds a DynamoDB failure into the store error taxonomy: deadline
// and cancellation become unavailable, everything else is a database error.
func (s *WeekendStore) classify(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.Warn("DynamoDB call timed out", zap.String("op", op), zap.Error(err))
		return apperrors.NewUnavailableError("storage backend timed out: " + op).WithCause(err)
	}
	s.logger.Error("DynamoDB call failed", zap.String("op", op), zap.Error(err))
	return apperrors.NewDatabaseError("storage backend failure: " + op).WithCause(err)
}

func recordKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		pkAttr: &types.AttributeValueMemberS{Value: weekendPartition},
		skAttr: &types.AttributeValueMemberS{Value: id},
	}
}

// recordToItem flattens the record body into the item and adds the key
// attributes. The id is duplicated into the body on purpose so readers that
// only see the body still find it.
func recordToItem(rec weekend.Record) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(rec.Body())
	if err != nil {
		return nil, err
	}
	item[pkAttr] = &types.AttributeValueMemberS{Value: weekendPartition}
	item[skAttr] = &types.AttributeValueMemberS{Value: rec.ID}
	return item, nil
}

// itemToRecord strips the key attributes and rebuilds the record, falling
// back to the sort key when the body carries no id.
func itemToRecord(item map[string]types.AttributeValue) (weekend.Record, error) {
	var sortKey string
	if sk, ok := item[skAttr].(*types.AttributeValueMemberS); ok {
		sortKey = sk.Value
	}

	body := make(map[string]interface{}, len(item))
	if err := attributevalue.UnmarshalMap(item, &body); err != nil {
		return weekend.Record{}, err
	}
	delete(body, pkAttr)
	delete(body, skAttr)

	rec := weekend.FromBody(sortKey, body)
	if rec.ID == "" {
		return weekend.Record{}, fmt.Errorf("weekend document has no id and no sort key")
	}
	return rec, nil
}
