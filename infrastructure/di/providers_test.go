package di

import (
	"context"
	"fmt"
	"testing"
	"time"

	"squad-backend/application/ports"
	"squad-backend/infrastructure/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerAddress: ":8080",
		Environment:   "development",
		AWSRegion:     "us-west-2",
		DynamoDBTable: "squad-availability",
		StoreTimeout:  100 * time.Millisecond,
		EnableEvents:  true,
	}
}

func TestProvideWeekendStore_FallsBackWhenAWSConfigFails(t *testing.T) {
	store, status := ProvideWeekendStore(
		context.Background(),
		testConfig(),
		aws.Config{},
		fmt.Errorf("no credentials"),
		zap.NewNop(),
	)

	require.NotNil(t, store)
	assert.Equal(t, ports.StorageModeEphemeral, status.Mode)
	assert.Contains(t, status.FallbackReason, "no credentials")

	// The fallback store is fully usable.
	records, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestProvideEventPublisher_DisabledWhenEphemeral(t *testing.T) {
	status := ports.StorageStatus{Mode: ports.StorageModeEphemeral}

	publisher := ProvideEventPublisher(testConfig(), aws.Config{}, nil, status, zap.NewNop())
	assert.Nil(t, publisher, "events only fire against the durable store")
}

func TestProvideMetrics_DisabledByFlag(t *testing.T) {
	cfg := testConfig()
	cfg.EnableMetrics = false

	assert.Nil(t, ProvideMetrics(cfg, aws.Config{}, nil, zap.NewNop()))
}
