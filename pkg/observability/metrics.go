package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

const namespace = "SquadBackend"

// Metrics publishes request metrics to CloudWatch. Publishing is best-effort
// and asynchronous so it never sits on the request path.
type Metrics struct {
	client *cloudwatch.Client
	logger *zap.Logger
}

// NewMetrics creates a CloudWatch metrics publisher.
func NewMetrics(client *cloudwatch.Client, logger *zap.Logger) *Metrics {
	return &Metrics{
		client: client,
		logger: logger,
	}
}

// RecordRequest records one handled HTTP request.
func (m *Metrics) RecordRequest(path string, status int, duration time.Duration) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		dims := []types.Dimension{
			{Name: aws.String("Path"), Value: aws.String(path)},
		}

		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace: aws.String(namespace),
			MetricData: []types.MetricDatum{
				{
					MetricName: aws.String("RequestCount"),
					Dimensions: dims,
					Value:      aws.Float64(1),
					Unit:       types.StandardUnitCount,
				},
				{
					MetricName: aws.String("RequestLatency"),
					Dimensions: dims,
					Value:      aws.Float64(float64(duration.Milliseconds())),
					Unit:       types.StandardUnitMilliseconds,
				},
				{
					MetricName: aws.String("RequestErrors"),
					Dimensions: dims,
					Value:      aws.Float64(errorValue(status)),
					Unit:       types.StandardUnitCount,
				},
			},
		})
		if err != nil {
			m.logger.Debug("Failed to publish request metrics", zap.Error(err))
		}
	}()
}

func errorValue(status int) float64 {
	if status >= 500 {
		return 1
	}
	return 0
}
