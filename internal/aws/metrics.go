package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsPublisher pushes order board gauges to CloudWatch.
type MetricsPublisher struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetricsPublisher returns a MetricsPublisher writing under namespace.
func NewMetricsPublisher(client CloudWatchAPI, namespace string) *MetricsPublisher {
	return &MetricsPublisher{
		CloudWatch: client,
		Namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// PutOrderCounts publishes one "Orders" datum per status, dimensioned by Status.
func (m *MetricsPublisher) PutOrderCounts(ctx context.Context, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}
	ts := m.nowFunc()
	data := make([]cwtypes.MetricDatum, 0, len(counts))
	for status, n := range counts {
		data = append(data, cwtypes.MetricDatum{
			MetricName: awsString("Orders"),
			Dimensions: []cwtypes.Dimension{
				{Name: awsString("Status"), Value: awsString(status)},
			},
			Timestamp: &ts,
			Unit:      cwtypes.StandardUnitCount,
			Value:     awsFloat(float64(n)),
		})
	}
	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  &m.Namespace,
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

func awsFloat(f float64) *float64 { return &f }
