package admin

import (
	"context"
	"errors"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/aws"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
)

// OrderSender is the part of aws.Publisher the SQS notifier needs.
type OrderSender interface {
	SendNewOrder(ctx context.Context, msg aws.NewOrderMessage) error
}

// CountPublisher is the part of aws.MetricsPublisher the CloudWatch sink needs.
type CountPublisher interface {
	PutOrderCounts(ctx context.Context, counts map[string]int) error
}

// QueueNotifier sends one queue message per new order.
type QueueNotifier struct {
	Sender        OrderSender
	CorrelationID string
}

// NotifyNewOrders sends every order and returns the joined send errors.
func (n QueueNotifier) NotifyNewOrders(ctx context.Context, newOrders []orders.Order) error {
	var errs []error
	for _, o := range newOrders {
		err := n.Sender.SendNewOrder(ctx, aws.NewOrderMessage{
			OrderID:       o.ID,
			OrderNumber:   o.OrderNumber,
			Status:        string(o.Status),
			CorrelationID: n.CorrelationID,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MetricsSink publishes Stats as per-status gauges.
type MetricsSink struct {
	Publisher CountPublisher
}

func (m MetricsSink) PublishStats(ctx context.Context, stats Stats) error {
	return m.Publisher.PutOrderCounts(ctx, stats.Counts())
}
