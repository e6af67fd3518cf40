package main

import (
	"context"
	"log"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/admin"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/aws"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/config"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
)

// boardOptions wires the reconciler to SQS and CloudWatch when they are configured.
func boardOptions(cfg *config.Config, clients *aws.AWSClients) admin.Options {
	opts := admin.Options{
		Interval:       cfg.PollInterval,
		NotifyDuration: cfg.NotifyDuration,
		Policy:         cfg.Policy(),
	}
	if cfg.OrdersQueueURL != "" {
		opts.Notifier = admin.QueueNotifier{
			Sender:        aws.NewPublisher(clients.SQS, cfg.OrdersQueueURL),
			CorrelationID: "board-worker",
		}
	}
	if cfg.MetricsNamespace != "" {
		opts.StatsSink = admin.MetricsSink{
			Publisher: aws.NewMetricsPublisher(clients.CloudWatch, cfg.MetricsNamespace),
		}
	}
	return opts
}

// runBoard polls the shared store until ctx is cancelled.
func runBoard(ctx context.Context, cfg *config.Config, clients *aws.AWSClients, store *orders.Store) {
	r := admin.NewReconciler(store, boardOptions(cfg, clients))
	log.Printf("[worker] polling %s store every %s", cfg.StoreBackend, cfg.PollInterval)
	r.Run(ctx)
	log.Printf("[worker] board stopped")
}
