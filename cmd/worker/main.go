package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/aws"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/config"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/idempotency"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	backend, closeBackend, err := config.OpenBackend(ctx, cfg, clients)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer closeBackend()
	store := orders.NewStore(backend)

	if cfg.WorkerMode == config.WorkerModeTickets {
		processor := NewProcessor(store, idempotency.NewStore(backend, cfg.IdempotencyTTL), os.Stdout)
		lambda.Start(processor.Handle)
		return
	}

	runBoard(ctx, cfg, clients, store)
}
