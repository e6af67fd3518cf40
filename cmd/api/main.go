package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/admin"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/aws"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/config"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/handlers"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/idempotency"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/validation"
)

const shutdownTimeout = 10 * time.Second

func setupRouter(cfg handlers.HandlerConfig) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := handlers.RegisterRoutes(r, cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// serve runs a local HTTP server until ctx is cancelled, then drains it.
func serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[api] running local server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Printf("[api] shutting down")
	return srv.Shutdown(shutdownCtx)
}

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
	reconciler := admin.NewReconciler(store, admin.Options{
		Interval:       cfg.PollInterval,
		NotifyDuration: cfg.NotifyDuration,
		Policy:         cfg.Policy(),
	})

	r, err := setupRouter(handlers.HandlerConfig{
		Store:        store,
		Reconciler:   reconciler,
		Gate:         admin.NewGate(cfg.AdminPassword),
		Idempotency:  idempotency.NewStore(backend, cfg.IdempotencyTTL),
		Validate:     validation.New(),
		CheckoutRate: cfg.CheckoutRate,

		SessionIdleTTL: cfg.SessionIdleTTL,
	})
	if err != nil {
		log.Fatalf("failed to set up routes: %v", err)
	}

	// if RUN_LOCAL is "true", run a local HTTP server with the dashboard poller for development.
	if cfg.RunLocal {
		reconciler.Start(ctx)
		defer reconciler.Stop()
		if err := serve(ctx, cfg.HTTPAddr, r); err != nil {
			log.Printf("[api] server error: %v", err)
		}
		return
	}

	// lambda: no poll loop, so load the view now and let the admin reads resync it
	if _, err := reconciler.Refresh(ctx); err != nil {
		log.Printf("[api] initial dashboard load failed: %v", err)
	}
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
