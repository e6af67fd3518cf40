package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/admin"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/idempotency"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/session"
)

// HandlerConfig groups dependencies for the board API.
type HandlerConfig struct {
	Store        *orders.Store
	Reconciler   *admin.Reconciler
	Gate         admin.Gate
	Idempotency  *idempotency.Store
	Validate     *validatorv10.Validate
	CheckoutRate string // limiter format, e.g. "10-M"

	SessionIdleTTL time.Duration // 0 takes session.DefaultIdleTTL
}

// RegisterRoutes registers the customer and admin routes.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) error {
	checkoutLimit, err := RateLimit(cfg.CheckoutRate)
	if err != nil {
		return err
	}

	r.GET("/catalog", listCatalog)

	sh := &sessionHandler{
		sessions:    session.NewRegistry(cfg.Store, cfg.Validate, cfg.SessionIdleTTL),
		idempotency: cfg.Idempotency,
		validate:    cfg.Validate,
	}
	r.POST("/sessions", sh.create)
	s := r.Group("/sessions/:id", sh.load)
	{
		s.GET("", sh.get)
		s.POST("/cart/items", sh.addItem)
		s.PUT("/cart/items/:productId", sh.setQuantity)
		s.DELETE("/cart/items/:productId", sh.removeItem)
		s.PUT("/customer", sh.setCustomer)
		s.POST("/step", sh.step)
		s.POST("/checkout", checkoutLimit, sh.checkout)
		s.POST("/new-order", sh.newOrder)
	}

	ah := &adminHandler{reconciler: cfg.Reconciler, gate: cfg.Gate, validate: cfg.Validate}
	r.POST("/admin/login", ah.login)
	a := r.Group("/admin", RequireAdmin(cfg.Gate))
	{
		a.GET("/orders", ah.listOrders)
		a.GET("/stats", ah.stats)
		a.POST("/refresh", ah.refresh)
		a.PATCH("/orders/:id/status", ah.updateStatus)
		a.DELETE("/orders/:id", ah.deleteOrder)
		a.POST("/orders/test", ah.addTestOrder)
		a.GET("/notification", ah.notification)
	}
	return nil
}

// writeStoreError maps store and reconciler errors to status codes.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
	case errors.Is(err, orders.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition", "detail": err.Error()})
	case errors.Is(err, orders.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "concurrent_update", "detail": err.Error()})
	case errors.Is(err, admin.ErrNotConfirmed):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "confirmation_required"})
	case errors.Is(err, orders.ErrCorrupt):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_corrupt", "detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_failed", "detail": err.Error()})
	}
}
