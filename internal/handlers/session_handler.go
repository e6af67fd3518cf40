package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/idempotency"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/session"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/validation"
)

const sessionKey = "session"

type sessionHandler struct {
	sessions    *session.Registry
	idempotency *idempotency.Store
	validate    *validatorv10.Validate
}

func (h *sessionHandler) create(c *gin.Context) {
	s := h.sessions.Create()
	c.Header("Location", fmt.Sprintf("/sessions/%s", s.ID))
	c.JSON(http.StatusCreated, s.View())
}

// load resolves :id and stores the session on the context.
func (h *sessionHandler) load(c *gin.Context) {
	s := h.sessions.Get(c.Param("id"))
	if s == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "session_not_found"})
		return
	}
	c.Set(sessionKey, s)
	c.Next()
}

func current(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func (h *sessionHandler) get(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).View())
}

func (h *sessionHandler) addItem(c *gin.Context) {
	var req validation.CartLineRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	n := req.Quantity
	if n == 0 {
		n = 1
	}
	s := current(c)
	if err := s.AddProductN(req.ProductID, n); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown_product", "product_id": req.ProductID})
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_product_id"})
		return 0, false
	}
	return id, true
}

func (h *sessionHandler) setQuantity(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var req validation.QuantityRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	s := current(c)
	s.SetQuantity(id, req.Quantity)
	c.JSON(http.StatusOK, s.View())
}

func (h *sessionHandler) removeItem(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	s := current(c)
	s.Remove(id)
	c.JSON(http.StatusOK, s.View())
}

func (h *sessionHandler) setCustomer(c *gin.Context) {
	var req validation.CustomerRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	s := current(c)
	if req.OrderType != "" {
		// already checked by the oneof tag
		_ = s.SetOrderType(orders.OrderType(req.OrderType))
	}
	s.SetCustomer(req.Name, req.TableNumber, req.Phone)
	if req.PaymentMethod != "" {
		s.SetPaymentMethod(orders.PaymentMethod(req.PaymentMethod))
	}
	c.JSON(http.StatusOK, s.View())
}

func (h *sessionHandler) step(c *gin.Context) {
	var req validation.StepRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	s := current(c)
	var err error
	switch session.Step(req.To) {
	case session.StepCatalog:
		s.ContinueShopping()
	case session.StepCart:
		if s.View().Step == session.StepCheckout {
			s.BackToCart()
		} else {
			err = s.ViewCart()
		}
	case session.StepCheckout:
		err = s.ProceedToCheckout()
	}
	if errors.Is(err, session.ErrEmptyCart) {
		c.JSON(http.StatusConflict, gin.H{"error": "cart_empty"})
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (h *sessionHandler) newOrder(c *gin.Context) {
	s := current(c)
	s.NewOrder()
	c.JSON(http.StatusOK, s.View())
}

// checkout places the order. With an Idempotency-Key header a retried request
// replays the first response instead of appending a second order.
func (h *sessionHandler) checkout(c *gin.Context) {
	ctx := c.Request.Context()
	s := current(c)

	idempKey := c.GetHeader("Idempotency-Key")
	if idempKey != "" {
		created, err := h.idempotency.CreateIfNotExists(ctx, idempKey)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
			return
		}
		if !created {
			h.replay(c, idempKey)
			return
		}
	}

	order, err := s.Checkout(ctx)
	if err != nil {
		if idempKey != "" {
			if merr := h.idempotency.MarkFailed(ctx, idempKey, err.Error()); merr != nil {
				log.Printf("[api] mark idempotency %s failed: %v", idempKey, merr)
			}
		}
		var ve *validation.Error
		if errors.As(err, &ve) {
			validation.WriteError(c, err)
			return
		}
		writeStoreError(c, err)
		return
	}

	resp := gin.H{"order": order, "order_number": order.OrderNumber}
	if idempKey != "" {
		if err := h.idempotency.MarkDone(ctx, idempKey, order.ID, cachedBody(idempKey, resp), http.StatusCreated); err != nil {
			log.Printf("[api] mark idempotency %s done: %v", idempKey, err)
		}
	}
	c.JSON(http.StatusCreated, resp)
}

// cachedBody renders resp for replay. On failure it returns "" and replays
// fall back to the bare order id; the order itself is already stored.
func cachedBody(key string, resp interface{}) string {
	body, err := json.Marshal(resp)
	if err != nil {
		log.Printf("[api] marshal checkout response for %s: %v", key, err)
		return ""
	}
	return string(body)
}

func (h *sessionHandler) replay(c *gin.Context, key string) {
	rec, err := h.idempotency.Get(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
		return
	}
	if rec == nil {
		// expired between the create attempt and now
		c.JSON(http.StatusConflict, gin.H{"error": "idempotency_key_expired"})
		return
	}
	switch rec.Status {
	case idempotency.StatusDone:
		if rec.ResponseBody != "" {
			c.Data(rec.ResponseStatus, "application/json", []byte(rec.ResponseBody))
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": rec.OrderID})
	case idempotency.StatusInProgress:
		c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress"})
	case idempotency.StatusFailed:
		c.JSON(http.StatusConflict, gin.H{"error": "previous_attempt_failed", "detail": rec.Note})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status"})
	}
}
