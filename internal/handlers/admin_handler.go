package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/admin"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/validation"
)

type adminHandler struct {
	reconciler *admin.Reconciler
	gate       admin.Gate
	validate   *validatorv10.Validate
}

func (h *adminHandler) login(c *gin.Context) {
	var req validation.LoginRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	if err := h.gate.Login(req.Password); errors.Is(err, admin.ErrIncorrectPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect_password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// synced brings the view up to date when no poll loop is keeping it fresh.
func (h *adminHandler) synced(c *gin.Context) bool {
	if err := h.reconciler.Sync(c.Request.Context()); err != nil {
		writeStoreError(c, err)
		return false
	}
	return true
}

func (h *adminHandler) listOrders(c *gin.Context) {
	var status orders.Status
	if raw := c.Query("status"); raw != "" && raw != "all" {
		st, err := orders.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_status"})
			return
		}
		status = st
	}
	var orderType orders.OrderType
	if raw := c.Query("type"); raw != "" && raw != "all" {
		orderType = orders.OrderType(raw)
		if !orderType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_order_type"})
			return
		}
	}
	if !h.synced(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": h.reconciler.Filter(status, orderType)})
}

func (h *adminHandler) stats(c *gin.Context) {
	if !h.synced(c) {
		return
	}
	c.JSON(http.StatusOK, h.reconciler.Stats())
}

func (h *adminHandler) refresh(c *gin.Context) {
	res, err := h.reconciler.Refresh(c.Request.Context())
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *adminHandler) updateStatus(c *gin.Context) {
	var req validation.StatusUpdateRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	id := c.Param("id")
	if err := h.reconciler.UpdateStatus(c.Request.Context(), id, orders.Status(req.Status)); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (h *adminHandler) deleteOrder(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	confirm := admin.ConfirmFunc(func(orders.Order) bool { return confirmed })
	id := c.Param("id")
	if err := h.reconciler.Delete(c.Request.Context(), id, confirm); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *adminHandler) addTestOrder(c *gin.Context) {
	o, err := h.reconciler.AddTestOrder(c.Request.Context())
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *adminHandler) notification(c *gin.Context) {
	if !h.synced(c) {
		return
	}
	c.JSON(http.StatusOK, h.reconciler.Notification())
}
