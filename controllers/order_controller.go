package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bilal-alaabadi/arkan-b/models"
	"github.com/bilal-alaabadi/arkan-b/repository"
	"github.com/bilal-alaabadi/arkan-b/services"
)

type OrderController struct {
	Checkout     *services.CheckoutService
	Confirmation *services.ConfirmationService
	Orders       repository.OrderRepository
	Logger       *zap.Logger
}

// CreateCheckoutSession prices the cart and returns a gateway payment link.
func (oc *OrderController) CreateCheckoutSession(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, svcErr := oc.Checkout.CreateCheckoutSession(c.Request.Context(), &req)
	if svcErr != nil {
		oc.respondServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ConfirmPayment reconciles gateway payment state for an order reference.
func (oc *OrderController) ConfirmPayment(c *gin.Context) {
	var req struct {
		OrderReference string `json:"order_reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, svcErr := oc.Confirmation.ConfirmPayment(c.Request.Context(), req.OrderReference)
	if svcErr != nil {
		oc.respondServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetOrdersByEmail returns all orders placed with the given email.
func (oc *OrderController) GetOrdersByEmail(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	orders, err := oc.Orders.FindByEmail(c.Request.Context(), email)
	if err != nil {
		oc.Logger.Error("Failed to fetch orders by email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders by email"})
		return
	}
	if len(orders) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No orders found for this email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderByID returns a single order.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.Orders.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		oc.Logger.Error("Failed to fetch order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetAllOrders returns all paid orders, newest first.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.FindAllByStatus(c.Request.Context(), models.StatusPaid)
	if err != nil {
		oc.Logger.Error("Failed to fetch orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	if len(orders) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No orders found", "orders": []models.Order{}})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus moves an order to a new lifecycle state. Illegal
// transitions are rejected.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	if !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
		return
	}

	id := c.Param("id")
	order, err := oc.Orders.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		oc.Logger.Error("Failed to fetch order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	if !order.Status.CanTransitionTo(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid status transition from " + string(order.Status) + " to " + string(req.Status),
		})
		return
	}

	// The write is conditional on the status just observed, so a concurrent
	// change cannot bypass the transition check.
	updated, err := oc.Orders.UpdateStatus(c.Request.Context(), id, order.Status, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Order status changed, retry the update"})
		case errors.Is(err, repository.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			oc.Logger.Error("Failed to update order status", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": updated})
}

// DeleteOrder removes an order.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	order, err := oc.Orders.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		oc.Logger.Error("Failed to delete order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully", "order": order})
}

// respondServiceError translates a ServiceError into a JSON response,
// attaching upstream details when present.
func (oc *OrderController) respondServiceError(c *gin.Context, svcErr *services.ServiceError) {
	if svcErr.StatusCode >= 500 {
		oc.Logger.Error(svcErr.Message, zap.String("details", svcErr.Details))
	}
	body := gin.H{"error": svcErr.Message}
	if svcErr.Details != "" {
		body["details"] = svcErr.Details
	}
	c.JSON(svcErr.StatusCode, body)
}
