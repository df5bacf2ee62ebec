package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/lifecycle"
	"storefront/internal/models"
	"storefront/internal/store"
)

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus applies an admin-initiated transition on the status
// axis. The write stands even when the notification cannot be queued; that
// case comes back as a warning in the response.
func UpdateOrderStatus(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/orders/:id/status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := svc.UpdateOrderStatus(ctx, orderID, models.OrderStatus(req.Status))
		if err != nil {
			respondLifecycleError(c, route, err)
			return
		}

		response := gin.H{"order": result.Order, "changed": result.Changed}
		if result.Warning != "" {
			response["warning"] = result.Warning
		}
		c.JSON(http.StatusOK, response)
	}
}

// UpdatePaymentStatus applies an admin-initiated transition on the payment
// axis, independent of the status axis.
func UpdatePaymentStatus(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/orders/:id/payment-status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := svc.UpdatePaymentStatus(ctx, orderID, models.PaymentStatus(req.Status))
		if err != nil {
			respondLifecycleError(c, route, err)
			return
		}

		response := gin.H{"order": result.Order, "changed": result.Changed}
		if result.Warning != "" {
			response["warning"] = result.Warning
		}
		c.JSON(http.StatusOK, response)
	}
}

func respondLifecycleError(c *gin.Context, route string, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrUnknownStatus), errors.Is(err, lifecycle.ErrInvalidTransition):
		respondWithError(c, http.StatusBadRequest, route, err.Error())
	case errors.Is(err, store.ErrOrderNotFound):
		respondWithError(c, http.StatusNotFound, route, "order not found")
	default:
		respondWithError(c, http.StatusInternalServerError, route, "db error")
	}
}

// ListOrders returns orders for the admin table, newest first.
func ListOrders(orders store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, err := orders.List(ctx, page, limit)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if list == nil {
			list = []models.Order{}
		}
		c.JSON(http.StatusOK, list)
	}
}

// ListOrdersNeedingReconciliation surfaces orders whose item batch never
// landed: pending orders with zero items. Fulfillment completes or cancels
// them by hand; nothing retries them automatically.
func ListOrdersNeedingReconciliation(orders store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders/reconciliation"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, err := orders.ListPendingWithoutItems(ctx)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if list == nil {
			list = []models.Order{}
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetOrderItems returns the frozen lines of one order.
func GetOrderItems(items store.OrderItemStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders/:id/items"

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, err := items.ListByOrder(ctx, orderID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if list == nil {
			list = []models.OrderItem{}
		}
		c.JSON(http.StatusOK, list)
	}
}
