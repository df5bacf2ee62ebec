package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/checkout"
	"storefront/internal/coupon"
	"storefront/internal/models"
	"storefront/internal/store"
)

type checkoutCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type checkoutRequest struct {
	Customer             checkoutCustomerRequest `json:"customer" binding:"required"`
	PaymentMethod        string                  `json:"paymentMethod"`
	TransactionReference string                  `json:"transactionReference"`
	CouponCode           string                  `json:"couponCode"`
	Notes                string                  `json:"notes"`
	Currency             string                  `json:"currency"`
}

// Checkout drives the full checkout workflow and maps the orchestrator's
// error taxonomy onto HTTP responses.
func Checkout(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/checkout"
		defer handlePanic(c, route)

		customerID, ok := customerIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		result, err := svc.Checkout(ctx, checkout.Input{
			CustomerID: customerID,
			Customer: models.CustomerInfo{
				Name:  req.Customer.Name,
				Email: req.Customer.Email,
				Phone: req.Customer.Phone,
			},
			PaymentMethod:  req.PaymentMethod,
			TransactionRef: req.TransactionReference,
			CouponCode:     req.CouponCode,
			Notes:          req.Notes,
			Currency:       req.Currency,
		})
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		response := gin.H{
			"order":   result.Order,
			"message": "order created",
		}
		if result.RedirectURL != "" {
			response["redirectUrl"] = result.RedirectURL
		}
		c.JSON(http.StatusCreated, response)
	}
}

func respondCheckoutError(c *gin.Context, route string, err error) {
	var ve *checkout.ValidationError
	if errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
		return
	}

	var ce *coupon.CouponError
	if errors.As(err, &ce) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ce.Error(), "reason": string(ce.Reason)})
		return
	}

	if errors.Is(err, checkout.ErrEmptyCart) {
		respondWithError(c, http.StatusBadRequest, route, "cart is empty")
		return
	}

	if errors.Is(err, store.ErrProductNotFound) {
		respondWithError(c, http.StatusBadRequest, route, "a cart item no longer exists")
		return
	}

	var ge *checkout.GatewayError
	if errors.As(err, &ge) {
		// The compensating cancellation has already run; tell the customer
		// rather than leaving them to wonder about the order's state.
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"error":   "payment could not be started, the order was cancelled",
			"orderId": ge.OrderID.Hex(),
		})
		return
	}

	var pe *checkout.PartialPersistenceError
	if errors.As(err, &pe) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "order could not be completed, support has been notified",
			"orderId": pe.OrderID.Hex(),
		})
		return
	}

	respondWithError(c, http.StatusInternalServerError, route, "db error")
}
