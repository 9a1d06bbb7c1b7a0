package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/middleware"
	"github.com/sharpfade/barber-booking-api/services"
	"go.uber.org/zap"
)

const paystackSignatureHeader = "x-paystack-signature"

type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// PaymentController receives payment provider callbacks.
type PaymentController struct {
	orders    *services.OrderService
	secretKey string
}

// NewPaymentController creates a PaymentController.
func NewPaymentController(orders *services.OrderService, secretKey string) *PaymentController {
	return &PaymentController{orders: orders, secretKey: secretKey}
}

// PaystackWebhook handles POST /api/v1/payments/paystack/webhook
func (pc *PaymentController) PaystackWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", "Could not read request body")
		return
	}

	// The signature covers the raw bytes, so verify before decoding
	if !services.VerifyWebhookSignature(pc.secretKey, body, c.GetHeader(paystackSignatureHeader)) {
		errorJSON(c, http.StatusUnauthorized, "INVALID_SIGNATURE", "Webhook signature is invalid")
		return
	}

	var event paystackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", "Webhook body is not valid JSON")
		return
	}

	if event.Event != "charge.success" || event.Data.Reference == "" {
		middleware.Logger(c).Debug("ignoring paystack event", zap.String("event", event.Event))
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	if err := pc.orders.HandlePaystackCharge(c.Request.Context(), event.Data.Reference, event.Data.Amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
