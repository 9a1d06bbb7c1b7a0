package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/services"
	"github.com/sharpfade/barber-booking-api/utils"
)

// ResendConfirmationRequest represents the request body for re-sending an order confirmation
type ResendConfirmationRequest struct {
	OrderID uint `json:"orderId" binding:"required"`
}

// TestEmailRequest represents the request body for sending a test email
type TestEmailRequest struct {
	To string `json:"to" binding:"required,email"`
}

// NotificationController exposes the email outbox to administrators.
type NotificationController struct {
	outbox *services.Outbox
	orders *services.OrderService
}

// NewNotificationController creates a NotificationController.
func NewNotificationController(outbox *services.Outbox, orders *services.OrderService) *NotificationController {
	return &NotificationController{outbox: outbox, orders: orders}
}

// ListNotifications handles GET /api/v1/admin/notifications
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	limit, offset := utils.LimitOffset(c.Query("limit"), c.Query("offset"))

	items, total, err := nc.outbox.List(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"pagination": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// RetryNotification handles POST /api/v1/admin/notifications/:id/retry
func (nc *NotificationController) RetryNotification(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	n, err := nc.outbox.Retry(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, n)
}

// ResendOrderConfirmation handles POST /api/v1/emails/order-confirmation
func (nc *NotificationController) ResendOrderConfirmation(c *gin.Context) {
	var req ResendConfirmationRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := nc.orders.ResendConfirmation(c.Request.Context(), req.OrderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Order confirmation queued",
	})
}

// SendTestEmail handles POST /api/v1/emails/test
func (nc *NotificationController) SendTestEmail(c *gin.Context) {
	var req TestEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	err := nc.outbox.Enqueue(c.Request.Context(), nil, services.Email{
		Template: services.TemplateTestEmail,
		To:       req.To,
		Subject:  "Test email",
		Data:     map[string]interface{}{"sentAt": time.Now().UTC().Format(time.RFC1123)},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Test email queued",
	})
}
