package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/services"
	"github.com/sharpfade/barber-booking-api/utils"
)

// CancelOrderRequest represents the request body for cancelling an order
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// UpdatePaymentRequest represents the request body for a manual payment change
type UpdatePaymentRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus" binding:"required"`
	Note          string               `json:"note"`
}

// AssignBarberRequest represents the request body for assigning a barber
type AssignBarberRequest struct {
	BarberID uint `json:"barberId" binding:"required"`
}

// JobStatusRequest represents the request body for a job status change
type JobStatusRequest struct {
	JobStatus models.JobStatus `json:"jobStatus" binding:"required"`
	Note      string           `json:"note"`
}

// OrderController serves order intake, payment and dispatch endpoints.
type OrderController struct {
	orders      *services.OrderService
	assignments *services.AssignmentService
	jobs        *services.JobService
}

// NewOrderController creates an OrderController.
func NewOrderController(orders *services.OrderService, assignments *services.AssignmentService, jobs *services.JobService) *OrderController {
	return &OrderController{orders: orders, assignments: assignments, jobs: jobs}
}

// CreateOrder handles POST /api/v1/orders - accepts guest and authenticated checkouts
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if !bindJSON(c, &req) {
		return
	}

	order, err := oc.orders.CreateOrder(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders - staff order list with filters
func (oc *OrderController) ListOrders(c *gin.Context) {
	limit, offset := utils.LimitOffset(c.Query("limit"), c.Query("offset"))
	filter := services.OrderFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		JobStatus:     c.Query("jobStatus"),
		Unassigned:    c.Query("unassigned") == "true",
		Search:        c.Query("search"),
		Limit:         limit,
		Offset:        offset,
	}

	orders, total, err := oc.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"pagination": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := oc.orders.GetOrder(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// GetMyOrders handles GET /api/v1/me/orders
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	orders, err := oc.orders.ListCustomerOrders(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

// GetOrderHistory handles GET /api/v1/orders/:id/history
func (oc *OrderController) GetOrderHistory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	events, err := oc.orders.History(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, events)
}

// VerifyPayment handles POST /api/v1/orders/:id/verify-payment
func (oc *OrderController) VerifyPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, verified, err := oc.orders.VerifyPayment(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"verified": verified,
		"data":     order,
	})
}

// CancelOrder handles POST /api/v1/admin/orders/:id/cancel
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CancelOrderRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	order, err := oc.orders.CancelOrder(c.Request.Context(), actorFrom(c), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// UpdatePaymentStatus handles PATCH /api/v1/admin/orders/:id/payment
func (oc *OrderController) UpdatePaymentStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := oc.orders.UpdatePaymentStatus(c.Request.Context(), actorFrom(c), id, req.PaymentStatus, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// AssignBarber handles POST /api/v1/admin/orders/:id/assign
func (oc *OrderController) AssignBarber(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req AssignBarberRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := oc.assignments.Assign(c.Request.Context(), actorFrom(c), id, req.BarberID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// EligibleBarbers handles GET /api/v1/admin/orders/:id/eligible-barbers
func (oc *OrderController) EligibleBarbers(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	barbers, err := oc.assignments.EligibleBarbers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, barbers)
}

// OverrideJobStatus handles PATCH /api/v1/admin/orders/:id/job-status
func (oc *OrderController) OverrideJobStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req JobStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := oc.jobs.UpdateStatus(c.Request.Context(), actorFrom(c), id, req.JobStatus, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}
