package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/services"
)

// DeclineJobRequest represents the request body for declining a job
type DeclineJobRequest struct {
	Reason string `json:"reason"`
}

// AvailabilityRequest represents the request body for toggling availability
type AvailabilityRequest struct {
	IsOnline *bool `json:"isOnline" binding:"required"`
}

// BarberResponseRequest represents a barber's public reply to a review
type BarberResponseRequest struct {
	BarberResponse string `json:"barberResponse" binding:"required"`
}

// BarberController serves the barber-facing job and profile endpoints.
type BarberController struct {
	jobs    *services.JobService
	staff   *services.StaffService
	reviews *services.ReviewService
}

// NewBarberController creates a BarberController.
func NewBarberController(jobs *services.JobService, staff *services.StaffService, reviews *services.ReviewService) *BarberController {
	return &BarberController{jobs: jobs, staff: staff, reviews: reviews}
}

// ListJobs handles GET /api/v1/barber/jobs
func (bc *BarberController) ListJobs(c *gin.Context) {
	orders, err := bc.jobs.ListJobs(c.Request.Context(), actorFrom(c), c.Query("jobStatus"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

// AcceptJob handles POST /api/v1/barber/jobs/:id/accept
func (bc *BarberController) AcceptJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := bc.jobs.Accept(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// DeclineJob handles POST /api/v1/barber/jobs/:id/decline
func (bc *BarberController) DeclineJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req DeclineJobRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	order, err := bc.jobs.Decline(c.Request.Context(), actorFrom(c), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// UpdateJobStatus handles PATCH /api/v1/barber/jobs/:id/status
func (bc *BarberController) UpdateJobStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req JobStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := bc.jobs.UpdateStatus(c.Request.Context(), actorFrom(c), id, req.JobStatus, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// SetAvailability handles PATCH /api/v1/barber/me/availability
func (bc *BarberController) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	barber, err := bc.jobs.SetAvailability(c.Request.Context(), actorFrom(c), *req.IsOnline)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, barber)
}

// GetProfile handles GET /api/v1/barber/me
func (bc *BarberController) GetProfile(c *gin.Context) {
	barber, err := bc.staff.BarberProfile(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, barber)
}

// ListReviews handles GET /api/v1/barber/reviews
func (bc *BarberController) ListReviews(c *gin.Context) {
	reviews, err := bc.reviews.ListForBarber(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, reviews)
}

// RespondToReview handles POST /api/v1/barber/reviews/:id/response
func (bc *BarberController) RespondToReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req BarberResponseRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := bc.reviews.BarberRespond(c.Request.Context(), actorFrom(c), id, req.BarberResponse)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, review)
}
