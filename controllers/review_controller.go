package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/services"
	"github.com/sharpfade/barber-booking-api/utils"
)

// ReviewController serves review submission and the moderation dashboard.
type ReviewController struct {
	reviews *services.ReviewService
}

// NewReviewController creates a ReviewController.
func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

// ListReviews handles GET /api/v1/admin/reviews
func (rc *ReviewController) ListReviews(c *gin.Context) {
	page, limit := utils.PageLimit(c.Query("page"), c.Query("limit"))
	filter := services.ReviewFilter{
		Visibility:   c.Query("visibility"),
		StartDate:    c.Query("startDate"),
		EndDate:      c.Query("endDate"),
		Source:       c.Query("source"),
		ReviewStatus: c.Query("reviewStatus"),
		Page:         page,
		Limit:        limit,
	}
	if raw := c.Query("barberId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "barberId must be numeric")
			return
		}
		filter.BarberID = uint(id)
	}
	if raw := c.Query("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < 1 || rating > 5 {
			errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "rating must be between 1 and 5")
			return
		}
		filter.Rating = rating
	}

	result, err := rc.reviews.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Reviews,
		"pagination": gin.H{
			"page":       result.Page,
			"limit":      result.Limit,
			"total":      result.Total,
			"totalPages": result.TotalPages,
		},
	})
}

// GetReview handles GET /api/v1/admin/reviews/:id
func (rc *ReviewController) GetReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	review, logs, err := rc.reviews.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"review":   review,
		"auditLog": logs,
	})
}

// ModerateReview handles PUT /api/v1/admin/reviews/:id
func (rc *ReviewController) ModerateReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.ModerationRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := rc.reviews.Moderate(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, review)
}

// DeleteReview handles DELETE /api/v1/admin/reviews/:id
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := rc.reviews.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review deleted",
	})
}

// CreateReview handles POST /api/v1/reviews
func (rc *ReviewController) CreateReview(c *gin.Context) {
	var req services.CreateReviewInput
	if !bindJSON(c, &req) {
		return
	}

	review, err := rc.reviews.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, review)
}
