package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/services"
)

// AnalyticsController serves the read-only dashboard reports.
type AnalyticsController struct {
	analytics *services.AnalyticsService
}

// NewAnalyticsController creates an AnalyticsController.
func NewAnalyticsController(analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics}
}

// report parses the date range and writes whatever fetch returns.
func (ac *AnalyticsController) report(c *gin.Context, fetch func(ctx context.Context, r services.DateRange) (interface{}, error)) {
	r, err := ac.analytics.Range(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := fetch(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"range": gin.H{
			"startDate": r.Start,
			"endDate":   r.End,
		},
	})
}

// Financials handles GET /api/v1/admin/analytics/financials
func (ac *AnalyticsController) Financials(c *gin.Context) {
	ac.report(c, func(ctx context.Context, r services.DateRange) (interface{}, error) {
		return ac.analytics.Financials(ctx, r)
	})
}

// Operations handles GET /api/v1/admin/analytics/operations
func (ac *AnalyticsController) Operations(c *gin.Context) {
	ac.report(c, func(ctx context.Context, r services.DateRange) (interface{}, error) {
		return ac.analytics.Operations(ctx, r)
	})
}

// Traffic handles GET /api/v1/admin/analytics/traffic
func (ac *AnalyticsController) Traffic(c *gin.Context) {
	ac.report(c, func(ctx context.Context, r services.DateRange) (interface{}, error) {
		return ac.analytics.Traffic(ctx, r)
	})
}

// Services handles GET /api/v1/admin/analytics/services
func (ac *AnalyticsController) Services(c *gin.Context) {
	ac.report(c, func(ctx context.Context, r services.DateRange) (interface{}, error) {
		return ac.analytics.Services(ctx, r)
	})
}
