package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/services"
	"github.com/sharpfade/barber-booking-api/utils"
)

// StaffController serves staff accounts, barber management and customers.
type StaffController struct {
	staff *services.StaffService
}

// NewStaffController creates a StaffController.
func NewStaffController(staff *services.StaffService) *StaffController {
	return &StaffController{staff: staff}
}

// CreateStaff handles POST /api/v1/admin/staff
func (sc *StaffController) CreateStaff(c *gin.Context) {
	var req services.CreateStaffInput
	if !bindJSON(c, &req) {
		return
	}

	user, barber, err := sc.staff.CreateStaff(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{
		"user":   user,
		"barber": barber,
	})
}

// ListBarbers handles GET /api/v1/admin/barbers
func (sc *StaffController) ListBarbers(c *gin.Context) {
	barbers, err := sc.staff.ListBarbers(c.Request.Context(), c.Query("status"), c.Query("city"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, barbers)
}

// GetBarber handles GET /api/v1/admin/barbers/:id
func (sc *StaffController) GetBarber(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	barber, err := sc.staff.GetBarber(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, barber)
}

// UpdateBarber handles PATCH /api/v1/admin/barbers/:id
func (sc *StaffController) UpdateBarber(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateBarberInput
	if !bindJSON(c, &req) {
		return
	}

	barber, err := sc.staff.UpdateBarber(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, barber)
}

// ListCustomers handles GET /api/v1/admin/customers
func (sc *StaffController) ListCustomers(c *gin.Context) {
	limit, offset := utils.LimitOffset(c.Query("limit"), c.Query("offset"))

	customers, total, err := sc.staff.ListCustomers(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
		"pagination": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}
