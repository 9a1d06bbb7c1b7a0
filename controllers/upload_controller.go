package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/services"
)

// UploadController accepts barber profile photos.
type UploadController struct {
	photos *services.PhotoService
	staff  *services.StaffService
}

// NewUploadController creates an UploadController.
func NewUploadController(photos *services.PhotoService, staff *services.StaffService) *UploadController {
	return &UploadController{photos: photos, staff: staff}
}

// UploadBarberPhoto handles POST /api/v1/admin/barbers/:id/photo
func (uc *UploadController) UploadBarberPhoto(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	uc.upload(c, id)
}

// UploadMyPhoto handles POST /api/v1/barber/me/photo
func (uc *UploadController) UploadMyPhoto(c *gin.Context) {
	barber, err := uc.staff.BarberProfile(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	uc.upload(c, barber.ID)
}

func (uc *UploadController) upload(c *gin.Context, barberID uint) {
	if uc.photos == nil {
		errorJSON(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Photo storage is not configured")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "NO_FILE", "No image file provided. Use 'image' as the form field name")
		return
	}

	barber, err := uc.photos.UploadBarberPhoto(c.Request.Context(), barberID, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, barber)
}
