package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/config"
	"github.com/sharpfade/barber-booking-api/middleware"
	"github.com/sharpfade/barber-booking-api/services"
	"github.com/sharpfade/barber-booking-api/utils"
	"go.uber.org/zap"
)

// errorJSON writes the standard error envelope.
func errorJSON(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondError maps a service error onto its status and code. Anything
// unrecognised is logged and answered with a 500.
func respondError(c *gin.Context, err error) {
	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		errorJSON(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
		return
	}

	svcErr, ok := services.AsServiceError(err)
	if !ok {
		svcErr = services.Internal("Internal server error", err)
	}

	if svcErr.Status >= http.StatusInternalServerError {
		middleware.Logger(c).Error("request failed", zap.String("code", svcErr.Code), zap.Error(err))
		message := svcErr.Message
		if cfg := config.GetConfig(); cfg == nil || !cfg.IsProduction() {
			message = err.Error()
		}
		errorJSON(c, svcErr.Status, svcErr.Code, message)
		return
	}

	errorJSON(c, svcErr.Status, svcErr.Code, svcErr.Message)
}

// respondData writes {"success": true, "data": data}.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// bindJSON decodes the request body and answers 400 when it does not bind.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		errorJSON(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// actorFrom converts the authenticated caller into a service actor. It
// returns nil for anonymous requests.
func actorFrom(c *gin.Context) *services.Actor {
	user := middleware.OptionalUser(c)
	if user == nil {
		return nil
	}
	return &services.Actor{ID: user.ID, Email: user.Email, Role: user.Role}
}
