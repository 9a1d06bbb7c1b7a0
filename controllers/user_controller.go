package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/middleware"
	"github.com/sharpfade/barber-booking-api/services"
)

// LoginRequest represents the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request body for POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ResetPasswordRequest represents the request body for POST /auth/reset-password
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserController serves authentication and the caller's own profile.
type UserController struct {
	auth *services.AuthService
}

// NewUserController creates a UserController.
func NewUserController(auth *services.AuthService) *UserController {
	return &UserController{auth: auth}
}

// Login handles POST /api/v1/auth/login
func (uc *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, user, err := uc.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"tokenType":    tokens.TokenType,
		"expiresIn":    tokens.ExpiresIn,
		"user":         user,
	})
}

// Refresh handles POST /api/v1/auth/refresh
func (uc *UserController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := uc.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, tokens)
}

// ResetPassword handles POST /api/v1/auth/reset-password - consumes a
// one-time reset token and sets a new password
func (uc *UserController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := uc.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated",
	})
}

// GetCurrentUser handles GET /api/v1/users/me
func (uc *UserController) GetCurrentUser(c *gin.Context) {
	caller, err := middleware.CurrentUser(c)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := uc.auth.Me(c.Request.Context(), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}
