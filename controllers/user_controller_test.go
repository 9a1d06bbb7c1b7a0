package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/services"
	"github.com/sharpfade/barber-booking-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	testutil.CreateUser(t, srv.db, "Ada", "ada@example.com", models.RoleRep)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "valid credentials",
			body:           map[string]interface{}{"email": "ada@example.com", "password": testutil.TestPassword},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			body:           map[string]interface{}{"email": "ada@example.com", "password": "nope"},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "INVALID_CREDENTIALS",
		},
		{
			name:           "missing password",
			body:           map[string]interface{}{"email": "ada@example.com"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "malformed email",
			body:           map[string]interface{}{"email": "not-an-email", "password": "x"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPost, "/api/v1/auth/login", tt.body, "")
			assert.Equal(t, tt.expectedStatus, w.Code)

			env := decode(t, w)
			if tt.expectedCode != "" {
				assert.False(t, env.Success)
				assert.Equal(t, tt.expectedCode, env.Error.Code)
				return
			}

			var data struct {
				AccessToken  string      `json:"accessToken"`
				RefreshToken string      `json:"refreshToken"`
				TokenType    string      `json:"tokenType"`
				User         models.User `json:"user"`
			}
			decodeData(t, w, &data)
			assert.NotEmpty(t, data.AccessToken)
			assert.NotEmpty(t, data.RefreshToken)
			assert.Equal(t, "Bearer", data.TokenType)
			assert.Equal(t, models.RoleRep, data.User.Role)
		})
	}
}

func TestLoginTokenOpensProtectedRoutes(t *testing.T) {
	srv := newTestServer(t)
	testutil.CreateUser(t, srv.db, "Ada", "ada@example.com", models.RoleCustomer)

	w := srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "ada@example.com", "password": testutil.TestPassword}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tokens services.TokenPair
	decodeData(t, w, &tokens)

	w = srv.do(t, http.MethodGet, "/api/v1/users/me", nil, tokens.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	decodeData(t, w, &me)
	assert.Equal(t, "ada@example.com", me.Email)

	w = srv.do(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refreshToken": tokens.RefreshToken}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed services.TokenPair
	decodeData(t, w, &refreshed)
	assert.NotEmpty(t, refreshed.AccessToken)

	// refresh tokens are signed with a different secret and never authorize requests
	w = srv.do(t, http.MethodGet, "/api/v1/users/me", nil, tokens.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCurrentUserRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decode(t, w).Success)

	w = srv.do(t, http.MethodGet, "/api/v1/users/me", nil, "garbage.token.value")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", decode(t, w).Error.Code)
}

func TestGetCurrentUserDeleted(t *testing.T) {
	srv := newTestServer(t)
	user := testutil.CreateUser(t, srv.db, "Gone", "gone@example.com", models.RoleCustomer)
	token := srv.token(t, user)
	require.NoError(t, srv.db.Delete(user).Error)

	w := srv.do(t, http.MethodGet, "/api/v1/users/me", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", decode(t, w).Error.Code)
}

func TestResetPasswordEndpoint(t *testing.T) {
	srv := newTestServer(t)
	user := testutil.CreateUser(t, srv.db, "Guest", "guest@example.com", models.RoleCustomer)
	token, expires := services.NewResetToken(time.Now())
	require.NoError(t, srv.db.Model(user).Updates(map[string]interface{}{
		"password_reset_token":      token,
		"password_reset_expires_at": expires,
	}).Error)

	w := srv.do(t, http.MethodPost, "/api/v1/auth/reset-password", map[string]string{"token": token, "password": "a-new-password"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password updated", decode(t, w).Message)

	w = srv.do(t, http.MethodPost, "/api/v1/auth/reset-password", map[string]string{"token": token, "password": "a-new-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
