package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	cfg := testutil.TestConfig()
	svc := NewAuthService(db, cfg, nil)
	user := testutil.CreateUser(t, db, "Ada", "ada@example.com", models.RoleCustomer)

	pair, got, err := svc.Login(context.Background(), "  ADA@example.com ", testutil.TestPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(pair.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "CUSTOMER", claims["role"])
	assert.Equal(t, "ada@example.com", claims["email"])

	_, _, err = svc.Login(context.Background(), "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(context.Background(), "nobody@example.com", testutil.TestPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testutil.TestConfig(), nil)
	user := testutil.CreateUser(t, db, "Rep", "rep@example.com", models.RoleRep)

	pair, err := svc.IssueTokens(user)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens cannot refresh")

	svc.now = func() time.Time { return time.Now().Add(30 * 24 * time.Hour) }
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testutil.TestConfig(), nil)
	user := testutil.CreateUser(t, db, "Guest", "guest@example.com", models.RoleCustomer)

	token, expires := NewResetToken(time.Now())
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"password_reset_token":      token,
		"password_reset_expires_at": expires,
	}).Error)

	assert.Error(t, svc.ResetPassword(context.Background(), token, "short"))
	require.NoError(t, svc.ResetPassword(context.Background(), token, "a-new-password"))

	_, _, err := svc.Login(context.Background(), "guest@example.com", "a-new-password")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword(context.Background(), token, "another-password"), ErrInvalidToken, "tokens are single use")
}

func TestResetPasswordExpired(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testutil.TestConfig(), nil)
	user := testutil.CreateUser(t, db, "Guest", "guest@example.com", models.RoleCustomer)

	token, _ := NewResetToken(time.Now())
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"password_reset_token":      token,
		"password_reset_expires_at": time.Now().UTC().Add(-time.Minute),
	}).Error)

	assert.ErrorIs(t, svc.ResetPassword(context.Background(), token, "a-new-password"), ErrInvalidToken)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "other"))
	assert.Equal(t, "ada@example.com", NormalizeEmail(" Ada@Example.COM "))
}
