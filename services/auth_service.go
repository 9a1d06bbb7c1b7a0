package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sharpfade/barber-booking-api/config"
	"github.com/sharpfade/barber-booking-api/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordCost is the bcrypt cost used for new hashes. Tests lower it.
var PasswordCost = bcrypt.DefaultCost

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = 7 * 24 * time.Hour

const minPasswordLength = 8

// TokenPair is the response of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

type accessClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// AuthService issues and refreshes tokens and manages passwords.
type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{db: db, cfg: cfg, logger: orNop(logger), now: time.Now}
}

// HashPassword hashes a plain-text password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewResetToken returns a random reset token and its expiry.
func NewResetToken(now time.Time) (string, time.Time) {
	return uuid.NewString(), now.Add(ResetTokenTTL)
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies credentials and returns a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, Internal("Failed to load user", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.IssueTokens(&user)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return pair, &user, nil
}

// IssueTokens signs an access and a refresh token for user.
func (s *AuthService) IssueTokens(user *models.User) (*TokenPair, error) {
	now := s.now()
	accessTTL := time.Duration(s.cfg.JWTAccessTTLMin) * time.Minute
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	refreshTTL := time.Duration(s.cfg.JWTRefreshTTLHours) * time.Hour
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	subject := strconv.FormatUint(uint64(user.ID), 10)

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Role:  string(user.Role),
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.JWTIssuer,
			Audience:  jwt.ClaimStrings{s.cfg.JWTAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
		},
	})
	accessToken, err := access.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, Internal("Failed to sign access token", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims{
		TokenUse: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.cfg.JWTIssuer,
			Audience:  jwt.ClaimStrings{s.cfg.JWTAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(refreshTTL)),
		},
	})
	refreshToken, err := refresh.SignedString([]byte(s.cfg.JWTRefreshSecret))
	if err != nil {
		return nil, Internal("Failed to sign refresh token", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTTL.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair. The user is
// reloaded so role changes take effect.
func (s *AuthService) Refresh(ctx context.Context, token string) (*TokenPair, error) {
	claims := &refreshClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTRefreshSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.JWTIssuer),
		jwt.WithAudience(s.cfg.JWTAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.TokenUse != "refresh" {
		return nil, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.Me(ctx, uint(id))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.IssueTokens(user)
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < minPasswordLength {
		return Validation("Password must be at least 8 characters")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("password_reset_token = ?", token).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return Internal("Failed to load user", err)
	}
	if user.PasswordResetExpiresAt == nil || s.now().After(*user.PasswordResetExpiresAt) {
		return ErrInvalidToken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Internal("Failed to hash password", err)
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND password_reset_token = ?", user.ID, token).
		Updates(map[string]interface{}{
			"password_hash":             hash,
			"password_reset_token":      nil,
			"password_reset_expires_at": nil,
		})
	if res.Error != nil {
		return Internal("Failed to update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInvalidToken
	}
	s.logger.Info("password reset", zap.Uint("user_id", user.ID))
	return nil
}

// Me loads a user by id.
func (s *AuthService) Me(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, Internal("Failed to load user", err)
	}
	return &user, nil
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
