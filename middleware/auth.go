package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/config"
	"github.com/sharpfade/barber-booking-api/models"
	"go.uber.org/zap"
)

const authUserKey = "auth_user"

// CustomClaims contains the application claims carried by access tokens.
type CustomClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
}

// Validate rejects tokens whose role is not one the API knows about.
func (c *CustomClaims) Validate(ctx context.Context) error {
	if !models.Role(c.Role).Valid() {
		return fmt.Errorf("unknown role %q", c.Role)
	}
	return nil
}

// AuthenticatedUser is the caller identity resolved from a validated token.
type AuthenticatedUser struct {
	ID    uint
	Email string
	Role  models.Role
}

// IsStaff reports whether the caller is an ADMIN or REP.
func (u *AuthenticatedUser) IsStaff() bool {
	return u != nil && u.Role.IsStaff()
}

// HasRole reports whether the caller holds any of the given roles.
func (u *AuthenticatedUser) HasRole(roles ...models.Role) bool {
	return u != nil && slices.Contains(roles, u.Role)
}

// NewTokenValidator builds the HS256 validator shared by every protected route.
func NewTokenValidator(cfg *config.Config) (*validator.Validator, error) {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	return validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
}

// EnsureValidToken is a middleware that rejects requests without a valid access token.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	return newAuthMiddleware(cfg, false)
}

// OptionalToken validates a bearer token when one is sent and lets anonymous
// requests through. A malformed or expired token is still rejected.
func OptionalToken(cfg *config.Config) gin.HandlerFunc {
	return newAuthMiddleware(cfg, true)
}

func newAuthMiddleware(cfg *config.Config, optional bool) gin.HandlerFunc {
	jwtValidator, err := NewTokenValidator(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to set up the jwt validator: %v", err))
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		LoggerFromContext(r.Context()).Info("rejected bearer token", zap.Error(err))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`))
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithCredentialsOptional(optional),
	)

	return func(c *gin.Context) {
		passed := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r

			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok || claims == nil {
				// anonymous request on an optional route
				c.Next()
				return
			}

			user, err := userFromClaims(claims)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INVALID_TOKEN",
						"message": "Token subject is not a valid user id",
					},
				})
				return
			}
			c.Set(authUserKey, user)
			c.Set("validated_claims", claims)

			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}

func userFromClaims(claims *validator.ValidatedClaims) (*AuthenticatedUser, error) {
	id, err := strconv.ParseUint(claims.RegisteredClaims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, errors.New("invalid subject")
	}
	custom, ok := claims.CustomClaims.(*CustomClaims)
	if !ok {
		return nil, errors.New("missing custom claims")
	}
	return &AuthenticatedUser{
		ID:    uint(id),
		Email: custom.Email,
		Role:  models.Role(custom.Role),
	}, nil
}

// CurrentUser extracts the authenticated caller from the Gin context
func CurrentUser(c *gin.Context) (*AuthenticatedUser, error) {
	value, exists := c.Get(authUserKey)
	if !exists {
		return nil, &AuthError{Code: "UNAUTHORIZED", Message: "Authentication required"}
	}

	user, ok := value.(*AuthenticatedUser)
	if !ok || user == nil {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return user, nil
}

// OptionalUser returns the caller when a token was presented, nil otherwise.
func OptionalUser(c *gin.Context) *AuthenticatedUser {
	user, err := CurrentUser(c)
	if err != nil {
		return nil
	}
	return user
}

// SetCurrentUser stores an authenticated caller on the context.
func SetCurrentUser(c *gin.Context, user *AuthenticatedUser) {
	c.Set(authUserKey, user)
}

// RequireRoles is a middleware that only lets callers holding one of roles through.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		if !user.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient permissions to access this resource",
				},
			})
			return
		}

		c.Next()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
