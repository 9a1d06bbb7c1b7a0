package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError is a business error carrying a machine code and the HTTP
// status a handler should answer with.
type ServiceError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is matches service errors by code so sentinels work with errors.Is after
// a message has been customised.
func (e *ServiceError) Is(target error) bool {
	var other *ServiceError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

func newError(status int, code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message, Status: status}
}

// Validation returns a 400 VALIDATION_ERROR.
func Validation(message string) *ServiceError {
	return newError(http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// Forbidden returns a 403 FORBIDDEN.
func Forbidden(message string) *ServiceError {
	return newError(http.StatusForbidden, "FORBIDDEN", message)
}

// Conflict returns a 409 with the given code.
func Conflict(code, message string) *ServiceError {
	return newError(http.StatusConflict, code, message)
}

// Internal wraps an unexpected failure as a 500.
func Internal(message string, err error) *ServiceError {
	return &ServiceError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError, Err: err}
}

var (
	ErrInvalidCredentials   = newError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrInvalidToken         = newError(http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired")
	ErrUserNotFound         = newError(http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	ErrOrderNotFound        = newError(http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
	ErrBarberNotFound       = newError(http.StatusNotFound, "BARBER_NOT_FOUND", "Barber not found")
	ErrReviewNotFound       = newError(http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found")
	ErrNotificationNotFound = newError(http.StatusNotFound, "NOTIFICATION_NOT_FOUND", "Notification not found")
	ErrForbidden            = Forbidden("You do not have access to this resource")
	ErrInvalidAction        = newError(http.StatusBadRequest, "INVALID_ACTION", "Unrecognised action")
	ErrInvalidTransition    = Conflict("INVALID_TRANSITION", "Status transition is not allowed")
	ErrAlreadyAssigned      = Conflict("ALREADY_ASSIGNED", "Order already has an assigned barber")
	ErrOrderNotAssignable   = Conflict("ORDER_NOT_ASSIGNABLE", "Order must be paid and open before assignment")
	ErrBarberNotEligible    = newError(http.StatusBadRequest, "BARBER_NOT_ELIGIBLE", "Barber is not active")
	ErrReviewExists         = Conflict("REVIEW_EXISTS", "This order has already been reviewed")
	ErrEmailTaken           = Conflict("EMAIL_TAKEN", "A user with this email already exists")
	ErrStaffEmail           = Validation("customerEmail belongs to a staff account and cannot be booked against")
)

// AsServiceError unwraps err into a ServiceError when possible.
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// withMessage returns a copy of a sentinel with a more specific message.
func withMessage(sentinel *ServiceError, format string, args ...interface{}) *ServiceError {
	return &ServiceError{
		Code:    sentinel.Code,
		Message: fmt.Sprintf(format, args...),
		Status:  sentinel.Status,
	}
}
