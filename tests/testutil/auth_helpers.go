package testutil

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sharpfade/barber-booking-api/config"
	"github.com/sharpfade/barber-booking-api/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// AccessToken signs an access token for user the same way the login flow does.
func AccessToken(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()
	return SignToken(t, cfg, strconv.FormatUint(uint64(user.ID), 10), string(user.Role), user.Email, time.Now().Add(time.Hour))
}

// SignToken signs an arbitrary access token.
func SignToken(t *testing.T, cfg *config.Config, subject, role, email string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"iss":   cfg.JWTIssuer,
		"aud":   []string{cfg.JWTAudience},
		"role":  role,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	return token
}

// BearerHeader formats a token for the Authorization header.
func BearerHeader(token string) string {
	return "Bearer " + token
}

// CreateUser inserts a user with TestPassword.
func CreateUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Name: name, Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateCustomer inserts a CUSTOMER user with its customer profile.
func CreateCustomer(t *testing.T, db *gorm.DB, name, email string) *models.Customer {
	t.Helper()
	user := CreateUser(t, db, name, email, models.RoleCustomer)
	customer := &models.Customer{UserID: user.ID, Phone: "08000000000", City: "Lagos"}
	require.NoError(t, db.Create(customer).Error)
	customer.User = *user
	return customer
}

// CreateBarber inserts a BARBER user with an ACTIVE barber profile in city.
func CreateBarber(t *testing.T, db *gorm.DB, name, email, city string) *models.Barber {
	t.Helper()
	user := CreateUser(t, db, name, email, models.RoleBarber)
	barber := &models.Barber{
		UserID:         user.ID,
		City:           city,
		State:          city + " State",
		Status:         models.BarberActive,
		CommissionRate: models.DefaultCommissionRate,
	}
	require.NoError(t, db.Create(barber).Error)
	barber.User = *user
	return barber
}

// OrderFixture describes an order inserted directly into the database.
type OrderFixture struct {
	Customer      *models.Customer
	Barber        *models.Barber
	City          string
	Total         float64
	PaymentStatus models.PaymentStatus
	Status        models.OrderStatus
	JobStatus     models.JobStatus
}

var orderSeq int

// CreateOrder inserts an order with a single item. Zero fields get a PAID,
// CONFIRMED, unassigned order in Lagos.
func CreateOrder(t *testing.T, db *gorm.DB, f OrderFixture) *models.Order {
	t.Helper()
	orderSeq++
	if f.City == "" {
		f.City = "Lagos"
	}
	if f.Total == 0 {
		f.Total = 5000
	}
	if f.PaymentStatus == "" {
		f.PaymentStatus = models.PaymentPaid
	}
	if f.Status == "" {
		f.Status = models.OrderConfirmed
	}

	order := &models.Order{
		OrderNumber:   fmt.Sprintf("ORD-TEST%06d", orderSeq),
		CustomerEmail: "walkin@example.com",
		CustomerName:  "Walk In",
		CustomerPhone: "08000000000",
		City:          f.City,
		Location:      f.City + " Island",
		TotalAmount:   f.Total,
		PaymentStatus: f.PaymentStatus,
		Status:        f.Status,
		Items: []models.OrderItem{
			{Title: "Haircut", Quantity: 1, UnitPrice: f.Total, TotalPrice: f.Total},
		},
	}
	if f.Customer != nil {
		order.CustomerID = &f.Customer.ID
		order.CustomerEmail = f.Customer.User.Email
		order.CustomerName = f.Customer.User.Name
	}
	if f.Barber != nil {
		now := time.Now().UTC()
		order.AssignedBarberID = &f.Barber.ID
		order.AssignedAt = &now
		js := f.JobStatus
		if js == "" {
			js = models.JobAssigned
		}
		order.JobStatus = &js
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

// CreateReview inserts a review of order by its customer for barber.
func CreateReview(t *testing.T, db *gorm.DB, order *models.Order, customer *models.Customer, barber *models.Barber, rating int, visible bool) *models.Review {
	t.Helper()
	review := &models.Review{
		OrderID:    order.ID,
		CustomerID: customer.ID,
		BarberID:   barber.ID,
		Rating:     rating,
		Comment:    "fixture review",
		IsVisible:  visible,
		Status:     models.ReviewNew,
		Source:     models.SourceWebsite,
	}
	require.NoError(t, db.Create(review).Error)
	return review
}
