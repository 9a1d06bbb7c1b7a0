package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStaffEndpoint(t *testing.T) {
	srv := newTestServer(t)
	admin := testutil.CreateUser(t, srv.db, "Admin", "admin@example.com", models.RoleAdmin)
	rep := testutil.CreateUser(t, srv.db, "Rep", "rep@example.com", models.RoleRep)
	body := map[string]string{
		"name":     "Tunde",
		"email":    "tunde@example.com",
		"password": "password123",
		"role":     "BARBER",
		"city":     "Lagos",
	}

	w := srv.do(t, http.MethodPost, "/api/v1/admin/staff", body, srv.token(t, rep))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/admin/staff", body, srv.token(t, admin))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		User   models.User    `json:"user"`
		Barber *models.Barber `json:"barber"`
	}
	decodeData(t, w, &created)
	assert.Equal(t, models.RoleBarber, created.User.Role)
	require.NotNil(t, created.Barber)
	assert.Equal(t, models.BarberPendingApproval, created.Barber.Status)

	w = srv.do(t, http.MethodPost, "/api/v1/admin/staff", body, srv.token(t, admin))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_TAKEN", decode(t, w).Error.Code)

	// the new account can log in straight away
	w = srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "tunde@example.com", "password": "password123"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBarberManagementEndpoints(t *testing.T) {
	srv := newTestServer(t)
	admin := testutil.CreateUser(t, srv.db, "Admin", "admin@example.com", models.RoleAdmin)
	rep := testutil.CreateUser(t, srv.db, "Rep", "rep@example.com", models.RoleRep)
	barber := testutil.CreateBarber(t, srv.db, "Tunde", "tunde@example.com", "Lagos")
	testutil.CreateBarber(t, srv.db, "Musa", "musa@example.com", "Abuja")

	w := srv.do(t, http.MethodGet, "/api/v1/admin/barbers?city=abuja", nil, srv.token(t, rep))
	require.Equal(t, http.StatusOK, w.Code)
	var barbers []models.Barber
	decodeData(t, w, &barbers)
	require.Len(t, barbers, 1)
	assert.Equal(t, "Musa", barbers[0].User.Name)

	path := fmt.Sprintf("/api/v1/admin/barbers/%d", barber.ID)
	w = srv.do(t, http.MethodPatch, path, map[string]interface{}{"commissionRate": 0.5}, srv.token(t, rep))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(t, http.MethodPatch, path, map[string]interface{}{"status": "SUSPENDED", "commissionRate": 0.5}, srv.token(t, admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Barber
	decodeData(t, w, &updated)
	assert.Equal(t, models.BarberSuspended, updated.Status)
	assert.Equal(t, 0.5, updated.CommissionRate)

	w = srv.do(t, http.MethodGet, path, nil, srv.token(t, rep))
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/admin/barbers/4242", nil, srv.token(t, rep))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCustomersEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rep := testutil.CreateUser(t, srv.db, "Rep", "rep@example.com", models.RoleRep)
	ada := testutil.CreateCustomer(t, srv.db, "Ada", "ada@example.com")
	testutil.CreateCustomer(t, srv.db, "Bola", "bola@example.com")
	testutil.CreateOrder(t, srv.db, testutil.OrderFixture{Customer: ada, Total: 2500})

	w := srv.do(t, http.MethodGet, "/api/v1/admin/customers?search=ada", nil, srv.token(t, rep))
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, float64(1), env.Pagination["total"])

	var customers []struct {
		ID         uint    `json:"id"`
		OrderCount int64   `json:"orderCount"`
		TotalSpent float64 `json:"totalSpent"`
	}
	decodeData(t, w, &customers)
	require.Len(t, customers, 1)
	assert.Equal(t, ada.ID, customers[0].ID)
	assert.Equal(t, int64(1), customers[0].OrderCount)
	assert.Equal(t, 2500.0, customers[0].TotalSpent)
}
