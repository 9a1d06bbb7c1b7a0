package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/services"
	"github.com/sharpfade/barber-booking-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailEndpoints(t *testing.T) {
	srv := newTestServer(t)
	admin := testutil.CreateUser(t, srv.db, "Admin", "admin@example.com", models.RoleAdmin)
	rep := testutil.CreateUser(t, srv.db, "Rep", "rep@example.com", models.RoleRep)
	order := testutil.CreateOrder(t, srv.db, testutil.OrderFixture{})

	w := srv.do(t, http.MethodPost, "/api/v1/emails/order-confirmation", map[string]uint{"orderId": order.ID}, srv.token(t, rep))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	w = srv.do(t, http.MethodPost, "/api/v1/emails/order-confirmation", map[string]uint{"orderId": 999}, srv.token(t, rep))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/emails/test", map[string]string{"to": "ops@example.com"}, srv.token(t, rep))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/emails/test", map[string]string{"to": "ops@example.com"}, srv.token(t, admin))
	require.Equal(t, http.StatusAccepted, w.Code)

	var queued []models.Notification
	require.NoError(t, srv.db.Order("id").Find(&queued).Error)
	require.Len(t, queued, 2)
	assert.Equal(t, services.TemplateOrderConfirmation, queued[0].Template)
	assert.Equal(t, "walkin@example.com", queued[0].Recipient)
	assert.Equal(t, services.TemplateTestEmail, queued[1].Template)
	assert.Equal(t, models.NotificationPending, queued[1].Status)
}

func TestNotificationAdminEndpoints(t *testing.T) {
	srv := newTestServer(t)
	admin := testutil.CreateUser(t, srv.db, "Admin", "admin@example.com", models.RoleAdmin)
	rep := testutil.CreateUser(t, srv.db, "Rep", "rep@example.com", models.RoleRep)
	failed := models.Notification{
		Template:  services.TemplateTestEmail,
		Recipient: "ops@example.com",
		Subject:   "Test email",
		Status:    models.NotificationFailed,
		Attempts:  5,
	}
	require.NoError(t, srv.db.Create(&failed).Error)

	w := srv.do(t, http.MethodGet, "/api/v1/admin/notifications", nil, srv.token(t, rep))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/admin/notifications?status=failed", nil, srv.token(t, admin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w).Pagination["total"])

	path := fmt.Sprintf("/api/v1/admin/notifications/%d/retry", failed.ID)
	w = srv.do(t, http.MethodPost, path, nil, srv.token(t, admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var retried models.Notification
	decodeData(t, w, &retried)
	assert.Equal(t, models.NotificationPending, retried.Status)
	assert.Zero(t, retried.Attempts)

	w = srv.do(t, http.MethodPost, path, nil, srv.token(t, admin))
	assert.Equal(t, http.StatusConflict, w.Code, "only failed notifications can be retried")
}
