package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/services"
	"github.com/sharpfade/barber-booking-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reviewScenario struct {
	admin    *models.User
	rep      *models.User
	barber   *models.Barber
	customer *models.Customer
	good     *models.Review
	bad      *models.Review
}

func newReviewScenario(t *testing.T, db *gorm.DB) *reviewScenario {
	t.Helper()
	s := &reviewScenario{
		admin:    testutil.CreateUser(t, db, "Admin", "admin@example.com", models.RoleAdmin),
		rep:      testutil.CreateUser(t, db, "Rep", "rep@example.com", models.RoleRep),
		barber:   testutil.CreateBarber(t, db, "Tunde", "tunde@example.com", "Lagos"),
		customer: testutil.CreateCustomer(t, db, "Ada", "ada@example.com"),
	}
	completed := testutil.OrderFixture{Customer: s.customer, Barber: s.barber, Status: models.OrderCompleted, JobStatus: models.JobCompleted}
	s.good = testutil.CreateReview(t, db, testutil.CreateOrder(t, db, completed), s.customer, s.barber, 5, true)
	s.bad = testutil.CreateReview(t, db, testutil.CreateOrder(t, db, completed), s.customer, s.barber, 1, true)
	require.NoError(t, services.RecomputeBarberRating(context.Background(), db, s.barber.ID))
	return s
}

func barberRating(t *testing.T, db *gorm.DB, id uint) (float64, int) {
	t.Helper()
	var b models.Barber
	require.NoError(t, db.First(&b, id).Error)
	return b.RatingAvg, b.TotalReviews
}

func TestModerateReviewVisibility(t *testing.T) {
	srv := newTestServer(t)
	s := newReviewScenario(t, srv.db)
	path := fmt.Sprintf("/api/v1/admin/reviews/%d", s.bad.ID)

	avg, count := barberRating(t, srv.db, s.barber.ID)
	assert.Equal(t, 3.0, avg)
	assert.Equal(t, 2, count)

	w := srv.do(t, http.MethodPut, path, map[string]string{"action": "hide"}, srv.token(t, s.rep))
	assert.Equal(t, http.StatusForbidden, w.Code, "reps cannot change visibility")
	avg, _ = barberRating(t, srv.db, s.barber.ID)
	assert.Equal(t, 3.0, avg)

	w = srv.do(t, http.MethodPut, path, map[string]string{"action": "hide"}, srv.token(t, s.admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var hidden models.Review
	decodeData(t, w, &hidden)
	assert.False(t, hidden.IsVisible)

	avg, count = barberRating(t, srv.db, s.barber.ID)
	assert.Equal(t, 5.0, avg)
	assert.Equal(t, 1, count)

	// legacy body without an action
	w = srv.do(t, http.MethodPut, path, map[string]bool{"isVisible": true}, srv.token(t, s.admin))
	require.Equal(t, http.StatusOK, w.Code)
	avg, count = barberRating(t, srv.db, s.barber.ID)
	assert.Equal(t, 3.0, avg)
	assert.Equal(t, 2, count)
}

func TestModerateReviewRejectsUnknownAction(t *testing.T) {
	srv := newTestServer(t)
	s := newReviewScenario(t, srv.db)
	path := fmt.Sprintf("/api/v1/admin/reviews/%d", s.good.ID)

	w := srv.do(t, http.MethodPut, path, map[string]string{"action": "launch"}, srv.token(t, s.admin))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ACTION", decode(t, w).Error.Code)

	w = srv.do(t, http.MethodPut, path, map[string]string{}, srv.token(t, s.admin))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var audits int64
	srv.db.Model(&models.ReviewAuditLog{}).Where("review_id = ?", s.good.ID).Count(&audits)
	assert.Zero(t, audits)
}

func TestModerateReviewWorkflow(t *testing.T) {
	srv := newTestServer(t)
	s := newReviewScenario(t, srv.db)
	path := fmt.Sprintf("/api/v1/admin/reviews/%d", s.good.ID)
	rep := srv.token(t, s.rep)

	w := srv.do(t, http.MethodPut, path, map[string]string{"action": "escalate"}, rep)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = srv.do(t, http.MethodPut, path, map[string]string{"action": "resolve", "resolutionOutcome": "refund issued"}, rep)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = srv.do(t, http.MethodPut, path, map[string]string{"action": "ignore"}, rep)
	assert.Equal(t, http.StatusConflict, w.Code, "resolved reviews only re-open through escalation")

	w = srv.do(t, http.MethodGet, path, nil, rep)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Review   models.Review           `json:"review"`
		AuditLog []models.ReviewAuditLog `json:"auditLog"`
	}
	decodeData(t, w, &detail)
	assert.Equal(t, models.ReviewResolved, detail.Review.Status)
	require.Len(t, detail.AuditLog, 2)
	assert.Equal(t, models.AuditEscalate, detail.AuditLog[0].Action)
	assert.Equal(t, models.AuditResolve, detail.AuditLog[1].Action)
}

func TestListReviewsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	s := newReviewScenario(t, srv.db)
	require.NoError(t, srv.db.Model(s.bad).Update("is_visible", false).Error)

	w := srv.do(t, http.MethodGet, "/api/v1/admin/reviews?visibility=hidden", nil, srv.token(t, s.rep))
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, float64(1), env.Pagination["total"])
	assert.Equal(t, float64(1), env.Pagination["totalPages"])

	w = srv.do(t, http.MethodGet, "/api/v1/admin/reviews?limit=1&page=2", nil, srv.token(t, s.rep))
	require.Equal(t, http.StatusOK, w.Code)
	env = decode(t, w)
	assert.Equal(t, float64(2), env.Pagination["total"])
	assert.Equal(t, float64(2), env.Pagination["page"])

	w = srv.do(t, http.MethodGet, "/api/v1/admin/reviews?rating=9", nil, srv.token(t, s.rep))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/admin/reviews?visibility=sometimes", nil, srv.token(t, s.rep))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/admin/reviews", nil, srv.token(t, &s.customer.User))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteReviewEndpoint(t *testing.T) {
	srv := newTestServer(t)
	s := newReviewScenario(t, srv.db)
	path := fmt.Sprintf("/api/v1/admin/reviews/%d", s.bad.ID)

	w := srv.do(t, http.MethodDelete, path, nil, srv.token(t, s.rep))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(t, http.MethodDelete, path, nil, srv.token(t, s.admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	avg, count := barberRating(t, srv.db, s.barber.ID)
	assert.Equal(t, 5.0, avg)
	assert.Equal(t, 1, count)

	var audits []models.ReviewAuditLog
	require.NoError(t, srv.db.Where("review_id = ?", s.bad.ID).Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, models.AuditDelete, audits[0].Action)

	w = srv.do(t, http.MethodDelete, path, nil, srv.token(t, s.admin))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateReviewEndpoint(t *testing.T) {
	srv := newTestServer(t)
	barber := testutil.CreateBarber(t, srv.db, "Tunde", "tunde@example.com", "Lagos")
	customer := testutil.CreateCustomer(t, srv.db, "Ada", "ada@example.com")
	order := testutil.CreateOrder(t, srv.db, testutil.OrderFixture{Customer: customer, Barber: barber, Status: models.OrderCompleted, JobStatus: models.JobCompleted})
	open := testutil.CreateOrder(t, srv.db, testutil.OrderFixture{Customer: customer, Barber: barber})
	token := srv.token(t, &customer.User)

	w := srv.do(t, http.MethodPost, "/api/v1/reviews", map[string]interface{}{"orderId": order.ID, "rating": 6}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/reviews", map[string]interface{}{"orderId": open.ID, "rating": 4}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code, "only completed orders can be reviewed")

	w = srv.do(t, http.MethodPost, "/api/v1/reviews", map[string]interface{}{"orderId": order.ID, "rating": 4, "comment": "Sharp fade"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var review models.Review
	decodeData(t, w, &review)
	assert.True(t, review.IsVisible)
	assert.Equal(t, models.ReviewNew, review.Status)

	avg, count := barberRating(t, srv.db, barber.ID)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 1, count)

	w = srv.do(t, http.MethodPost, "/api/v1/reviews", map[string]interface{}{"orderId": order.ID, "rating": 5}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "REVIEW_EXISTS", decode(t, w).Error.Code)
}
