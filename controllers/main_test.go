package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/config"
	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/services"
	"github.com/sharpfade/barber-booking-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestMain ensures GO_ENV is set to "test" before any handler test touches a database
func TestMain(m *testing.M) {
	env := os.Getenv("GO_ENV")
	if env != "test" {
		fmt.Fprintf(os.Stderr, "SAFETY CHECK FAILED: tests must run with GO_ENV=test (current %q)\n", env)
		os.Exit(1)
	}

	gin.SetMode(gin.TestMode)
	services.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	cfg      *config.Config
	verifier *services.MockPaymentVerifier
	store    *services.MockObjectStore
	deps     *Dependencies
}

// newTestServer wires the real services against a private sqlite database.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := testutil.TestConfig()
	verifier := services.NewMockPaymentVerifier()
	store := services.NewMockObjectStore()

	photos := services.NewPhotoService(db, store, nil)
	outbox := services.NewOutbox(db, nil)
	deps := &Dependencies{
		Config:      cfg,
		DB:          db,
		Auth:        services.NewAuthService(db, cfg, nil),
		Orders:      services.NewOrderService(db, verifier, outbox, cfg, nil),
		Assignments: services.NewAssignmentService(db, outbox, photos, nil),
		Jobs:        services.NewJobService(db, outbox, cfg.AdminEmail, nil),
		Reviews:     services.NewReviewService(db, nil),
		Analytics:   services.NewAnalyticsService(db, nil),
		Staff:       services.NewStaffService(db, photos, nil),
		Photos:      photos,
		Outbox:      outbox,
	}

	return &testServer{
		router:   SetupRouter(deps),
		db:       db,
		cfg:      cfg,
		verifier: verifier,
		store:    store,
		deps:     deps,
	}
}

// token returns a bearer token for user carrying role.
func (s *testServer) token(t *testing.T, user *models.User) string {
	t.Helper()
	return testutil.AccessToken(t, s.cfg, user)
}

// do sends a JSON request. A nil body sends no body; token may be empty.
func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", testutil.BearerHeader(token))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// envelope is the decoded standard response.
type envelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Data       json.RawMessage        `json:"data"`
	Pagination map[string]interface{} `json:"pagination"`
	Error      struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "response should be valid JSON: %s", w.Body.String())
	return env
}

// decodeData unmarshals the data field of a response into dst.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	env := decode(t, w)
	require.True(t, env.Success, "expected success, got %s", w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dst))
}
