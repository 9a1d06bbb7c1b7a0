package testutil

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sharpfade/barber-booking-api/config"
	"github.com/sharpfade/barber-booking-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// RequireTestEnvironmentOrSkip is similar to RequireTestEnvironment but skips the test
// instead of failing it.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Skipf("Skipping test: GO_ENV must be 'test' (current: %q)", env)
	}
}

var dbCounter atomic.Int64

// NewTestDB opens a private in-memory sqlite database with the full schema.
// A single connection keeps every query on the same in-memory database, so
// code running inside a transaction must use the transaction handle.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_busy_timeout=5000", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db), "failed to migrate test database")
	return db
}

// TestConfig returns a configuration suitable for unit and integration tests.
func TestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:        "sqlite://memory",
		Port:               "8080",
		GoEnv:              "test",
		JWTSecret:          "test-access-secret-0123456789abcdef",
		JWTRefreshSecret:   "test-refresh-secret-0123456789abcdef",
		JWTIssuer:          "barber-booking-api",
		JWTAudience:        "barber-booking-clients",
		JWTAccessTTLMin:    60,
		JWTRefreshTTLHours: 168,
		EmailFrom:          "no-reply@barberbooking.local",
		AdminEmail:         "admin@barberbooking.local",
		PaystackSecretKey:  "sk_test_secret",
		PaystackBaseURL:    "https://api.paystack.co",
		AWSRegion:          "us-east-1",
		AWSS3Bucket:        "test-bucket",
		PublicBaseURL:      "http://localhost:3000",
		LogLevel:           "error",
		NotifyPollSeconds:  1,
		NotifyMaxAttempts:  3,
	}
}

// PrintEnvironmentInfo prints the current test environment configuration.
// Useful for debugging test environment issues.
func PrintEnvironmentInfo() {
	fmt.Printf("Test Environment Info:\n")
	fmt.Printf("  GO_ENV: %s\n", os.Getenv("GO_ENV"))
	fmt.Printf("  DATABASE_URL: %s\n", maskDatabaseURL(os.Getenv("DATABASE_URL")))
	fmt.Printf("  PORT: %s\n", os.Getenv("PORT"))
}

// maskDatabaseURL hides credentials in a connection string
func maskDatabaseURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	at := strings.LastIndex(url, "@")
	scheme := strings.Index(url, "://")
	if at < 0 || scheme < 0 || scheme+3 > at {
		return url
	}
	return url[:scheme+3] + "****" + url[at:]
}
