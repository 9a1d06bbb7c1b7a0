package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain refuses to run the config tests outside GO_ENV=test, since
// Load reads .env files and ConnectDatabase opens whatever DATABASE_URL
// points at.
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "\n"+
			"SAFETY CHECK FAILED: config tests need GO_ENV=test (current %q)\n"+
			"  run them with: GO_ENV=test go test ./config/...\n\n", env)
		os.Exit(1)
	}

	code := m.Run()
	SetConfig(nil)
	os.Exit(code)
}
