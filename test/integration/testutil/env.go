package testutil

import (
	"os"
	"testing"
	"time"
)

const (
	DefaultReadyTimeout = 30 * time.Second

	EnvServerURL   = "TEST_SERVER_URL"
	EnvDatabaseURL = "TEST_DATABASE_URL"
)

// TestEnv points at a running API and the Postgres database behind it.
type TestEnv struct {
	ServerURL   string
	DatabaseURL string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		ServerURL:   os.Getenv(EnvServerURL),
		DatabaseURL: os.Getenv(EnvDatabaseURL),
	}
}

// Setup skips the test unless both endpoints are configured, then starts
// from an empty database.
func (e *TestEnv) Setup(t *testing.T) (*PostgresHelper, *Client) {
	t.Helper()

	if e.ServerURL == "" || e.DatabaseURL == "" {
		t.Skipf("integration tests need %s and %s", EnvServerURL, EnvDatabaseURL)
	}

	db := NewPostgresHelper(t, e.DatabaseURL)
	db.Truncate(t)

	client := NewClient(e.ServerURL)
	client.WaitForReady(t, DefaultReadyTimeout)

	t.Cleanup(func() {
		db.Truncate(t)
		db.Close()
	})
	return db, client
}
