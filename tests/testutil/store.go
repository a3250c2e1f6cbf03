package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/server"
	"github.com/nhle/mailpane/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied,
// including the seed mailbox. It automatically closes the store when the
// test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// TestServerConfig is the server configuration used by NewTestServer.
func TestServerConfig() model.ServerConfig {
	return model.ServerConfig{
		CORSOrigins: []string{"http://localhost:3000"},
		OwnerName:   "Richard Brown",
		OwnerEmail:  "richard@example.com",
	}
}

// NewTestServer starts the mail API over a fresh test store.
func NewTestServer(t *testing.T) (*httptest.Server, *store.SQLiteStore) {
	t.Helper()
	return NewTestServerWithConfig(t, TestServerConfig())
}

// NewTestServerWithConfig is NewTestServer with an explicit config.
func NewTestServerWithConfig(t *testing.T, cfg model.ServerConfig) (*httptest.Server, *store.SQLiteStore) {
	t.Helper()

	st := NewTestStore(t)
	srv := httptest.NewServer(server.New(st, cfg).Handler())
	t.Cleanup(srv.Close)

	return srv, st
}
