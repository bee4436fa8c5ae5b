// AngelaMos | 2026
// main_test.go

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/pulse-crm/internal/auth"
	"github.com/pulsecrm/pulse-crm/internal/dashboard"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeygen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "private.pem")

	out, err := run(t, "keygen", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLeadsStatus_RejectsUnknownStatus(t *testing.T) {
	_, err := run(t, "--session", filepath.Join(t.TempDir(), "s.json"),
		"leads", "status", "lead-1", "DONE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}

func TestLoginThenSummary(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(auth.AuthResponse{
			ID: "user-1", Email: "alice@example.com", Name: "Alice",
			Role: "MANAGER", Token: "tok", ExpiresAt: time.Now().Add(time.Hour),
		})
	})
	mux.HandleFunc("GET /api/dashboard/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(dashboard.NewSummary(map[string]int{"WON": 2, "NEW": 1}))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	session := filepath.Join(t.TempDir(), "session.json")

	out, err := run(t, "--api", srv.URL, "--session", session,
		"login", "--email", "alice@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in as alice@example.com (MANAGER)")

	out, err = run(t, "--api", srv.URL, "--session", session, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "WON")
	assert.Contains(t, out, "TOTAL")
}

func TestSummary_NotSignedIn(t *testing.T) {
	_, err := run(t, "--api", "http://127.0.0.1:1", "--session",
		filepath.Join(t.TempDir(), "none.json"), "summary")
	assert.Error(t, err)
}
