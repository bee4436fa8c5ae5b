// AngelaMos | 2026
// seed_test.go

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/pulse-crm/internal/auth"
	"github.com/pulsecrm/pulse-crm/internal/lead"
)

func TestFakeLead_IsValid(t *testing.T) {
	f := gofakeit.New(42)

	for i := 0; i < 20; i++ {
		req := fakeLead(f)
		assert.NotEmpty(t, req.Name)
		assert.Contains(t, req.Email, "@")
		assert.True(t, lead.IsValidStatus(req.Status), req.Status)
	}
}

func TestFakeLead_SeedIsDeterministic(t *testing.T) {
	a := fakeLead(gofakeit.New(7))
	b := fakeLead(gofakeit.New(7))
	assert.Equal(t, a, b)
}

func TestLeadsSeed(t *testing.T) {
	var created atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(auth.AuthResponse{
			ID: "user-1", Email: "bob@example.com", Name: "Bob",
			Role: "SALES_EXECUTIVE", Token: "tok", ExpiresAt: time.Now().Add(time.Hour),
		})
	})
	mux.HandleFunc("POST /api/leads", func(w http.ResponseWriter, r *http.Request) {
		var req lead.CreateLeadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		created.Add(1)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(lead.LeadResponse{
			ID: "lead-x", Name: req.Name, Status: req.Status, OwnerID: "user-1",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	session := filepath.Join(t.TempDir(), "session.json")
	_, err := run(t, "--api", srv.URL, "--session", session,
		"login", "--email", "bob@example.com", "--password", "pw")
	require.NoError(t, err)

	out, err := run(t, "--api", srv.URL, "--session", session,
		"leads", "seed", "--count", "3", "--seed", "1")
	require.NoError(t, err)

	assert.Equal(t, int32(3), created.Load())
	assert.Equal(t, 3, strings.Count(out, "lead-x"))
}

func TestLeadsSeed_RejectsNonPositiveCount(t *testing.T) {
	_, err := run(t, "--session", filepath.Join(t.TempDir(), "s.json"),
		"leads", "seed", "--count", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--count")
}
