// AngelaMos | 2026
// handler_test.go

package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/pulse-crm/internal/core"
	"github.com/pulsecrm/pulse-crm/internal/middleware"
)

func newTestRouter(svc *Service) http.Handler {
	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
				UserID: "user-1",
				Role:   middleware.RoleSalesExecutive,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, auth)
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ListForLead(t *testing.T) {
	leadID := uuid.NewString()
	now := time.Now().UTC()

	repo := &mockRepository{
		listForLeadFn: func(_ context.Context, id string) ([]ActivityWithUser, error) {
			assert.Equal(t, leadID, id)
			return []ActivityWithUser{
				{
					Activity:  Activity{ID: "a2", Type: TypeCall, LeadID: id, UserID: "user-1", CreatedAt: now},
					UserName:  "Alice",
					UserEmail: "alice@example.com",
				},
				{
					Activity:  Activity{ID: "a1", Type: TypeNote, LeadID: id, UserID: "user-1", CreatedAt: now.Add(-time.Minute)},
					UserName:  "Alice",
					UserEmail: "alice@example.com",
				},
			}, nil
		},
	}
	router := newTestRouter(NewService(repo, &mockLeadLookup{}, nil))

	rec := serve(router, http.MethodGet, "/activities/"+leadID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []ActivityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "a2", resp[0].ID)
	assert.Equal(t, "Alice", resp[0].User.Name)
}

func TestHandler_ListForLead_InvalidIDIsEmpty(t *testing.T) {
	repo := &mockRepository{
		listForLeadFn: func(context.Context, string) ([]ActivityWithUser, error) {
			t.Fatal("repository must not be called")
			return nil, nil
		},
	}
	router := newTestRouter(NewService(repo, &mockLeadLookup{}, nil))

	rec := serve(router, http.MethodGet, "/activities/nope", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_Create(t *testing.T) {
	router := newTestRouter(NewService(&mockRepository{}, &mockLeadLookup{}, nil))
	leadID := uuid.NewString()

	rec := serve(router, http.MethodPost, "/activities",
		`{"type":"MEETING","content":"Demo booked","leadId":"`+leadID+`"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp ActivityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, TypeMeeting, resp.Type)
	assert.Equal(t, leadID, resp.LeadID)
	assert.Equal(t, "user-1", resp.UserID)
}

func TestHandler_Create_Errors(t *testing.T) {
	missing := &mockLeadLookup{
		existsFn: func(context.Context, string) (bool, error) { return false, nil },
	}

	tests := []struct {
		name       string
		leads      *mockLeadLookup
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "invalid type",
			leads:      &mockLeadLookup{},
			body:       `{"type":"INVALID","leadId":"` + uuid.NewString() + `"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid activity type",
		},
		{
			name:       "unknown lead",
			leads:      missing,
			body:       `{"type":"NOTE","leadId":"` + uuid.NewString() + `"}`,
			wantStatus: http.StatusNotFound,
			wantMsg:    "lead not found",
		},
		{
			name:       "missing lead id",
			leads:      &mockLeadLookup{},
			body:       `{"type":"NOTE"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "content too long",
			leads:      &mockLeadLookup{},
			body:       `{"type":"NOTE","content":"` + strings.Repeat("x", 5001) + `","leadId":"` + uuid.NewString() + `"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(NewService(&mockRepository{}, tt.leads, nil))

			rec := serve(router, http.MethodPost, "/activities", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body core.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Error.Message)
			}
		})
	}
}
