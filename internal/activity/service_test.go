// AngelaMos | 2026
// service_test.go

package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/pulse-crm/internal/core"
)

type mockRepository struct {
	listForLeadFn  func(ctx context.Context, leadID string) ([]ActivityWithUser, error)
	createFn       func(ctx context.Context, activity *Activity) (*ActivityWithUser, error)
	deleteByLeadFn func(ctx context.Context, db core.DBTX, leadID string) (int64, error)
	created        []*Activity
}

func (m *mockRepository) ListForLead(ctx context.Context, leadID string) ([]ActivityWithUser, error) {
	if m.listForLeadFn != nil {
		return m.listForLeadFn(ctx, leadID)
	}
	return []ActivityWithUser{}, nil
}

func (m *mockRepository) Create(ctx context.Context, a *Activity) (*ActivityWithUser, error) {
	m.created = append(m.created, a)
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return &ActivityWithUser{
		Activity:  *a,
		UserName:  "Alice",
		UserEmail: "alice@example.com",
	}, nil
}

func (m *mockRepository) DeleteByLead(ctx context.Context, db core.DBTX, leadID string) (int64, error) {
	if m.deleteByLeadFn != nil {
		return m.deleteByLeadFn(ctx, db, leadID)
	}
	return 0, nil
}

type mockLeadLookup struct {
	existsFn func(ctx context.Context, id string) (bool, error)
	calls    int
}

func (m *mockLeadLookup) Exists(ctx context.Context, id string) (bool, error) {
	m.calls++
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

type recordingBus struct {
	types []string
}

func (b *recordingBus) Broadcast(_ context.Context, eventType string, _ any) {
	b.types = append(b.types, eventType)
}

func TestService_Append(t *testing.T) {
	repo := &mockRepository{}
	bus := &recordingBus{}
	svc := NewService(repo, &mockLeadLookup{}, bus)

	leadID := uuid.NewString()
	created, err := svc.Append(context.Background(), CreateActivityRequest{
		Type:    TypeCall,
		Content: "Discussed pricing",
		LeadID:  leadID,
	}, "user-1")

	require.NoError(t, err)
	assert.Equal(t, TypeCall, created.Type)
	assert.Equal(t, leadID, created.LeadID)
	assert.Equal(t, "user-1", created.UserID)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{EventActivityCreated}, bus.types)
}

func TestService_Append_InvalidTypeTouchesNothing(t *testing.T) {
	repo := &mockRepository{}
	leads := &mockLeadLookup{}
	bus := &recordingBus{}
	svc := NewService(repo, leads, bus)

	_, err := svc.Append(context.Background(), CreateActivityRequest{
		Type:   "INVALID",
		LeadID: uuid.NewString(),
	}, "user-1")

	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, repo.created)
	assert.Zero(t, leads.calls)
	assert.Empty(t, bus.types)
}

func TestService_Append_MissingLead(t *testing.T) {
	tests := []struct {
		name   string
		leadID string
	}{
		{"malformed id", "lead-1"},
		{"unknown id", uuid.NewString()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{}
			svc := NewService(repo, &mockLeadLookup{
				existsFn: func(context.Context, string) (bool, error) {
					return false, nil
				},
			}, nil)

			_, err := svc.Append(context.Background(), CreateActivityRequest{
				Type:   TypeNote,
				LeadID: tt.leadID,
			}, "user-1")

			assert.ErrorIs(t, err, core.ErrNotFound)
			assert.Empty(t, repo.created)
		})
	}
}

func TestService_Append_RequiresAuthor(t *testing.T) {
	svc := NewService(&mockRepository{}, &mockLeadLookup{}, nil)

	_, err := svc.Append(context.Background(), CreateActivityRequest{
		Type:   TypeNote,
		LeadID: uuid.NewString(),
	}, "")

	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestService_Append_LookupFailure(t *testing.T) {
	svc := NewService(&mockRepository{}, &mockLeadLookup{
		existsFn: func(context.Context, string) (bool, error) {
			return false, errors.New("db down")
		},
	}, nil)

	_, err := svc.Append(context.Background(), CreateActivityRequest{
		Type:   TypeNote,
		LeadID: uuid.NewString(),
	}, "user-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrNotFound)
}

func TestIsValidType(t *testing.T) {
	for _, typ := range Types {
		assert.True(t, IsValidType(typ), typ)
	}
	assert.False(t, IsValidType("note"))
	assert.False(t, IsValidType("INVALID"))
}
