// AngelaMos | 2026
// service_test.go

package lead

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/pulse-crm/internal/core"
)

type mockRepository struct {
	listFn          func(ctx context.Context) ([]LeadWithOwner, error)
	getByIDFn       func(ctx context.Context, id string) (*LeadWithOwner, error)
	createFn        func(ctx context.Context, lead *Lead) (*LeadWithOwner, error)
	updateFn        func(ctx context.Context, id string, patch Patch) (*UpdateResult, error)
	deleteFn        func(ctx context.Context, id string) error
	existsFn        func(ctx context.Context, id string) (bool, error)
	countByStatusFn func(ctx context.Context) (map[string]int, error)
}

func (m *mockRepository) List(ctx context.Context) ([]LeadWithOwner, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []LeadWithOwner{}, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*LeadWithOwner, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, core.ErrNotFound
}

func (m *mockRepository) Create(ctx context.Context, lead *Lead) (*LeadWithOwner, error) {
	if m.createFn != nil {
		return m.createFn(ctx, lead)
	}
	return &LeadWithOwner{Lead: *lead}, nil
}

func (m *mockRepository) Update(ctx context.Context, id string, patch Patch) (*UpdateResult, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return nil, core.ErrNotFound
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return false, nil
}

func (m *mockRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	if m.countByStatusFn != nil {
		return m.countByStatusFn(ctx)
	}
	return map[string]int{}, nil
}

// memoryRepository keeps leads in a map and applies patches the way the
// SQL repository does.
type memoryRepository struct {
	mockRepository
	mu    sync.Mutex
	leads map[string]Lead
}

func newMemoryRepository() *memoryRepository {
	r := &memoryRepository{leads: map[string]Lead{}}
	r.createFn = func(_ context.Context, l *Lead) (*LeadWithOwner, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.leads[l.ID] = *l
		return withOwner(*l), nil
	}
	r.getByIDFn = func(_ context.Context, id string) (*LeadWithOwner, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		l, ok := r.leads[id]
		if !ok {
			return nil, core.ErrNotFound
		}
		return withOwner(l), nil
	}
	r.updateFn = func(_ context.Context, id string, patch Patch) (*UpdateResult, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		prev, ok := r.leads[id]
		if !ok {
			return nil, core.ErrNotFound
		}
		next := prev
		patch.Apply(&next)
		next.UpdatedAt = time.Now()
		r.leads[id] = next
		return &UpdateResult{Previous: prev, Current: *withOwner(next)}, nil
	}
	return r
}

func withOwner(l Lead) *LeadWithOwner {
	return &LeadWithOwner{
		Lead:       l,
		OwnerName:  "Alice",
		OwnerEmail: "alice@example.com",
	}
}

type recordedEvent struct {
	eventType string
	payload   any
}

type recordingBus struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *recordingBus) Broadcast(_ context.Context, eventType string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{eventType, payload})
}

type observedUpdate struct {
	previous Lead
	current  LeadWithOwner
}

type recordingObserver struct {
	updates []observedUpdate
}

func (o *recordingObserver) LeadUpdated(_ context.Context, previous Lead, current LeadWithOwner) {
	o.updates = append(o.updates, observedUpdate{previous, current})
}

func strPtr(s string) *string {
	return &s
}

func TestService_Create_DefaultsToNew(t *testing.T) {
	bus := &recordingBus{}
	svc := NewService(newMemoryRepository(), bus)

	created, err := svc.Create(context.Background(), CreateLeadRequest{
		Name:    "Acme Deal",
		Company: "Acme",
	}, "user-1")

	require.NoError(t, err)
	assert.Equal(t, StatusNew, created.Status)
	assert.Equal(t, "user-1", created.OwnerID)
	assert.NotEmpty(t, created.ID)

	require.Len(t, bus.events, 1)
	assert.Equal(t, EventLeadCreated, bus.events[0].eventType)
}

func TestService_Create_RequiresOwner(t *testing.T) {
	svc := NewService(newMemoryRepository(), nil)

	_, err := svc.Create(context.Background(), CreateLeadRequest{Name: "x"}, "")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestService_Create_RejectsUnknownStatus(t *testing.T) {
	called := false
	repo := &mockRepository{
		createFn: func(context.Context, *Lead) (*LeadWithOwner, error) {
			called = true
			return nil, nil
		},
	}
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateLeadRequest{
		Name:   "x",
		Status: "PENDING",
	}, "user-1")

	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.False(t, called)
}

func TestService_Update_RejectsUnknownStatus(t *testing.T) {
	repo := &mockRepository{
		updateFn: func(context.Context, string, Patch) (*UpdateResult, error) {
			t.Fatal("repository must not be called")
			return nil, nil
		},
	}
	svc := NewService(repo, nil)

	_, err := svc.Update(context.Background(), "lead-1", Patch{Status: strPtr("CLOSED")})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestService_Update_RejectsBlankName(t *testing.T) {
	repo := &mockRepository{
		updateFn: func(context.Context, string, Patch) (*UpdateResult, error) {
			t.Fatal("repository must not be called")
			return nil, nil
		},
	}
	svc := NewService(repo, nil)

	for _, name := range []string{"", "   "} {
		_, err := svc.Update(context.Background(), "lead-1", Patch{Name: strPtr(name)})
		assert.ErrorIs(t, err, core.ErrInvalidInput, "name %q", name)
	}
}

func TestService_Update_NotFound(t *testing.T) {
	observer := &recordingObserver{}
	bus := &recordingBus{}
	svc := NewService(newMemoryRepository(), bus, observer)

	_, err := svc.Update(context.Background(), "missing", Patch{Name: strPtr("x")})

	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Empty(t, observer.updates)
	assert.Empty(t, bus.events)
}

func TestService_Update_ObserverSeesBeforeAndAfter(t *testing.T) {
	observer := &recordingObserver{}
	bus := &recordingBus{}
	svc := NewService(newMemoryRepository(), bus, observer)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateLeadRequest{
		Name:   "Acme Deal",
		Status: StatusProposal,
	}, "user-1")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, Patch{Status: strPtr(StatusWon)})
	require.NoError(t, err)
	assert.Equal(t, StatusWon, updated.Status)
	assert.Equal(t, "Acme Deal", updated.Name)

	require.Len(t, observer.updates, 1)
	assert.Equal(t, StatusProposal, observer.updates[0].previous.Status)
	assert.Equal(t, StatusWon, observer.updates[0].current.Status)
	assert.Equal(t, "alice@example.com", observer.updates[0].current.OwnerEmail)

	require.Len(t, bus.events, 2)
	assert.Equal(t, EventLeadUpdated, bus.events[1].eventType)
}

func TestService_Update_PartialPatchKeepsOtherFields(t *testing.T) {
	svc := NewService(newMemoryRepository(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateLeadRequest{
		Name:    "Acme Deal",
		Email:   "buyer@acme.test",
		Company: "Acme",
	}, "user-1")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, Patch{Company: strPtr("Acme Corp")})
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", updated.Company)
	assert.Equal(t, "Acme Deal", updated.Name)
	assert.Equal(t, "buyer@acme.test", updated.Email)
	assert.Equal(t, StatusNew, updated.Status)
}

func TestService_Delete(t *testing.T) {
	t.Run("broadcasts on success", func(t *testing.T) {
		bus := &recordingBus{}
		svc := NewService(&mockRepository{}, bus)

		require.NoError(t, svc.Delete(context.Background(), "lead-1"))
		require.Len(t, bus.events, 1)
		assert.Equal(t, EventLeadDeleted, bus.events[0].eventType)
		assert.Equal(t, map[string]string{"id": "lead-1"}, bus.events[0].payload)
	})

	t.Run("propagates not found", func(t *testing.T) {
		bus := &recordingBus{}
		svc := NewService(&mockRepository{
			deleteFn: func(context.Context, string) error {
				return core.ErrNotFound
			},
		}, bus)

		err := svc.Delete(context.Background(), "lead-1")
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.Empty(t, bus.events)
	})
}

func TestService_List_PropagatesErrors(t *testing.T) {
	svc := NewService(&mockRepository{
		listFn: func(context.Context) ([]LeadWithOwner, error) {
			return nil, errors.New("connection reset")
		},
	}, nil)

	_, err := svc.List(context.Background())
	assert.Error(t, err)
}

func TestPatch_Apply(t *testing.T) {
	l := Lead{Name: "a", Email: "a@x.test", Company: "A", Status: StatusNew}

	Patch{}.Apply(&l)
	assert.Equal(t, Lead{Name: "a", Email: "a@x.test", Company: "A", Status: StatusNew}, l)

	Patch{Email: strPtr(""), Status: strPtr(StatusLost)}.Apply(&l)
	assert.Equal(t, "", l.Email)
	assert.Equal(t, StatusLost, l.Status)
	assert.Equal(t, "a", l.Name)
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("won"))
	assert.False(t, IsValidStatus(""))
}
