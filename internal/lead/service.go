// AngelaMos | 2026
// service.go

package lead

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pulsecrm/pulse-crm/internal/core"
)

const (
	EventLeadCreated = "lead.created"
	EventLeadUpdated = "lead.updated"
	EventLeadDeleted = "lead.deleted"
)

// UpdateObserver is told about every committed lead update.
type UpdateObserver interface {
	LeadUpdated(ctx context.Context, previous Lead, current LeadWithOwner)
}

// Broadcaster pushes change events to connected real-time clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, eventType string, payload any)
}

type Service struct {
	repo      Repository
	bus       Broadcaster
	observers []UpdateObserver
}

func NewService(
	repo Repository,
	bus Broadcaster,
	observers ...UpdateObserver,
) *Service {
	return &Service{
		repo:      repo,
		bus:       bus,
		observers: observers,
	}
}

func (s *Service) List(ctx context.Context) ([]LeadWithOwner, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*LeadWithOwner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateLeadRequest,
	ownerID string,
) (*LeadWithOwner, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("create lead: %w", core.ErrUnauthorized)
	}

	status := req.Status
	if status == "" {
		status = StatusNew
	}
	if !IsValidStatus(status) {
		return nil, fmt.Errorf(
			"create lead: invalid status %q: %w",
			status,
			core.ErrInvalidInput,
		)
	}

	created, err := s.repo.Create(ctx, &Lead{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Status:  status,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ctx, EventLeadCreated, ToLeadResponse(created))

	return created, nil
}

// Update applies patch and then runs the observers with the committed
// before and after rows. Observers never affect the result.
func (s *Service) Update(
	ctx context.Context,
	id string,
	patch Patch,
) (*LeadWithOwner, error) {
	if patch.Status != nil && !IsValidStatus(*patch.Status) {
		return nil, fmt.Errorf(
			"update lead: invalid status %q: %w",
			*patch.Status,
			core.ErrInvalidInput,
		)
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("update lead: name is empty: %w", core.ErrInvalidInput)
	}

	ctx, span := core.StartSpan(ctx, "lead.update", core.AttrLeadID.String(id))
	defer span.End()

	result, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	if result.Previous.Status != result.Current.Status {
		core.AddSpanEvent(ctx, "lead_status_changed",
			core.AttrPreviousStatus.String(result.Previous.Status),
			core.AttrLeadStatus.String(result.Current.Status),
		)
	}

	for _, obs := range s.observers {
		obs.LeadUpdated(ctx, result.Previous, result.Current)
	}

	s.broadcast(ctx, EventLeadUpdated, ToLeadResponse(&result.Current))

	return &result.Current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.broadcast(ctx, EventLeadDeleted, map[string]string{"id": id})

	return nil
}

// CountByStatus returns a count for every status, zero included.
func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *Service) broadcast(ctx context.Context, eventType string, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Broadcast(ctx, eventType, payload)
}
