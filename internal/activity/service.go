// AngelaMos | 2026
// service.go

package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pulsecrm/pulse-crm/internal/core"
)

const EventActivityCreated = "activity.created"

type LeadLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Broadcaster interface {
	Broadcast(ctx context.Context, eventType string, payload any)
}

type Service struct {
	repo  Repository
	leads LeadLookup
	bus   Broadcaster
}

func NewService(repo Repository, leads LeadLookup, bus Broadcaster) *Service {
	return &Service{
		repo:  repo,
		leads: leads,
		bus:   bus,
	}
}

func (s *Service) ListForLead(
	ctx context.Context,
	leadID string,
) ([]ActivityWithUser, error) {
	return s.repo.ListForLead(ctx, leadID)
}

// Append records a new activity. The type is checked before anything
// touches storage.
func (s *Service) Append(
	ctx context.Context,
	req CreateActivityRequest,
	authorID string,
) (*ActivityWithUser, error) {
	if !IsValidType(req.Type) {
		return nil, fmt.Errorf(
			"append activity: invalid type %q: %w",
			req.Type,
			core.ErrInvalidInput,
		)
	}

	if authorID == "" {
		return nil, fmt.Errorf("append activity: %w", core.ErrUnauthorized)
	}

	if !core.IsValidID(req.LeadID) {
		return nil, fmt.Errorf("append activity: lead: %w", core.ErrNotFound)
	}

	exists, err := s.leads.Exists(ctx, req.LeadID)
	if err != nil {
		return nil, fmt.Errorf("append activity: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("append activity: lead: %w", core.ErrNotFound)
	}

	created, err := s.repo.Create(ctx, &Activity{
		ID:      uuid.New().String(),
		Type:    req.Type,
		Content: req.Content,
		LeadID:  req.LeadID,
		UserID:  authorID,
	})
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Broadcast(ctx, EventActivityCreated, ToActivityResponse(created))
	}

	return created, nil
}
