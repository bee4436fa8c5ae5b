// AngelaMos | 2026
// dto.go

package lead

import (
	"time"
)

type CreateLeadRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=200"`
	Email   string `json:"email"   validate:"omitempty,email,max=255"`
	Company string `json:"company" validate:"max=200"`
	Status  string `json:"status"  validate:"omitempty,oneof=NEW CONTACTED QUALIFIED PROPOSAL WON LOST"`
}

type UpdateLeadRequest struct {
	Name    *string `json:"name"    validate:"omitnil,min=1,max=200"`
	Email   *string `json:"email"   validate:"omitempty,email,max=255"`
	Company *string `json:"company" validate:"omitempty,max=200"`
	Status  *string `json:"status"  validate:"omitnil,oneof=NEW CONTACTED QUALIFIED PROPOSAL WON LOST"`
}

func (r UpdateLeadRequest) ToPatch() Patch {
	return Patch{
		Name:    r.Name,
		Email:   r.Email,
		Company: r.Company,
		Status:  r.Status,
	}
}

type OwnerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LeadResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Company   string        `json:"company"`
	Status    string        `json:"status"`
	OwnerID   string        `json:"ownerId"`
	Owner     OwnerResponse `json:"owner"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type DeleteLeadResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func ToLeadResponse(l *LeadWithOwner) LeadResponse {
	return LeadResponse{
		ID:      l.ID,
		Name:    l.Name,
		Email:   l.Email,
		Company: l.Company,
		Status:  l.Status,
		OwnerID: l.OwnerID,
		Owner: OwnerResponse{
			Name:  l.OwnerName,
			Email: l.OwnerEmail,
		},
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func ToLeadResponseList(leads []LeadWithOwner) []LeadResponse {
	responses := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		responses = append(responses, ToLeadResponse(&l))
	}
	return responses
}
