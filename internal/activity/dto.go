// AngelaMos | 2026
// dto.go

package activity

import (
	"time"
)

// CreateActivityRequest leaves type unchecked so the service owns that rule.
type CreateActivityRequest struct {
	Type    string `json:"type"    validate:"required"`
	Content string `json:"content" validate:"max=5000"`
	LeadID  string `json:"leadId"  validate:"required"`
}

type AuthorResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ActivityResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Content   string         `json:"content"`
	LeadID    string         `json:"leadId"`
	UserID    string         `json:"userId"`
	User      AuthorResponse `json:"user"`
	CreatedAt time.Time      `json:"createdAt"`
}

func ToActivityResponse(a *ActivityWithUser) ActivityResponse {
	return ActivityResponse{
		ID:      a.ID,
		Type:    a.Type,
		Content: a.Content,
		LeadID:  a.LeadID,
		UserID:  a.UserID,
		User: AuthorResponse{
			Name:  a.UserName,
			Email: a.UserEmail,
		},
		CreatedAt: a.CreatedAt,
	}
}

func ToActivityResponseList(activities []ActivityWithUser) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		responses = append(responses, ToActivityResponse(&a))
	}
	return responses
}
