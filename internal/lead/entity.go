// AngelaMos | 2026
// entity.go

package lead

import (
	"slices"
	"time"
)

const (
	StatusNew       = "NEW"
	StatusContacted = "CONTACTED"
	StatusQualified = "QUALIFIED"
	StatusProposal  = "PROPOSAL"
	StatusWon       = "WON"
	StatusLost      = "LOST"
)

// Statuses lists every pipeline stage in funnel order.
var Statuses = []string{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusProposal,
	StatusWon,
	StatusLost,
}

func IsValidStatus(status string) bool {
	return slices.Contains(Statuses, status)
}

type Lead struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Company   string    `db:"company"`
	Status    string    `db:"status"`
	OwnerID   string    `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// LeadWithOwner is a lead joined with the user who owns it.
type LeadWithOwner struct {
	Lead
	OwnerName  string `db:"owner_name"`
	OwnerEmail string `db:"owner_email"`
}

// Patch holds the fields of an update; nil fields are left unchanged.
type Patch struct {
	Name    *string
	Email   *string
	Company *string
	Status  *string
}

func (p Patch) Apply(l *Lead) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Company != nil {
		l.Company = *p.Company
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
}

// UpdateResult pairs the row as it was before an update with the row after.
type UpdateResult struct {
	Previous Lead
	Current  LeadWithOwner
}
