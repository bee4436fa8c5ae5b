// AngelaMos | 2026
// entity.go

package activity

import (
	"slices"
	"time"
)

const (
	TypeNote         = "NOTE"
	TypeCall         = "CALL"
	TypeMeeting      = "MEETING"
	TypeEmail        = "EMAIL"
	TypeStatusChange = "STATUS_CHANGE"
)

var Types = []string{
	TypeNote,
	TypeCall,
	TypeMeeting,
	TypeEmail,
	TypeStatusChange,
}

func IsValidType(activityType string) bool {
	return slices.Contains(Types, activityType)
}

// Activity is an immutable entry in a lead's history.
type Activity struct {
	ID        string    `db:"id"`
	Type      string    `db:"type"`
	Content   string    `db:"content"`
	LeadID    string    `db:"lead_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type ActivityWithUser struct {
	Activity
	UserName  string `db:"user_name"`
	UserEmail string `db:"user_email"`
}
