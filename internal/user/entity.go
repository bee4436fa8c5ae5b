// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/pulsecrm/pulse-crm/internal/middleware"
)

const (
	RoleAdmin          = middleware.RoleAdmin
	RoleManager        = middleware.RoleManager
	RoleSalesExecutive = middleware.RoleSalesExecutive
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleSalesExecutive:
		return true
	}
	return false
}
