// AngelaMos | 2026
// repository.go

package activity

import (
	"context"
	"fmt"

	"github.com/pulsecrm/pulse-crm/internal/core"
)

// Repository is append-only. DeleteByLead exists for the lead delete
// transaction and takes that transaction as db.
type Repository interface {
	ListForLead(ctx context.Context, leadID string) ([]ActivityWithUser, error)
	Create(ctx context.Context, activity *Activity) (*ActivityWithUser, error)
	DeleteByLead(ctx context.Context, db core.DBTX, leadID string) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) ListForLead(
	ctx context.Context,
	leadID string,
) ([]ActivityWithUser, error) {
	query := `
		SELECT a.id, a.type, a.content, a.lead_id, a.user_id, a.created_at,
		       u.name AS user_name, u.email AS user_email
		FROM activities a
		JOIN users u ON u.id = a.user_id
		WHERE a.lead_id = $1
		ORDER BY a.created_at DESC, a.id`

	activities := []ActivityWithUser{}
	if err := r.db.SelectContext(ctx, &activities, query, leadID); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	return activities, nil
}

func (r *repository) Create(
	ctx context.Context,
	activity *Activity,
) (*ActivityWithUser, error) {
	query := `
		WITH inserted AS (
			INSERT INTO activities (id, type, content, lead_id, user_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		)
		SELECT i.id, i.type, i.content, i.lead_id, i.user_id, i.created_at,
		       u.name AS user_name, u.email AS user_email
		FROM inserted i
		JOIN users u ON u.id = i.user_id`

	var created ActivityWithUser
	err := r.db.GetContext(ctx, &created, query,
		activity.ID,
		activity.Type,
		activity.Content,
		activity.LeadID,
		activity.UserID,
	)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return nil, fmt.Errorf("create activity: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("create activity: %w", err)
	}

	return &created, nil
}

func (r *repository) DeleteByLead(
	ctx context.Context,
	db core.DBTX,
	leadID string,
) (int64, error) {
	if db == nil {
		db = r.db
	}

	result, err := db.ExecContext(ctx,
		`DELETE FROM activities WHERE lead_id = $1`, leadID)
	if err != nil {
		return 0, fmt.Errorf("delete activities: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete activities: %w", err)
	}

	return rows, nil
}
