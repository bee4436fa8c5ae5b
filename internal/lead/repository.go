// AngelaMos | 2026
// repository.go

package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pulsecrm/pulse-crm/internal/core"
)

// ActivityPurger removes a lead's activities inside the caller's transaction.
type ActivityPurger interface {
	DeleteByLead(ctx context.Context, db core.DBTX, leadID string) (int64, error)
}

type Repository interface {
	List(ctx context.Context) ([]LeadWithOwner, error)
	GetByID(ctx context.Context, id string) (*LeadWithOwner, error)
	Create(ctx context.Context, lead *Lead) (*LeadWithOwner, error)
	Update(ctx context.Context, id string, patch Patch) (*UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db         core.TxDB
	activities ActivityPurger
}

func NewRepository(db core.TxDB, activities ActivityPurger) Repository {
	return &repository{db: db, activities: activities}
}

const selectLeadWithOwner = `
	SELECT l.id, l.name, l.email, l.company, l.status, l.owner_id,
	       l.created_at, l.updated_at,
	       u.name AS owner_name, u.email AS owner_email
	FROM leads l
	JOIN users u ON u.id = l.owner_id`

func (r *repository) List(ctx context.Context) ([]LeadWithOwner, error) {
	query := selectLeadWithOwner + `
	ORDER BY l.created_at DESC, l.id`

	leads := []LeadWithOwner{}
	if err := r.db.SelectContext(ctx, &leads, query); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	return leads, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*LeadWithOwner, error) {
	return getWithOwner(ctx, r.db, id)
}

func getWithOwner(
	ctx context.Context,
	db core.DBTX,
	id string,
) (*LeadWithOwner, error) {
	query := selectLeadWithOwner + `
	WHERE l.id = $1`

	var lead LeadWithOwner
	err := db.GetContext(ctx, &lead, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get lead: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}

	return &lead, nil
}

func (r *repository) Create(
	ctx context.Context,
	lead *Lead,
) (*LeadWithOwner, error) {
	query := `
		WITH inserted AS (
			INSERT INTO leads (id, name, email, company, status, owner_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		)
		SELECT i.id, i.name, i.email, i.company, i.status, i.owner_id,
		       i.created_at, i.updated_at,
		       u.name AS owner_name, u.email AS owner_email
		FROM inserted i
		JOIN users u ON u.id = i.owner_id`

	var created LeadWithOwner
	err := r.db.GetContext(ctx, &created, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Company,
		lead.Status,
		lead.OwnerID,
	)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return nil, fmt.Errorf("create lead: owner: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("create lead: %w", err)
	}

	return &created, nil
}

// Update locks the row, applies patch and returns both versions, so the
// status edge is judged against what was committed before this write.
func (r *repository) Update(
	ctx context.Context,
	id string,
	patch Patch,
) (*UpdateResult, error) {
	var result UpdateResult

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		lockQuery := `
			SELECT id, name, email, company, status, owner_id,
			       created_at, updated_at
			FROM leads
			WHERE id = $1
			FOR UPDATE`

		err := tx.GetContext(ctx, &result.Previous, lockQuery, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update lead: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update lead: %w", err)
		}

		next := result.Previous
		patch.Apply(&next)

		updateQuery := `
			UPDATE leads
			SET name = $2, email = $3, company = $4, status = $5,
			    updated_at = NOW()
			WHERE id = $1`

		if _, err := tx.ExecContext(ctx, updateQuery,
			id,
			next.Name,
			next.Email,
			next.Company,
			next.Status,
		); err != nil {
			return fmt.Errorf("update lead: %w", err)
		}

		current, err := getWithOwner(ctx, tx, id)
		if err != nil {
			return err
		}
		result.Current = *current

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Delete removes the lead and all of its activities atomically.
func (r *repository) Delete(ctx context.Context, id string) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var lockedID string
		err := tx.GetContext(ctx, &lockedID,
			`SELECT id FROM leads WHERE id = $1 FOR UPDATE`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("delete lead: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("delete lead: %w", err)
		}

		if _, err := r.activities.DeleteByLead(ctx, tx, id); err != nil {
			return fmt.Errorf("delete lead activities: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete lead: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete lead: %w", err)
		}

		if rows == 0 {
			return fmt.Errorf("delete lead: %w", core.ErrNotFound)
		}

		return nil
	})
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM leads WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check lead exists: %w", err)
	}

	return exists, nil
}

type statusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM leads
		GROUP BY status`

	var rows []statusCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count leads by status: %w", err)
	}

	counts := make(map[string]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
