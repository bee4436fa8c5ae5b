//go:build integration

// AngelaMos | 2026
// repository_integration_test.go

package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/pulse-crm/internal/core"
	"github.com/pulsecrm/pulse-crm/internal/testutil"
	"github.com/pulsecrm/pulse-crm/internal/user"
)

func TestRepository_CreateAndFind(t *testing.T) {
	db := testutil.StartPostgres(t)
	ctx := context.Background()
	repo := user.NewRepository(db)

	u := &user.User{
		ID:           uuid.NewString(),
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Name:         "Alice",
		Role:         user.RoleManager,
	}
	require.NoError(t, repo.Create(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	dup := *u
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.Create(ctx, &dup), core.ErrDuplicateKey)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))
	assert.ErrorIs(t, repo.UpdatePassword(ctx, uuid.NewString(), "x"), core.ErrNotFound)
}

func TestRepository_ListFilters(t *testing.T) {
	db := testutil.StartPostgres(t)
	ctx := context.Background()
	repo := user.NewRepository(db)

	testutil.SeedUser(t, db, "Alice Admin", "alice@example.com", user.RoleAdmin)
	testutil.SeedUser(t, db, "Bob Sales", "bob@example.com", user.RoleSalesExecutive)
	testutil.SeedUser(t, db, "Carol 100%", "carol@example.com", user.RoleSalesExecutive)

	all, err := repo.List(ctx, user.ListUsersParams{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	sales, err := repo.List(ctx, user.ListUsersParams{Role: user.RoleSalesExecutive})
	require.NoError(t, err)
	assert.Len(t, sales, 2)

	found, err := repo.List(ctx, user.ListUsersParams{Search: "ALICE"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice@example.com", found[0].Email)

	literal, err := repo.List(ctx, user.ListUsersParams{Search: "100%"})
	require.NoError(t, err)
	assert.Len(t, literal, 1)
}
