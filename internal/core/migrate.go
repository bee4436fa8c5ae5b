// AngelaMos | 2026
// migrate.go

package core

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies every embedded migration in file name order. The
// statements are idempotent, so running it on each boot is safe.
func Migrate(ctx context.Context, db DBTX) error {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		body, readErr := migrationFS.ReadFile("migrations/" + name)
		if readErr != nil {
			return fmt.Errorf("read migration %s: %w", name, readErr)
		}

		if _, execErr := db.ExecContext(ctx, string(body)); execErr != nil {
			return fmt.Errorf("apply migration %s: %w", name, execErr)
		}
	}

	return nil
}
