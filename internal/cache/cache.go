// Package cache keeps a local SQLite copy of the remote task tables so
// the UI has data immediately after startup, before the first remote
// fetch lands. The remote store is always the source of truth: the
// cache is replaced wholesale after every successful remote operation
// and rows belonging to other users are purged on sign-in.
package cache

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/temperhq/taskcal/internal/model"
)

// Cache is a SQLite-backed snapshot of one user's folders, lists and tasks.
type Cache struct {
	db *sqlx.DB
}

// Open opens (or creates) the cache database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func Open(dbPath string) (*Cache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	c := &Cache{db: db}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (c *Cache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := c.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = c.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := c.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// LoadAll reads the cached collections for one user. Folders and lists
// come back in creation order, tasks newest first, mirroring the remote
// fetch ordering.
func (c *Cache) LoadAll(ctx context.Context, userID string) ([]model.Folder, []model.List, []model.Task, error) {
	var folders []model.Folder
	err := c.db.SelectContext(ctx, &folders,
		"SELECT * FROM folders WHERE user_id = ? ORDER BY created_at ASC", userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading cached folders: %w", err)
	}

	var lists []model.List
	err = c.db.SelectContext(ctx, &lists,
		"SELECT * FROM lists WHERE user_id = ? ORDER BY created_at ASC", userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading cached lists: %w", err)
	}

	var tasks []model.Task
	err = c.db.SelectContext(ctx, &tasks,
		"SELECT * FROM tasks WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading cached tasks: %w", err)
	}

	return folders, lists, tasks, nil
}

// ReplaceAll swaps the cached collections for one user in a single
// transaction.
func (c *Cache) ReplaceAll(
	ctx context.Context,
	userID string,
	folders []model.Folder,
	lists []model.List,
	tasks []model.Task,
) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"tasks", "lists", "folders"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("clearing cached %s: %w", table, err)
		}
	}

	for _, f := range folders {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO folders (id, name, color, user_id, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			f.ID, f.Name, f.Color, f.UserID, f.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching folder %s: %w", f.ID, err)
		}
	}

	for _, l := range lists {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO lists (id, name, folder_id, color, user_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			l.ID, l.Name, l.FolderID, l.Color, l.UserID, l.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching list %s: %w", l.ID, err)
		}
	}

	for _, t := range tasks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, title, completed, list_id, user_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, boolToInt(t.Completed), t.ListID, t.UserID, t.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching task %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// PurgeOtherUsers drops cached rows that belong to anyone but userID.
// Called on sign-in so one account never sees another account's data.
func (c *Cache) PurgeOtherUsers(ctx context.Context, userID string) error {
	for _, table := range []string{"tasks", "lists", "folders"} {
		if _, err := c.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id != ?", userID); err != nil {
			return fmt.Errorf("purging %s: %w", table, err)
		}
	}
	return nil
}

// PurgeAll drops every cached row. Called on sign-out.
func (c *Cache) PurgeAll(ctx context.Context) error {
	for _, table := range []string{"tasks", "lists", "folders"} {
		if _, err := c.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("purging %s: %w", table, err)
		}
	}
	return nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
