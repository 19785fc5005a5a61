// Package migrate runs the goose SQL migrations under migrations/ and
// scaffolds new ones.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is relative to the repository root, where the binaries run.
const DefaultDir = "pkg/migrate/migrations"

var (
	errNoDB  = errors.New("migrate: nil database")
	errNoDir = errors.New("migrations dir is required")
)

// Run executes a goose command (up, down, redo, status) against db.
func Run(ctx context.Context, db *sql.DB, dir, command string, args ...string) error {
	if db == nil {
		return errNoDB
	}
	if err := goose.SetDialect(string(goose.DialectPostgres)); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// ToVersion migrates up or down until the database sits at version, a
// YYYYMMDDHHMMSS migration prefix.
func ToVersion(ctx context.Context, db *sql.DB, dir, version string) error {
	if db == nil {
		return errNoDB
	}
	target, err := strconv.ParseInt(version, 10, 64)
	if err != nil || target < 0 {
		return fmt.Errorf("invalid migration version %q", version)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(dir))
	if err != nil {
		return fmt.Errorf("load migrations from %s: %w", dir, err)
	}
	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	switch {
	case target > current:
		_, err = provider.UpTo(ctx, target)
	case target < current:
		_, err = provider.DownTo(ctx, target)
	}
	if err != nil {
		return fmt.Errorf("migrate %d -> %d: %w", current, target, err)
	}
	return nil
}
