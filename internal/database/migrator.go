package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"trainhub/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrDirty is returned when a previous migration failed half-way.
var ErrDirty = errors.New("database schema is dirty")

// Migrator applies the embedded SQL migrations and records the current
// version in schema_migrations (version, dirty).
type Migrator struct {
	db  *sql.DB
	src source.Driver
}

// NewMigrator reads migrations embedded in the binary.
func NewMigrator(db *sql.DB) (*Migrator, error) {
	return newMigrator(db, migrationFS, "migrations")
}

func newMigrator(db *sql.DB, fsys fs.FS, dir string) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	return &Migrator{db: db, src: src}, nil
}

// Close releases the migration source.
func (m *Migrator) Close() error {
	return m.src.Close()
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	var n int
	err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to check schema_migrations: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := m.db.ExecContext(ctx, `CREATE TABLE schema_migrations (version NUMBER(19) NOT NULL, dirty NUMBER(1) NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	return nil
}

// Version returns the applied version; 0 means nothing is applied.
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, false, err
	}
	var (
		version sql.NullInt64
		dirty   sql.NullBool
	)
	err := m.db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations FETCH FIRST 1 ROWS ONLY`).Scan(&version, &dirty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return uint(version.Int64), dirty.Bool, nil
}

func (m *Migrator) setVersion(ctx context.Context, version uint, dirty bool) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	if version > 0 || dirty {
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (:1, :2)`, int64(version), dirty); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}
	return tx.Commit()
}

// Up applies every pending migration and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	current, dirty, err := m.Version(ctx)
	if err != nil {
		return 0, err
	}
	if dirty {
		return 0, fmt.Errorf("%w at version %d", ErrDirty, current)
	}

	applied := 0
	for {
		var next uint
		if current == 0 {
			next, err = m.src.First()
		} else {
			next, err = m.src.Next(current)
		}
		if errors.Is(err, fs.ErrNotExist) {
			return applied, nil
		}
		if err != nil {
			return applied, fmt.Errorf("failed to find next migration: %w", err)
		}

		r, name, err := m.src.ReadUp(next)
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %d: %w", next, err)
		}
		if err := m.apply(ctx, next, r); err != nil {
			return applied, err
		}
		if err := m.setVersion(ctx, next, false); err != nil {
			return applied, err
		}
		logger.Get().Info("Applied migration", zap.Uint("version", next), zap.String("name", name))
		current = next
		applied++
	}
}

// Down reverts up to steps migrations; steps <= 0 reverts all of them.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	current, dirty, err := m.Version(ctx)
	if err != nil {
		return 0, err
	}
	if dirty {
		return 0, fmt.Errorf("%w at version %d", ErrDirty, current)
	}

	reverted := 0
	for current > 0 && (steps <= 0 || reverted < steps) {
		r, name, err := m.src.ReadDown(current)
		if err != nil {
			return reverted, fmt.Errorf("failed to read down migration %d: %w", current, err)
		}
		if err := m.apply(ctx, current, r); err != nil {
			return reverted, err
		}

		prev, err := m.src.Prev(current)
		if errors.Is(err, fs.ErrNotExist) {
			prev = 0
		} else if err != nil {
			return reverted, fmt.Errorf("failed to find previous migration: %w", err)
		}
		if err := m.setVersion(ctx, prev, false); err != nil {
			return reverted, err
		}
		logger.Get().Info("Reverted migration", zap.Uint("version", current), zap.String("name", name))
		current = prev
		reverted++
	}
	return reverted, nil
}

// Force records version as clean without running anything.
func (m *Migrator) Force(ctx context.Context, version uint) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	return m.setVersion(ctx, version, false)
}

// apply runs one migration file, marking the schema dirty at version until it finishes.
func (m *Migrator) apply(ctx context.Context, version uint, r io.ReadCloser) error {
	defer r.Close()
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	if err := m.setVersion(ctx, version, true); err != nil {
		return err
	}
	for _, stmt := range splitStatements(string(body)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", version, err)
		}
	}
	return nil
}

// splitStatements splits a script on ';'. Oracle rejects a trailing
// semicolon in a single statement, so it is dropped.
func splitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
