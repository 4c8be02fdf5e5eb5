package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marshallshelly/jokes-api/migrations"
	"github.com/marshallshelly/pebble-orm/pkg/migration"
)

// ErrUnknownVersion is returned when an applied version has no migration source.
var ErrUnknownVersion = errors.New("migration source not found")

// LoadMigrations returns the embedded migrations, or the ones in dir when
// dir is set.
func LoadMigrations(dir string) ([]migration.Migration, error) {
	if dir == "" {
		return migrations.Load()
	}

	generator := migration.NewGenerator(dir)
	files, err := generator.ListMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	migs := make([]migration.Migration, 0, len(files))
	for _, file := range files {
		mig, err := generator.ReadMigration(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration: %w", err)
		}
		migs = append(migs, *mig)
	}
	return migs, nil
}

// Migrator applies and rolls back a fixed, version-ordered migration set
// through pebble's executor.
type Migrator struct {
	executor   *migration.Executor
	migrations []migration.Migration
	logger     *slog.Logger
}

func NewMigrator(pool *pgxpool.Pool, migs []migration.Migration, logger *slog.Logger) *Migrator {
	return &Migrator{
		executor:   migration.NewExecutor(pool, ""),
		migrations: migs,
		logger:     logger,
	}
}

// Migrations returns the known migration set.
func (m *Migrator) Migrations() []migration.Migration {
	return m.migrations
}

// Init creates the schema_migrations table if needed.
func (m *Migrator) Init(ctx context.Context) error {
	if err := m.executor.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	return nil
}

// Status reports every known migration with its recorded state.
func (m *Migrator) Status(ctx context.Context) ([]migration.MigrationRecord, error) {
	if err := m.Init(ctx); err != nil {
		return nil, err
	}
	status, err := m.executor.GetStatus(ctx, m.migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration status: %w", err)
	}
	return status, nil
}

// Pending returns up to steps migrations not yet applied, oldest first.
// steps <= 0 returns all of them.
func (m *Migrator) Pending(ctx context.Context, steps int) ([]migration.Migration, error) {
	if err := m.Init(ctx); err != nil {
		return nil, err
	}

	applied, err := m.executor.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	appliedMap := make(map[string]bool, len(applied))
	for _, rec := range applied {
		appliedMap[rec.Version] = true
	}

	var pending []migration.Migration
	for _, mig := range m.migrations {
		if appliedMap[mig.Version] {
			continue
		}
		pending = append(pending, mig)
		if steps > 0 && len(pending) >= steps {
			break
		}
	}
	return pending, nil
}

// Applied returns up to steps applied migrations, newest first. steps <= 0
// returns all of them.
func (m *Migrator) Applied(ctx context.Context, steps int) ([]migration.Migration, error) {
	if err := m.Init(ctx); err != nil {
		return nil, err
	}

	records, err := m.executor.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	byVersion := make(map[string]migration.Migration, len(m.migrations))
	for _, mig := range m.migrations {
		byVersion[mig.Version] = mig
	}

	var out []migration.Migration
	for i := len(records) - 1; i >= 0; i-- {
		mig, ok := byVersion[records[i].Version]
		if !ok {
			return nil, fmt.Errorf("%w: version %s", ErrUnknownVersion, records[i].Version)
		}
		out = append(out, mig)
		if steps > 0 && len(out) >= steps {
			break
		}
	}
	return out, nil
}

// Up applies up to steps pending migrations and returns the ones applied.
func (m *Migrator) Up(ctx context.Context, steps int) ([]migration.Migration, error) {
	pending, err := m.Pending(ctx, steps)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}

	unlock, err := m.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	done := make([]migration.Migration, 0, len(pending))
	for _, mig := range pending {
		if err := m.executor.Apply(ctx, mig, false); err != nil {
			return done, fmt.Errorf("failed to apply migration %s: %w", mig.Version, err)
		}
		m.logger.Info("migration applied", slog.String("version", mig.Version), slog.String("name", mig.Name))
		done = append(done, mig)
	}
	return done, nil
}

// Down rolls back up to steps applied migrations, newest first, and returns
// the ones rolled back.
func (m *Migrator) Down(ctx context.Context, steps int) ([]migration.Migration, error) {
	applied, err := m.Applied(ctx, steps)
	if err != nil {
		return nil, err
	}
	if len(applied) == 0 {
		return nil, nil
	}

	unlock, err := m.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	done := make([]migration.Migration, 0, len(applied))
	for _, mig := range applied {
		if err := m.executor.Rollback(ctx, mig, false); err != nil {
			return done, fmt.Errorf("failed to rollback migration %s: %w", mig.Version, err)
		}
		m.logger.Info("migration rolled back", slog.String("version", mig.Version), slog.String("name", mig.Name))
		done = append(done, mig)
	}
	return done, nil
}

// DownTo rolls back every applied migration newer than target.
func (m *Migrator) DownTo(ctx context.Context, target string) error {
	if err := m.Init(ctx); err != nil {
		return err
	}

	unlock, err := m.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := m.executor.RollbackTo(ctx, target, m.migrations, false); err != nil {
		return fmt.Errorf("failed to rollback to %s: %w", target, err)
	}
	m.logger.Info("rolled back to version", slog.String("version", target))
	return nil
}

// Apply runs a single migration in the given direction ("up" or "down")
// under the migration lock.
func (m *Migrator) Apply(ctx context.Context, mig migration.Migration, direction string) error {
	unlock, err := m.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	switch direction {
	case "up":
		return m.executor.Apply(ctx, mig, false)
	case "down":
		return m.executor.Rollback(ctx, mig, false)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
}

func (m *Migrator) lock(ctx context.Context) (func(), error) {
	if err := m.executor.Lock(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	return func() {
		if err := m.executor.Unlock(context.WithoutCancel(ctx)); err != nil {
			m.logger.Debug("migration unlock", slog.Any("error", err))
		}
	}, nil
}
