//go:build integration

// Package testdb starts a disposable PostgreSQL container for integration
// tests and migrates it to the current schema.
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    repos := repository.New(tdb.Query)
//	}
package testdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/marshallshelly/jokes-api/internal/config"
	"github.com/marshallshelly/jokes-api/internal/database"
	"github.com/marshallshelly/jokes-api/internal/logging"
	"github.com/marshallshelly/pebble-orm/pkg/builder"
	"github.com/marshallshelly/pebble-orm/pkg/runtime"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Tables in the jokes schema, children first.
var Tables = []string{"audience_jokes", "jokes", "audiences", "categories"}

type DB struct {
	DSN      string
	Runtime  *runtime.DB
	Query    *builder.DB
	Migrator *database.Migrator
}

// New starts a container, connects and applies every embedded migration.
// The container is terminated when the test finishes.
func New(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := database.Connect(ctx, config.DatabaseConfig{URL: connStr, MaxConns: 5})
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(db.Close)

	migs, err := database.LoadMigrations("")
	if err != nil {
		t.Fatalf("Failed to load migrations: %v", err)
	}
	migrator := database.NewMigrator(db.Pool(), migs, logging.Discard())
	if _, err := migrator.Up(ctx, 0); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return &DB{
		DSN:      connStr,
		Runtime:  db,
		Query:    builder.New(db),
		Migrator: migrator,
	}
}

// Truncate empties every table and restarts identity sequences.
func (d *DB) Truncate(t *testing.T) {
	t.Helper()
	if _, err := d.Runtime.Exec(context.Background(), "TRUNCATE audience_jokes, jokes, audiences, categories RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("Failed to truncate: %v", err)
	}
}

// Count returns the number of rows in table.
func (d *DB) Count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	if err := d.Runtime.QueryRow(context.Background(), fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
