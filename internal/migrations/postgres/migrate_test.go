package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fleetbook/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type boolRow struct {
	value bool
	err   error
}

func (r boolRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*bool)) = r.value
	return nil
}

type mockExecer struct {
	applied map[string]bool
	execs   []string
	execErr func(sql string) error
}

func (m *mockExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.execs = append(m.execs, sql)
	if m.execErr != nil {
		if err := m.execErr(sql); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	if strings.HasPrefix(sql, "INSERT INTO schema_migrations") {
		m.applied[args[0].(string)] = true
	}
	return pgconn.CommandTag{}, nil
}

func (m *mockExecer) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	return boolRow{value: m.applied[args[0].(string)]}
}

func TestMigrations(t *testing.T) {
	names, err := Migrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) == 0 || names[0] != "0001_conflict_store.sql" {
		t.Fatalf("migrations = %v", names)
	}
}

func TestUp(t *testing.T) {
	db := &mockExecer{applied: map[string]bool{}}
	if err := Up(context.Background(), db, logger.Discard()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.applied["0001_conflict_store.sql"] {
		t.Error("migration was not recorded")
	}

	var schema string
	for _, sql := range db.execs {
		if strings.Contains(sql, "CREATE TABLE IF NOT EXISTS bookings") {
			schema = sql
		}
	}
	for _, table := range []string{"resources", "bookings", "booking_coaches", "booking_drivers", "boat_blackout_windows"} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Errorf("schema does not create %s", table)
		}
	}

	// A second run applies nothing new.
	before := len(db.execs)
	if err := Up(context.Background(), db, logger.Discard()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(db.execs) - before; got != 1 {
		t.Errorf("second run executed %d statements, want 1", got)
	}
}

func TestUp_ApplyFailure(t *testing.T) {
	errBoom := errors.New("syntax error")
	db := &mockExecer{
		applied: map[string]bool{},
		execErr: func(sql string) error {
			if strings.Contains(sql, "CREATE TABLE IF NOT EXISTS bookings") {
				return errBoom
			}
			return nil
		},
	}

	err := Up(context.Background(), db, logger.Discard())
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped apply error, got %v", err)
	}
	if len(db.applied) != 0 {
		t.Errorf("failed migration was recorded: %v", db.applied)
	}
}
