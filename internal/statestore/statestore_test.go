package statestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "g_sort"); err != nil || ok {
		t.Fatalf("Get(missing) = %v, %v; want not found", ok, err)
	}
	if err := s.Set(ctx, "g_sort", `{"sortColumn":"a","sortOrder":1}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "g_sort", `{"sortColumn":"b","sortOrder":-1}`); err != nil {
		t.Fatalf("Set (overwrite): %v", err)
	}
	v, ok, err := s.Get(ctx, "g_sort")
	if err != nil || !ok || v != `{"sortColumn":"b","sortOrder":-1}` {
		t.Errorf("Get = %q, %v, %v", v, ok, err)
	}
	if err := s.Delete(ctx, "g_sort"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "g_sort"); ok {
		t.Error("key still present after Delete")
	}
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "grid.db")
	s, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "grid.db")

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s.Close()

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if v, ok, _ := s.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("Get after reopen = %q, %v", v, ok)
	}
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	s, err := Open(ctx, Options{Kind: KindPostgres, Pool: pool})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"default", Options{}, false},
		{"memory", Options{Kind: KindMemory}, false},
		{"sqlite", Options{Kind: KindSQLite, SQLitePath: filepath.Join(t.TempDir(), "s.db")}, false},
		{"sqlite without path", Options{Kind: KindSQLite}, true},
		{"postgres without pool", Options{Kind: KindPostgres}, true},
		{"unknown", Options{Kind: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
