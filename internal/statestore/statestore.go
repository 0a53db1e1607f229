// Package statestore holds the durable key-value stores that persist grid
// view state between sessions.
package statestore

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the grid.Store contract plus lifecycle.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Store kinds accepted by Open.
const (
	KindMemory   = "memory"
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
)

// Options select and configure a store.
type Options struct {
	Kind       string
	Pool       *pgxpool.Pool // postgres
	SQLitePath string        // sqlite
}

// Open builds the store named by opts.Kind and makes sure its table exists.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Kind {
	case "", KindMemory:
		return NewMemory(), nil
	case KindPostgres:
		if opts.Pool == nil {
			return nil, fmt.Errorf("postgres state store requires a database pool")
		}
		s := NewPostgres(opts.Pool)
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case KindSQLite:
		s, err := OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown state store %q", opts.Kind)
	}
}

// Memory is a process-local store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }
