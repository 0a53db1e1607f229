package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/i18n"
	"github.com/JonMunkholm/datagrid/internal/render"
	"github.com/JonMunkholm/datagrid/internal/render/htmlview"
)

// Config holds the session settings.
type Config struct {
	MaxSessions    int           // 0 means unlimited
	IdleTimeout    time.Duration // 0 disables eviction
	FilterDebounce time.Duration
	StoreTimeout   time.Duration
	AutoSave       bool
	Catalog        *i18n.Catalog
}

// Service owns the live grid sessions.
type Service struct {
	store    grid.Store
	cfg      Config
	sessions *sessionRegistry
}

// NewService creates a service. store may be nil, which disables persistence.
func NewService(store grid.Store, cfg Config) *Service {
	if cfg.Catalog == nil {
		cfg.Catalog = i18n.DefaultCatalog()
	}
	return &Service{
		store:    store,
		cfg:      cfg,
		sessions: newSessionRegistry(),
	}
}

// SortParams names a sort column and direction (1 ascending, -1 descending).
type SortParams struct {
	Column    string `json:"column"`
	Direction int    `json:"direction"`
}

// CreateParams describe a new grid session. Records accepts a list of
// objects with an "id" field or an object keyed by id.
type CreateParams struct {
	Name    string            `json:"name"`
	Lang    string            `json:"lang,omitempty"`
	Columns []grid.Column     `json:"columns"`
	Records any               `json:"records"`
	Styles  map[string]string `json:"styles,omitempty"`
	Sort    *SortParams       `json:"sort,omitempty"`
	Filters grid.Filters      `json:"filters,omitempty"`
}

// CreateSession builds a grid, loads its persisted view state and
// registers it. The client address in ctx, if any, is kept for listings.
func (s *Service) CreateSession(ctx context.Context, p CreateParams) (*Session, error) {
	styles, err := grid.NewStyles(p.Styles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	tr := s.cfg.Catalog.Translator(p.Lang)

	id := uuid.NewString()
	name := p.Name
	if name == "" {
		name = "grid-" + id[:8]
	}
	now := time.Now()
	sess := &Session{
		ID:        id,
		Name:      name,
		Created:   now,
		Lang:      tr.Lang(),
		clientIP:  ClientIPFromContext(ctx),
		userAgent: UserAgentFromContext(ctx),
		lastUsed:  now,
		log:       slog.Default().With("session", id),
	}

	view := htmlview.New(styles, tr)
	g := grid.New(grid.Options{
		Name:           name,
		Presenter:      view,
		Store:          s.store,
		AutoSave:       s.cfg.AutoSave && s.store != nil,
		StoreTimeout:   s.cfg.StoreTimeout,
		FilterDebounce: s.cfg.FilterDebounce,
		Logger:         sess.log,
		Translator:     tr,
		Styles:         &styles,
		Hooks:          sess.hooks(),
		Dispatch:       sess.dispatch,
	})
	view.DetailContent = func(rid string) string {
		rec, ok := g.Item(rid)
		if !ok {
			return ""
		}
		return render.Summary(rec, g.Columns())
	}
	sess.grid = g
	sess.view = view

	g.SetColumns(p.Columns)
	if p.Sort != nil {
		g.SetSortParams(p.Sort.Column, p.Sort.Direction)
	}
	if p.Filters != nil {
		g.SetFilterSettings(p.Filters)
	}
	g.SetRecords(p.Records)

	if err := s.sessions.add(sess, s.cfg.MaxSessions); err != nil {
		g.Close()
		return nil, err
	}

	slog.Info("grid session created",
		"session", id,
		"grid", name,
		"columns", len(g.ColumnIDs()),
		"records", g.Len(),
		"client_ip", sess.clientIP,
	)
	return sess, nil
}

// Session returns a live session.
func (s *Service) Session(id string) (*Session, error) {
	sess, ok := s.sessions.get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// DeleteSession closes and removes a session.
func (s *Service) DeleteSession(id string) error {
	sess, ok := s.sessions.remove(id)
	if !ok {
		return ErrSessionNotFound
	}
	sess.close()
	slog.Info("grid session deleted", "session", id)
	return nil
}

// Sessions lists the live sessions, oldest first.
func (s *Service) Sessions() []SessionInfo {
	all := s.sessions.all()
	out := make([]SessionInfo, len(all))
	for i, sess := range all {
		out[i] = sess.Info()
	}
	return out
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	return s.sessions.count()
}

// Close closes every session.
func (s *Service) Close() {
	for _, sess := range s.sessions.all() {
		s.sessions.remove(sess.ID)
		sess.close()
	}
}

// sweep closes sessions idle for longer than the idle timeout at now.
func (s *Service) sweep(now time.Time) int {
	if s.cfg.IdleTimeout <= 0 {
		return 0
	}
	evicted := 0
	for _, sess := range s.sessions.all() {
		if now.Sub(sess.LastUsed()) <= s.cfg.IdleTimeout {
			continue
		}
		if _, ok := s.sessions.remove(sess.ID); ok {
			sess.close()
			evicted++
		}
	}
	return evicted
}
