package core

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/render/htmlview"
)

// Session is one live grid with its HTML presenter.
type Session struct {
	ID      string
	Name    string
	Created time.Time
	Lang    string

	clientIP  string
	userAgent string
	log       *slog.Logger

	mu       sync.Mutex
	lastUsed time.Time
	closed   bool
	version  int
	grid     *grid.Grid
	view     *htmlview.Presenter
}

// SessionInfo summarizes a session for listings.
type SessionInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Lang      string    `json:"lang"`
	Created   time.Time `json:"created"`
	LastUsed  time.Time `json:"lastUsed"`
	Records   int       `json:"records"`
	Visible   int       `json:"visible"`
	ClientIP  string    `json:"clientIp,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// Do runs fn with exclusive access to the grid.
func (s *Session) Do(fn func(g *grid.Grid) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionNotFound
	}
	s.lastUsed = time.Now()
	return fn(s.grid)
}

// dispatch runs debounced grid callbacks under the session lock.
func (s *Session) dispatch(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	fn()
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.grid.Close()
}

// LastUsed returns the time of the last Do call.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Info returns a summary of the session.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionInfo{
		ID:        s.ID,
		Name:      s.Name,
		Lang:      s.Lang,
		Created:   s.Created,
		LastUsed:  s.lastUsed,
		Records:   s.grid.Len(),
		Visible:   len(s.grid.VisibleItems()),
		ClientIP:  s.clientIP,
		UserAgent: s.userAgent,
	}
}

func (s *Session) hooks() grid.Hooks {
	return grid.Hooks{
		OnSortChanged: func(columnID string, direction int) {
			s.version++
			s.log.Debug("sort changed", "column", columnID, "direction", direction)
		},
		OnFilterChanged: func() {
			s.version++
			s.log.Debug("filter changed")
		},
		OnRecordEditFinished: func(id, columnID, value string) bool {
			s.version++
			s.log.Info("record edited", "record", id, "column", columnID)
			return true
		},
	}
}

// CellView is one rendered cell.
type CellView struct {
	Column string            `json:"column"`
	Text   string            `json:"text"`
	Style  map[string]string `json:"style,omitempty"`
}

// RowView is one rendered row in display order.
type RowView struct {
	ID      string     `json:"id"`
	Detail  bool       `json:"detail,omitempty"`
	Cells   []CellView `json:"cells,omitempty"`
	Content string     `json:"content,omitempty"`
	Editing string     `json:"editing,omitempty"`
}

// EditorView describes the open inline editor.
type EditorView struct {
	RecordID string             `json:"recordId"`
	ColumnID string             `json:"columnId"`
	Kind     string             `json:"kind"`
	Value    string             `json:"value"`
	Options  []grid.FilterEntry `json:"options,omitempty"`
}

// Snapshot is the rendered state of a session.
type Snapshot struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Version    int          `json:"version"`
	Columns    []string     `json:"columns"`
	SortColumn string       `json:"sortColumn,omitempty"`
	SortOrder  int          `json:"sortOrder,omitempty"`
	Filters    grid.Filters `json:"filters"`
	Rows       []RowView    `json:"rows"`
	Editor     *EditorView  `json:"editor,omitempty"`
}

// NewEditorView converts an editor, returning nil for nil.
func NewEditorView(ed *grid.Editor) *EditorView {
	if ed == nil {
		return nil
	}
	return &EditorView{
		RecordID: ed.RecordID,
		ColumnID: ed.ColumnID,
		Kind:     ed.Kind.String(),
		Value:    ed.Value,
		Options:  ed.Options,
	}
}

// Apply runs fn and returns the snapshot taken under the same lock.
func (s *Session) Apply(fn func(g *grid.Grid) error) (Snapshot, error) {
	var snap Snapshot
	err := s.Do(func(g *grid.Grid) error {
		if err := fn(g); err != nil {
			return err
		}
		snap = s.snapshotLocked(g)
		return nil
	})
	return snap, err
}

// Snapshot returns the rendered rows and view state.
func (s *Session) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.Do(func(g *grid.Grid) error {
		snap = s.snapshotLocked(g)
		return nil
	})
	return snap, err
}

func (s *Session) snapshotLocked(g *grid.Grid) Snapshot {
	col, dir := g.SortParams()
	snap := Snapshot{
		ID:         s.ID,
		Name:       s.Name,
		Version:    s.version,
		Columns:    g.DisplayedColumns(),
		SortColumn: col,
		SortOrder:  dir,
		Filters:    g.FilterSettings(),
		Rows:       []RowView{},
		Editor:     NewEditorView(g.Editor()),
	}
	for _, r := range s.view.Rows() {
		rv := RowView{ID: r.ID, Detail: r.Detail, Editing: r.EditorColumn}
		if r.Detail {
			rv.Content = s.view.DetailText(r)
		}
		for _, c := range r.Cells {
			rv.Cells = append(rv.Cells, CellView{Column: c.ColumnID, Text: c.Text, Style: c.Style})
		}
		snap.Rows = append(snap.Rows, rv)
	}
	return snap
}

// RenderTable writes the grid table as an HTML fragment.
func (s *Session) RenderTable(ctx context.Context, w io.Writer) error {
	return s.Do(func(*grid.Grid) error {
		return s.view.Table(s.ID).Render(ctx, w)
	})
}

// RenderPage writes a standalone HTML page with the grid.
func (s *Session) RenderPage(ctx context.Context, w io.Writer) error {
	return s.Do(func(*grid.Grid) error {
		return s.view.Page(s.Name, s.ID).Render(ctx, w)
	})
}
