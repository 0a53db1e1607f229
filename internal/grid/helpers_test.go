package grid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"testing"
)

// fakeRow is a row or detail handle of fakePresenter.
type fakeRow struct {
	id      string
	detail  bool
	cells   []Cell
	updates int
}

// fakePresenter keeps rows in a slice in view order.
type fakePresenter struct {
	list    []*fakeRow
	header  []HeaderCell
	editors map[*fakeRow]string
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{editors: make(map[*fakeRow]string)}
}

func (p *fakePresenter) RenderHeader(cells []HeaderCell) { p.header = cells }

func (p *fakePresenter) CreateRow(id string, cells []Cell) Handle {
	r := &fakeRow{id: id, cells: cells}
	p.list = append(p.list, r)
	return r
}

func (p *fakePresenter) UpdateRow(h Handle, cells []Cell) {
	r := h.(*fakeRow)
	r.cells = cells
	r.updates++
}

func (p *fakePresenter) CreateDetail(id string, _ int) Handle {
	r := &fakeRow{id: id, detail: true}
	p.list = append(p.list, r)
	return r
}

func (p *fakePresenter) MoveAfter(h, after Handle) {
	r := h.(*fakeRow)
	p.remove(r)
	if after == nil {
		p.list = slices.Insert(p.list, 0, r)
		return
	}
	i := slices.Index(p.list, after.(*fakeRow))
	p.list = slices.Insert(p.list, i+1, r)
}

func (p *fakePresenter) Destroy(h Handle) {
	p.remove(h.(*fakeRow))
}

func (p *fakePresenter) remove(r *fakeRow) {
	if i := slices.Index(p.list, r); i >= 0 {
		p.list = slices.Delete(p.list, i, i+1)
	}
}

func (p *fakePresenter) ShowEditor(row Handle, columnID string, _ *Editor) {
	p.editors[row.(*fakeRow)] = columnID
}

func (p *fakePresenter) HideEditor(row Handle, _ string) {
	delete(p.editors, row.(*fakeRow))
}

// order renders the view as ids, detail rows suffixed with "+".
func (p *fakePresenter) order() []string {
	out := make([]string, len(p.list))
	for i, r := range p.list {
		out[i] = r.id
		if r.detail {
			out[i] += "+"
		}
	}
	return out
}

func (p *fakePresenter) row(id string) *fakeRow {
	for _, r := range p.list {
		if r.id == id && !r.detail {
			return r
		}
	}
	return nil
}

func (p *fakePresenter) cellText(id, columnID string) string {
	r := p.row(id)
	if r == nil {
		return ""
	}
	for _, c := range r.cells {
		if c.ColumnID == columnID {
			return c.Text
		}
	}
	return ""
}

// memStore is an in-memory Store that can be told to fail.
type memStore struct {
	data map[string]string
	fail bool
	sets int
}

func newMemStore() *memStore { return &memStore{data: make(map[string]string)} }

func (s *memStore) Get(_ context.Context, key string) (string, bool, error) {
	if s.fail {
		return "", false, errors.New("store down")
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	if s.fail {
		return errors.New("store down")
	}
	s.sets++
	s.data[key] = value
	return nil
}

// deletingStore adds Delete to memStore.
type deletingStore struct {
	*memStore
	deleted []string
}

func (s *deletingStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.data, key)
	return nil
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testColumns() []Column {
	return []Column{
		{ID: "name", Title: "Name"},
		{ID: "status", Title: "Status", Filter: []string{"A", "B"}},
		{ID: "amount", Title: "Amount", Filter: "number"},
		{ID: "email", Title: "Email", Filter: "text"},
	}
}

func newTestGrid(t *testing.T, opts Options) (*Grid, *fakePresenter) {
	t.Helper()
	p := newFakePresenter()
	opts.Presenter = p
	if opts.Logger == nil {
		opts.Logger = discardLogger
	}
	g := New(opts)
	g.SetColumns(testColumns())
	return g, p
}

func records(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{"id": i + 1, "name": fmt.Sprintf("r%d", i+1)}
	}
	return out
}

func assertOrder(t *testing.T, p *fakePresenter, want ...string) {
	t.Helper()
	if got := p.order(); !slices.Equal(got, want) {
		t.Errorf("view order = %v, want %v", got, want)
	}
}
