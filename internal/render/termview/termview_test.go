package termview

import (
	"slices"
	"strings"
	"testing"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/render"
)

func newGrid(t *testing.T) (*grid.Grid, *Presenter) {
	t.Helper()
	p := New(nil)
	g := grid.New(grid.Options{Presenter: p})
	g.SetColumns([]grid.Column{
		{ID: "name", Title: "Name"},
		{ID: "kind", Title: "Kind", Filter: []string{"a", "b"}},
	})
	g.SetRecords([]grid.Record{
		{"id": 1, "name": "zed", "kind": "a"},
		{"id": 2, "name": "amy", "kind": "b"},
	})
	return g, p
}

func TestView(t *testing.T) {
	g, p := newGrid(t)
	g.SetSortParams("name", 1)
	g.SetFilterSettings(grid.Filters{"kind": {"b": "1"}})
	g.PutRecord(grid.Record{"id": 3, "name": "bob", "kind": "a"})

	if got := p.RecordIDs(); !slices.Equal(got, []string{"3", "1"}) {
		t.Errorf("RecordIDs() = %v", got)
	}
	out := p.View(Cursor{RecordID: "1", ColumnID: "name"}, 0)
	for _, want := range []string{"Name ▲", "Kind *", "zed", "bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "amy") {
		t.Errorf("filtered record rendered:\n%s", out)
	}
}

func TestView_DetailAndEditor(t *testing.T) {
	g, p := newGrid(t)
	p.DetailContent = func(id string) string {
		rec, _ := g.Item(id)
		return render.Summary(rec, g.Columns())
	}
	g.ShowItemInfo("2")
	g.CellEditMode("1", "kind")

	out := p.View(Cursor{}, 0)
	if !strings.Contains(out, "‹ a ›") {
		t.Errorf("choice editor missing:\n%s", out)
	}
	if !strings.Contains(out, "Name: amy") {
		t.Errorf("detail row missing:\n%s", out)
	}
}

func TestWindow(t *testing.T) {
	lines := []string{"0", "1", "2", "3", "4", "5"}
	tests := []struct {
		cursor, n int
		want      []string
	}{
		{0, 0, lines},
		{0, 10, lines},
		{0, 2, []string{"0", "1"}},
		{5, 2, []string{"4", "5"}},
		{3, 3, []string{"2", "3", "4"}},
	}
	for _, tt := range tests {
		if got := window(lines, tt.cursor, tt.n); !slices.Equal(got, tt.want) {
			t.Errorf("window(%d, %d) = %v, want %v", tt.cursor, tt.n, got, tt.want)
		}
	}
}

func TestView_NoColumns(t *testing.T) {
	p := New(nil)
	if out := p.View(Cursor{}, 0); !strings.Contains(out, "no_records") {
		t.Errorf("View() = %q", out)
	}
}
