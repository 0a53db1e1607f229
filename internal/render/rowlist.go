// Package render holds the view model shared by the grid presenters: an
// ordered list of rows that applies the grid's row-handle operations.
package render

import (
	"container/list"
	"strings"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// Row is one rendered row. Detail rows carry Content instead of cells.
type Row struct {
	ID      string
	Detail  bool
	Cells   []grid.Cell
	Span    int
	Content string

	// EditorColumn is the column with an open inline editor, "" if none.
	EditorColumn string
	Editor       *grid.Editor

	elem *list.Element
}

// Editing reports whether the row shows an inline editor.
func (r *Row) Editing() bool { return r.EditorColumn != "" }

// RowList keeps rows in display order. It implements grid.Presenter and
// grid.EditorPresenter.
type RowList struct {
	header []grid.HeaderCell
	rows   *list.List

	// DetailContent supplies the text of detail rows at render time. When
	// nil, Row.Content is used.
	DetailContent func(id string) string
}

func NewRowList() *RowList {
	return &RowList{rows: list.New()}
}

func (l *RowList) RenderHeader(cells []grid.HeaderCell) {
	l.header = append(l.header[:0], cells...)
}

func (l *RowList) CreateRow(id string, cells []grid.Cell) grid.Handle {
	r := &Row{ID: id, Cells: cells}
	r.elem = l.rows.PushBack(r)
	return r
}

func (l *RowList) UpdateRow(h grid.Handle, cells []grid.Cell) {
	if r, ok := h.(*Row); ok {
		r.Cells = cells
	}
}

func (l *RowList) CreateDetail(id string, span int) grid.Handle {
	r := &Row{ID: id, Detail: true, Span: span}
	r.elem = l.rows.PushBack(r)
	return r
}

// MoveAfter moves h behind after, or to the front when after is nil.
func (l *RowList) MoveAfter(h, after grid.Handle) {
	r, ok := h.(*Row)
	if !ok || r.elem == nil {
		return
	}
	if after == nil {
		l.rows.MoveToFront(r.elem)
		return
	}
	a, ok := after.(*Row)
	if !ok || a.elem == nil || a == r {
		return
	}
	l.rows.MoveAfter(r.elem, a.elem)
}

func (l *RowList) Destroy(h grid.Handle) {
	r, ok := h.(*Row)
	if !ok || r.elem == nil {
		return
	}
	l.rows.Remove(r.elem)
	r.elem = nil
}

func (l *RowList) ShowEditor(row grid.Handle, columnID string, ed *grid.Editor) {
	if r, ok := row.(*Row); ok {
		r.EditorColumn = columnID
		r.Editor = ed
	}
}

func (l *RowList) HideEditor(row grid.Handle, _ string) {
	if r, ok := row.(*Row); ok {
		r.EditorColumn = ""
		r.Editor = nil
	}
}

// Header returns the header cells of the last RenderHeader call.
func (l *RowList) Header() []grid.HeaderCell {
	return l.header
}

// Rows returns the rows in display order.
func (l *RowList) Rows() []*Row {
	out := make([]*Row, 0, l.rows.Len())
	for e := l.rows.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Row))
	}
	return out
}

// DetailText returns the text of a detail row.
func (l *RowList) DetailText(r *Row) string {
	if l.DetailContent != nil {
		return l.DetailContent(r.ID)
	}
	return r.Content
}

// Summary renders a record as "label: value" pairs in column order.
func Summary(rec grid.Record, columns []grid.Column) string {
	var b strings.Builder
	for _, c := range columns {
		if b.Len() > 0 {
			b.WriteString("  ")
		}
		label := c.Title
		if label == "" {
			label = c.ID
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(grid.ValueString(rec[c.ID]))
	}
	return b.String()
}

// Len returns the number of rows, detail rows included.
func (l *RowList) Len() int {
	return l.rows.Len()
}
