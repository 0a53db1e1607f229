package grid

import (
	"sort"

	"github.com/JonMunkholm/datagrid/internal/datefmt"
)

// Cell is the rendered content of one row cell.
type Cell struct {
	ColumnID string
	Text     string
	Style    map[string]string
	Width    string
	Align    string
}

// CellText returns the display text of rec for a column, exactly as the cell
// renders it. Unknown columns render as "".
func (g *Grid) CellText(rec Record, columnID string) string {
	c, ok := g.cols.column(columnID)
	if !ok {
		return ""
	}
	text, _ := g.formatCell(c, rec)
	return text
}

// formatCell renders one cell: the column renderer if set, the entry label
// for list columns, the formatted date for date columns, the raw value otherwise.
func (g *Grid) formatCell(c *Column, rec Record) (string, map[string]string) {
	if c.Renderer != nil {
		return c.Renderer(rec, c.ID), nil
	}
	spec := g.cols.spec(c.ID)
	if spec == nil {
		return ValueString(rec[c.ID]), nil
	}
	switch spec.Kind {
	case FilterList:
		v, ok := rec[c.ID]
		if !ok || v == nil {
			return "", nil
		}
		e, ok := spec.Entries[ValueString(v)]
		if !ok {
			return "", nil
		}
		return e.Label, e.Style
	case FilterDateRange:
		return datefmt.FormatValue(rec[c.ID], spec.Format), nil
	default:
		return ValueString(rec[c.ID]), nil
	}
}

// cells renders every visible column of rec.
func (g *Grid) cells(rec Record) []Cell {
	recStyle := styleMap(rec[StyleField])
	out := make([]Cell, 0, len(g.cols.visible))
	for _, id := range g.cols.visible {
		c := g.cols.byID[id]
		text, entryStyle := g.formatCell(c, rec)
		out = append(out, Cell{
			ColumnID: id,
			Text:     text,
			Style:    mergeStyles(c.Style, recStyle, entryStyle),
			Width:    c.Width,
			Align:    c.Align,
		})
	}
	return out
}

func mergeStyles(layers ...map[string]string) map[string]string {
	var out map[string]string
	for _, l := range layers {
		for k, v := range l {
			if out == nil {
				out = make(map[string]string)
			}
			out[k] = v
		}
	}
	return out
}

// Compare orders two records by the display text of a column. direction <= 0
// sorts descending. Equal texts compare as 0 so a stable sort keeps their order.
func (g *Grid) Compare(a, b Record, columnID string, direction int) int {
	if g.hooks.Compare != nil {
		return g.hooks.Compare(a, b, columnID, direction)
	}
	return compareText(g.CellText(a, columnID), g.CellText(b, columnID), direction)
}

func compareText(a, b string, direction int) int {
	r := 0
	switch {
	case a > b:
		r = 1
	case a < b:
		r = -1
	}
	if direction <= 0 {
		r = -r
	}
	return r
}

// sortIDs stable-sorts ids by the current sort column. Display texts are
// computed once per record unless a Compare hook replaces the comparator.
func (g *Grid) sortIDs(ids []string) {
	col := g.state.SortColumn
	if col == "" {
		return
	}
	if _, ok := g.cols.column(col); !ok {
		return
	}
	dir := g.state.SortOrder

	if g.hooks.Compare != nil {
		sort.SliceStable(ids, func(i, j int) bool {
			return g.hooks.Compare(g.records[ids[i]], g.records[ids[j]], col, dir) < 0
		})
		return
	}

	texts := make(map[string]string, len(ids))
	for _, id := range ids {
		texts[id] = g.CellText(g.records[id], col)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return compareText(texts[ids[i]], texts[ids[j]], dir) < 0
	})
}
