// Package templates holds the templ components of the grid HTML views.
// Files ending in _templ.go are generated from the .templ sources by
// `templ generate`.
package templates

import (
	"sort"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/render"
)

// TableData is the view model of one grid table.
type TableData struct {
	GridID string
	Styles grid.Styles
	Header []grid.HeaderCell
	Rows   []*render.Row

	// EmptyText fills the placeholder row of a grid without rows.
	EmptyText string

	// DetailText returns the content of a detail row. When nil,
	// Row.Content is used.
	DetailText func(*render.Row) string
}

func (d TableData) detailText(r *render.Row) string {
	if d.DetailText != nil {
		return d.DetailText(r)
	}
	return r.Content
}

func (d TableData) emptySpan() string {
	return strconv.Itoa(max(len(d.Header), 1))
}

func detailSpan(r *render.Row) string {
	return strconv.Itoa(max(r.Span, 1))
}

func headerClass(h grid.HeaderCell, s grid.Styles) string {
	classes := []string{s.Cell}
	if h.Sortable {
		classes = append(classes, s.Sort)
	}
	switch h.Sort {
	case 1:
		classes = append(classes, s.SortAsc)
	case -1:
		classes = append(classes, s.SortDesc)
	}
	if h.Filtered {
		classes = append(classes, s.Checked)
	}
	return strings.Join(classes, " ")
}

// headerAttrs returns the optional title and style of a header cell.
// Empty values are left out.
func headerAttrs(h grid.HeaderCell) templ.Attributes {
	attrs := templ.Attributes{}
	if title := firstNonEmpty(h.Tooltip, h.SortHint); title != "" {
		attrs["title"] = title
	}
	if style := layoutStyle(h.Width, h.Align, nil); style != "" {
		attrs["style"] = style
	}
	return attrs
}

func filterAttrs(h grid.HeaderCell) templ.Attributes {
	attrs := templ.Attributes{}
	if h.FilterTooltip != "" {
		attrs["title"] = h.FilterTooltip
	}
	return attrs
}

func cellAttrs(c grid.Cell) templ.Attributes {
	attrs := templ.Attributes{}
	if style := layoutStyle(c.Width, c.Align, c.Style); style != "" {
		attrs["style"] = style
	}
	return attrs
}

// layoutStyle merges the column layout into the cell style and renders it
// as a style attribute value with sorted properties.
func layoutStyle(width, align string, style map[string]string) string {
	props := make(map[string]string, len(style)+2)
	for k, v := range style {
		props[k] = v
	}
	if width != "" {
		props["width"] = width
	}
	if align != "" {
		props["text-align"] = align
	}
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ":" + props[k]
	}
	return strings.Join(parts, ";")
}

// editorFor returns the editor open on cell c of row r, or nil.
func editorFor(r *render.Row, c grid.Cell) *grid.Editor {
	if r.Editor == nil || r.EditorColumn != c.ColumnID {
		return nil
	}
	return r.Editor
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
