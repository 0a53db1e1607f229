// Package termview renders a grid for the terminal with lipgloss.
package termview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/i18n"
	"github.com/JonMunkholm/datagrid/internal/render"
)

const maxColumnWidth = 30

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Underline(true)
	filteredStyle = headerStyle.Foreground(lipgloss.Color("212"))
	cellStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("237"))
	editorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true).PaddingLeft(2)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Presenter keeps the rows of one grid for terminal rendering.
type Presenter struct {
	*render.RowList
	tr *i18n.Translator
}

func New(tr *i18n.Translator) *Presenter {
	return &Presenter{RowList: render.NewRowList(), tr: tr}
}

// Cursor marks the selected record row and column.
type Cursor struct {
	RecordID string
	ColumnID string
}

// RecordIDs returns the ids of the record rows in display order.
func (p *Presenter) RecordIDs() []string {
	var out []string
	for _, r := range p.Rows() {
		if !r.Detail {
			out = append(out, r.ID)
		}
	}
	return out
}

// View renders the header and rows. Only rows that fit in height lines are
// shown, scrolled so the cursor row stays visible; height <= 0 shows all.
func (p *Presenter) View(cur Cursor, height int) string {
	header := p.Header()
	if len(header) == 0 {
		return mutedStyle.Render(p.tr.TP("grid", i18n.KeyNoRecords))
	}
	widths := p.columnWidths(header)

	var lines []string
	cells := make([]string, len(header))
	for i, h := range header {
		title := h.Title
		if title == "" {
			title = h.ID
		}
		switch h.Sort {
		case 1:
			title += " ▲"
		case -1:
			title += " ▼"
		}
		style := headerStyle
		if h.Filtered {
			title += " *"
			style = filteredStyle
		}
		if h.ID == cur.ColumnID {
			style = style.Reverse(true)
		}
		cells[i] = style.Width(widths[i]).MaxWidth(widths[i]).Render(title)
	}
	headerLine := lipgloss.JoinHorizontal(lipgloss.Top, joinCells(cells)...)

	rows := p.Rows()
	cursorLine := 0
	for _, r := range rows {
		if r.Detail {
			lines = append(lines, detailStyle.Render(p.DetailText(r)))
			continue
		}
		selected := r.ID == cur.RecordID
		if selected {
			cursorLine = len(lines)
		}
		lines = append(lines, p.renderRow(r, header, widths, selected, cur.ColumnID))
	}
	if len(rows) == 0 {
		lines = append(lines, mutedStyle.Render(p.tr.TP("grid", i18n.KeyNoRecords)))
	}

	lines = window(lines, cursorLine, height-1)
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{headerLine}, lines...)...)
}

func (p *Presenter) renderRow(r *render.Row, header []grid.HeaderCell, widths []int, selected bool, column string) string {
	byColumn := make(map[string]grid.Cell, len(r.Cells))
	for _, c := range r.Cells {
		byColumn[c.ColumnID] = c
	}
	cells := make([]string, len(header))
	for i, h := range header {
		text := byColumn[h.ID].Text
		style := cellStyle
		switch {
		case r.EditorColumn == h.ID && r.Editor != nil:
			text = editorText(r.Editor)
			style = editorStyle
		case selected && h.ID == column:
			style = cursorStyle.Reverse(true)
		case selected:
			style = selectedStyle
		}
		if h.Align == "right" {
			style = style.Align(lipgloss.Right)
		}
		cells[i] = style.Width(widths[i]).MaxWidth(widths[i]).Render(text)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinCells(cells)...)
}

func editorText(ed *grid.Editor) string {
	if ed.Kind != grid.EditorChoice {
		return ed.Value + "▏"
	}
	for _, opt := range ed.Options {
		if opt.ID == ed.Value {
			return "‹ " + opt.Label + " ›"
		}
	}
	return "‹ " + ed.Value + " ›"
}

func (p *Presenter) columnWidths(header []grid.HeaderCell) []int {
	widths := make([]int, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h.ID] = i
		widths[i] = lipgloss.Width(h.Title) + 2
	}
	for _, r := range p.Rows() {
		for _, c := range r.Cells {
			i, ok := index[c.ColumnID]
			if !ok {
				continue
			}
			if w := lipgloss.Width(c.Text); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColumnWidth)
	}
	return widths
}

func joinCells(cells []string) []string {
	out := make([]string, 0, len(cells)*2)
	for i, c := range cells {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, c)
	}
	return out
}

// window returns at most n lines around line cursor.
func window(lines []string, cursor, n int) []string {
	if n <= 0 || len(lines) <= n {
		return lines
	}
	start := cursor - n/2
	start = max(0, min(start, len(lines)-n))
	return lines[start : start+n]
}
