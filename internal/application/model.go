// Package application is the bubbletea front-end of a single grid: a
// keyboard driven table over the termview presenter.
package application

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/render/termview"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	menuStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const helpText = "↑↓ row  ←→ column  s sort  e edit  f filter  x exclude  c clear  d detail  m menu  w save  q quit"

// DispatchMsg carries a debounced grid callback onto the program goroutine.
// Wire grid.Options.Dispatch to send it with tea.Program.Send.
type DispatchMsg func()

type statusMsg string

type errMsg struct{ Err error }

func statusCmd(s string) tea.Cmd {
	return func() tea.Msg { return statusMsg(s) }
}

type mode int

const (
	modeBrowse mode = iota
	modeEdit
	modeFilter
	modeMenu
)

// Options configure a Model.
type Options struct {
	Grid *grid.Grid
	View *termview.Presenter

	// Save writes the records back. Nil disables saving.
	Save func(records []grid.Record) error
}

// Model is the bubbletea model. All grid calls happen inside Update.
type Model struct {
	grid *grid.Grid
	view *termview.Presenter
	save func([]grid.Record) error

	cursor termview.Cursor
	row    int
	height int
	mode   mode

	menu    *Menu
	menuIdx int

	status   string
	err      error
	dirty    bool
	quitting bool
}

func New(opts Options) *Model {
	m := &Model{
		grid: opts.Grid,
		view: opts.View,
		save: opts.Save,
	}
	m.syncCursor()
	return m
}

func (m *Model) Init() tea.Cmd { return nil }

// Cursor returns the selected record and column.
func (m *Model) Cursor() termview.Cursor { return m.cursor }

// Dirty reports whether records were edited since the last save.
func (m *Model) Dirty() bool { return m.dirty }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case DispatchMsg:
		msg()
	case statusMsg:
		m.status, m.err = string(msg), nil
	case errMsg:
		m.err = msg.Err
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeEdit:
			cmd = m.updateEdit(msg)
		case modeFilter:
			cmd = m.updateFilter(msg)
		case modeMenu:
			cmd = m.updateMenu(msg)
		default:
			cmd = m.updateBrowse(msg)
		}
	}
	m.syncCursor()
	return m, cmd
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	g := m.grid
	col, id := m.cursor.ColumnID, m.cursor.RecordID

	switch msg.String() {
	case "q":
		m.quitting = true
		return tea.Quit
	case "up", "k":
		m.moveRow(-1)
	case "down", "j":
		m.moveRow(1)
	case "left", "h":
		m.moveColumn(-1)
	case "right", "l":
		m.moveColumn(1)
	case "s":
		if !g.HeaderClick(col) {
			return statusCmd("column is not sortable")
		}
	case "e", "enter":
		if id == "" || !g.CellEditMode(id, col) {
			return statusCmd("cell cannot be edited")
		}
		m.mode = modeEdit
	case "d":
		if id == "" {
			return nil
		}
		if _, shown := g.ItemInfoRowView(id); shown {
			g.HideItemInfo(id)
		} else {
			g.ShowItemInfo(id)
		}
	case "x":
		return m.excludeCurrent()
	case "c":
		if g.ClearColumnFilter(col) {
			return statusCmd("filter cleared: " + col)
		}
	case "f":
		p, ok := g.OpenFilterPopup(col)
		if !ok {
			return statusCmd("column has no filter")
		}
		if p.Kind() == grid.FilterList {
			p.Close()
			return statusCmd("use x to exclude list values")
		}
		m.mode = modeFilter
	case "m":
		m.menu = buildMenuTree(m)
		m.menuIdx = 0
		m.mode = modeMenu
	case "w":
		return m.saveRecords()
	}
	return nil
}

// excludeCurrent hides every record sharing the selected cell's list value.
func (m *Model) excludeCurrent() tea.Cmd {
	rec, ok := m.grid.Item(m.cursor.RecordID)
	if !ok {
		return nil
	}
	col := m.cursor.ColumnID
	spec := m.grid.ColumnFilterSpec(col)
	if spec == nil || spec.Kind != grid.FilterList {
		return statusCmd("x works on list columns")
	}
	value := grid.ValueString(rec[col])
	p, ok := m.grid.OpenFilterPopup(col)
	if !ok {
		return nil
	}
	defer p.Close()
	if !p.Toggle(value) {
		return statusCmd("value is not a filter entry: " + value)
	}
	return statusCmd(fmt.Sprintf("toggled %s=%s", col, value))
}

func (m *Model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	ed := m.grid.Editor()
	if ed == nil {
		m.mode = modeBrowse
		return nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.grid.EditorKey(grid.KeyEscape)
		m.mode = modeBrowse
	case tea.KeyEnter:
		if m.grid.FinishCellEditMode(true) {
			m.dirty = true
		}
		m.mode = modeBrowse
	case tea.KeyBackspace:
		if ed.Kind == grid.EditorText {
			r := []rune(ed.Value)
			if len(r) > 0 {
				ed.SetValue(string(r[:len(r)-1]))
			}
		}
	case tea.KeyLeft, tea.KeyRight:
		if ed.Kind == grid.EditorChoice {
			cycleChoice(ed, msg.Type == tea.KeyRight)
		}
	case tea.KeyRunes, tea.KeySpace:
		if ed.Kind == grid.EditorText {
			ed.SetValue(ed.Value + string(msg.Runes))
		}
	}
	return nil
}

func cycleChoice(ed *grid.Editor, forward bool) {
	if len(ed.Options) == 0 {
		return
	}
	i := slices.IndexFunc(ed.Options, func(e grid.FilterEntry) bool { return e.ID == ed.Value })
	switch {
	case i < 0:
		i = 0
	case forward:
		i = (i + 1) % len(ed.Options)
	default:
		i = (i - 1 + len(ed.Options)) % len(ed.Options)
	}
	ed.SetValue(ed.Options[i].ID)
}

// filterSlot is the popup input the filter line edits for each kind.
func filterSlot(kind grid.FilterKind) string {
	switch kind {
	case grid.FilterNumber:
		return grid.SlotMin
	case grid.FilterDateRange:
		return grid.SlotStartDate
	default:
		return grid.SlotValue
	}
}

func setFilterInput(p *grid.FilterPopup, v string) {
	switch p.Kind() {
	case grid.FilterNumber:
		p.SetMin(v)
	case grid.FilterDateRange:
		p.SetStartDate(v)
	default:
		p.SetText(v)
	}
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	p := m.grid.Popup()
	if p == nil {
		m.mode = modeBrowse
		return nil
	}
	value := p.Value(filterSlot(p.Kind()))
	switch msg.Type {
	case tea.KeyEsc:
		m.grid.ClosePopup()
		m.mode = modeBrowse
	case tea.KeyEnter:
		m.grid.FlushFilter()
		m.grid.ClosePopup()
		m.mode = modeBrowse
	case tea.KeyBackspace:
		r := []rune(value)
		if len(r) > 0 {
			setFilterInput(p, string(r[:len(r)-1]))
		}
	case tea.KeyRunes, tea.KeySpace:
		setFilterInput(p, value+string(msg.Runes))
	}
	return nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	if m.menu == nil {
		m.mode = modeBrowse
		return nil
	}
	switch msg.String() {
	case "esc", "m":
		m.closeMenu()
	case "up", "k":
		if m.menuIdx > 0 {
			m.menuIdx--
		}
	case "down", "j":
		if m.menuIdx < len(m.menu.Items)-1 {
			m.menuIdx++
		}
	case "enter":
		item := m.menu.Items[m.menuIdx]
		switch {
		case item.Label == backLabel:
			if item.Submenu == nil {
				m.closeMenu()
				return nil
			}
			m.menu, m.menuIdx = item.Submenu, 0
		case item.Submenu != nil:
			m.menu, m.menuIdx = item.Submenu, 0
		case item.Action != nil:
			return item.Action(m)
		}
	}
	return nil
}

func (m *Model) closeMenu() {
	m.menu = nil
	m.menuIdx = 0
	m.mode = modeBrowse
}

func (m *Model) saveRecords() tea.Cmd {
	if m.save == nil {
		return statusCmd("saving is disabled")
	}
	if err := m.save(m.grid.Items()); err != nil {
		return func() tea.Msg { return errMsg{Err: err} }
	}
	m.dirty = false
	return statusCmd(fmt.Sprintf("saved %d records", m.grid.Len()))
}

func (m *Model) moveRow(delta int) {
	ids := m.view.RecordIDs()
	if len(ids) == 0 {
		return
	}
	m.row = max(0, min(m.row+delta, len(ids)-1))
	m.cursor.RecordID = ids[m.row]
}

func (m *Model) moveColumn(delta int) {
	cols := m.grid.DisplayedColumns()
	if len(cols) == 0 {
		return
	}
	i := max(0, slices.Index(cols, m.cursor.ColumnID))
	i = max(0, min(i+delta, len(cols)-1))
	m.cursor.ColumnID = cols[i]
}

// syncCursor keeps the cursor on a displayed row and column after the grid
// reordered, filtered or hid them.
func (m *Model) syncCursor() {
	ids := m.view.RecordIDs()
	switch {
	case len(ids) == 0:
		m.row = 0
		m.cursor.RecordID = ""
	default:
		if i := slices.Index(ids, m.cursor.RecordID); i >= 0 {
			m.row = i
		} else {
			m.row = max(0, min(m.row, len(ids)-1))
		}
		m.cursor.RecordID = ids[m.row]
	}

	cols := m.grid.DisplayedColumns()
	if len(cols) == 0 {
		m.cursor.ColumnID = ""
	} else if !slices.Contains(cols, m.cursor.ColumnID) {
		m.cursor.ColumnID = cols[0]
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	title := fmt.Sprintf("%s  %d/%d", m.grid.Name(), len(m.view.RecordIDs()), m.grid.Len())
	if m.dirty {
		title += " (modified)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	height := 0
	if m.height > 0 {
		height = max(3, m.height-4)
	}
	b.WriteString(m.view.View(m.cursor, height))
	b.WriteString("\n")

	switch m.mode {
	case modeFilter:
		if p := m.grid.Popup(); p != nil {
			line := fmt.Sprintf("filter %s (%s): %s▏", p.ColumnID(), p.Kind(), p.Value(filterSlot(p.Kind())))
			b.WriteString(activeStyle.Render(line))
			b.WriteString("\n")
		}
	case modeMenu:
		b.WriteString(m.menuView())
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}

func (m *Model) menuView() string {
	if m.menu == nil {
		return ""
	}
	lines := []string{titleStyle.Render(m.menu.Title)}
	for i, item := range m.menu.Items {
		if i == m.menuIdx {
			lines = append(lines, activeStyle.Render("> "+item.Label))
			continue
		}
		lines = append(lines, "  "+item.Label)
	}
	return menuStyle.Render(strings.Join(lines, "\n"))
}
