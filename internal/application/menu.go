package application

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func(m *Model) tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

// linkParents sets Parent pointers and points every "Back" item at the
// enclosing menu.
func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == backLabel {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

const backLabel = "Back"

// buildMenuTree builds the menu from the current grid state. It is rebuilt
// every time the menu opens so checkmarks follow column visibility.
func buildMenuTree(m *Model) *Menu {
	root := &Menu{
		Title: "Grid",
		Items: []MenuItem{
			{Label: "Columns ->", Submenu: loadColumnsMenu(m)},
			{Label: "Filters ->", Submenu: loadFiltersMenu(m)},
			{Label: "Redraw", Action: func(m *Model) tea.Cmd {
				m.grid.Redraw()
				return statusCmd("redrawn")
			}},
			{Label: "Reset view", Action: func(m *Model) tea.Cmd {
				m.grid.ResetState()
				return statusCmd("view reset")
			}},
		},
	}
	if m.save != nil {
		root.Items = append(root.Items, MenuItem{Label: "Save records", Action: (*Model).saveRecords})
	}
	root.Items = append(root.Items, MenuItem{Label: backLabel})

	linkParents(root, nil)

	return root
}

/* ----------------------------------------
	LOAD MENUS
---------------------------------------- */

func loadColumnsMenu(m *Model) *Menu {
	var items []MenuItem
	for _, c := range m.grid.Columns() {
		id := c.ID
		title := c.Title
		if title == "" {
			title = id
		}
		mark := "[x] "
		if visible, _ := m.grid.IsColumnVisible(id); !visible {
			mark = "[ ] "
		}
		items = append(items, MenuItem{Label: mark + title, Action: func(m *Model) tea.Cmd {
			visible, _ := m.grid.IsColumnVisible(id)
			m.grid.SetColumnVisible(id, !visible)
			m.menu = buildMenuTree(m).Items[0].Submenu
			return nil
		}})
	}
	items = append(items, MenuItem{Label: backLabel})
	return &Menu{Title: "Columns", Items: items}
}

func loadFiltersMenu(m *Model) *Menu {
	items := []MenuItem{
		{Label: "Clear all filters", Action: func(m *Model) tea.Cmd {
			m.grid.SetFilterSettings(grid.Filters{})
			return statusCmd("filters cleared")
		}},
	}
	filters := m.grid.FilterSettings()
	cols := make([]string, 0, len(filters))
	for col := range filters {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		items = append(items, MenuItem{Label: "Clear " + col, Action: func(m *Model) tea.Cmd {
			m.grid.ClearColumnFilter(col)
			return statusCmd("filter cleared: " + col)
		}})
	}
	items = append(items, MenuItem{Label: backLabel})
	return &Menu{Title: "Filters", Items: items}
}
