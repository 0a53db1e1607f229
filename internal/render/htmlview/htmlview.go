// Package htmlview renders a grid as an HTML table through templ components.
package htmlview

import (
	"github.com/a-h/templ"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/i18n"
	"github.com/JonMunkholm/datagrid/internal/render"
	"github.com/JonMunkholm/datagrid/internal/web/templates"
)

// Presenter keeps the rows of one grid and renders them as HTML.
type Presenter struct {
	*render.RowList
	styles grid.Styles
	tr     *i18n.Translator
}

func New(styles grid.Styles, tr *i18n.Translator) *Presenter {
	return &Presenter{RowList: render.NewRowList(), styles: styles, tr: tr}
}

// Table renders the header and rows as a table element.
func (p *Presenter) Table(gridID string) templ.Component {
	return templates.TableView(p.tableData(gridID))
}

// Page renders a standalone document around the table.
func (p *Presenter) Page(title, gridID string) templ.Component {
	return templates.Page(title, p.tr.Lang(), p.tableData(gridID))
}

// tableData snapshots the rows; the component renders what was current
// when it was built.
func (p *Presenter) tableData(gridID string) templates.TableData {
	return templates.TableData{
		GridID:     gridID,
		Styles:     p.styles,
		Header:     p.Header(),
		Rows:       p.Rows(),
		EmptyText:  p.tr.TP("grid", i18n.KeyNoRecords),
		DetailText: p.DetailText,
	}
}
