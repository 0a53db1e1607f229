package grid

import (
	"sort"

	"github.com/JonMunkholm/datagrid/internal/i18n"
)

// SetRecords replaces the whole collection and reconciles. It accepts a
// slice of records (keyed by their id field) or a map keyed by id; see
// collectRecords for the accepted shapes. Records without an id are dropped.
func (g *Grid) SetRecords(items any) {
	g.order, g.records = collectRecords(items)
	g.Refresh()
}

// PutRecord inserts or replaces one record and updates its row. It reports
// false when the record has no id.
func (g *Grid) PutRecord(rec Record) bool {
	id := rec.ID()
	if id == "" {
		return false
	}
	if _, ok := g.records[id]; !ok {
		g.order = append(g.order, id)
	}
	g.records[id] = rec
	g.UpdateItem(id)
	return true
}

// Item returns the record stored under id. Callers that mutate it must call
// UpdateItem afterwards.
func (g *Grid) Item(id string) (Record, bool) {
	rec, ok := g.records[id]
	return rec, ok
}

// Items returns all records in insertion order.
func (g *Grid) Items() []Record {
	out := make([]Record, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.records[id])
	}
	return out
}

// Len returns the number of records.
func (g *Grid) Len() int { return len(g.order) }

// VisibleItems returns the ids that pass the filters, in display order.
func (g *Grid) VisibleItems() []string {
	return g.visibleIDs()
}

// ItemRowView returns the row handle of a record, if it has one.
func (g *Grid) ItemRowView(id string) (Handle, bool) {
	h, ok := g.rows[id]
	return h, ok
}

// ItemInfoRowView returns the detail row handle of a record, if it has one.
func (g *Grid) ItemInfoRowView(id string) (Handle, bool) {
	h, ok := g.details[id]
	return h, ok
}

func (g *Grid) visibleIDs() []string {
	ids := make([]string, 0, len(g.order))
	for _, id := range g.order {
		if g.isVisible(g.records[id]) {
			ids = append(ids, id)
		}
	}
	g.sortIDs(ids)
	return ids
}

// Refresh brings the row handles in line with the collection: visible rows
// are created or updated in place and moved into display order, each detail
// row directly after its record row, and rows no longer visible are destroyed.
func (g *Grid) Refresh() {
	ids := g.visibleIDs()
	visible := make(map[string]bool, len(ids))

	var prev Handle
	created := 0
	for _, id := range ids {
		visible[id] = true
		cells := g.cells(g.records[id])

		h, ok := g.rows[id]
		if ok {
			g.presenter.UpdateRow(h, cells)
		} else {
			h = g.presenter.CreateRow(id, cells)
			g.rows[id] = h
			created++
		}
		g.presenter.MoveAfter(h, prev)
		prev = h

		if d, ok := g.details[id]; ok {
			g.presenter.MoveAfter(d, prev)
			prev = d
		}
	}

	var stale []string
	for id := range g.rows {
		if !visible[id] {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	for _, id := range stale {
		g.destroyRow(id)
	}

	g.log.Debug("grid refreshed",
		"records", len(g.order),
		"visible", len(ids),
		"created", created,
		"destroyed", len(stale),
	)
}

// UpdateItem re-evaluates one record. An invisible or unknown record loses
// its rows. A visible record with a row gets its cells rewritten in place,
// without moving. A newly visible record is inserted after the nearest
// preceding record in display order that already has a row.
func (g *Grid) UpdateItem(id string) {
	rec, ok := g.records[id]
	if !ok || !g.isVisible(rec) {
		g.HideItemView(id)
		return
	}

	cells := g.cells(rec)
	if h, ok := g.rows[id]; ok {
		g.presenter.UpdateRow(h, cells)
		return
	}

	var after Handle
	for _, other := range g.visibleIDs() {
		if other == id {
			break
		}
		if h, ok := g.rows[other]; ok {
			after = h
			if d, ok := g.details[other]; ok {
				after = d
			}
		}
	}
	h := g.presenter.CreateRow(id, cells)
	g.rows[id] = h
	g.presenter.MoveAfter(h, after)
}

// RemoveItem deletes a record and its rows. Unknown ids are ignored.
func (g *Grid) RemoveItem(id string) {
	if _, ok := g.records[id]; !ok {
		return
	}
	g.HideItemView(id)
	delete(g.records, id)
	for i, other := range g.order {
		if other == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// HideItemView destroys the rows of a record but keeps the record.
func (g *Grid) HideItemView(id string) {
	g.destroyRow(id)
}

func (g *Grid) destroyRow(id string) {
	if g.edit != nil && g.edit.RecordID == id {
		g.FinishCellEditMode(false)
	}
	g.HideItemInfo(id)
	if h, ok := g.rows[id]; ok {
		g.presenter.Destroy(h)
		delete(g.rows, id)
	}
}

// ShowItemInfo creates the detail row of a record directly after its row and
// returns it. It returns the existing detail row when already shown, and
// false when the record has no row.
func (g *Grid) ShowItemInfo(id string) (Handle, bool) {
	row, ok := g.rows[id]
	if !ok {
		return nil, false
	}
	if d, ok := g.details[id]; ok {
		return d, true
	}
	d := g.presenter.CreateDetail(id, len(g.cols.visible))
	g.presenter.MoveAfter(d, row)
	g.details[id] = d
	return d, true
}

// HideItemInfo destroys the detail row of a record, if any.
func (g *Grid) HideItemInfo(id string) {
	d, ok := g.details[id]
	if !ok {
		return
	}
	g.presenter.Destroy(d)
	delete(g.details, id)
}

// Redraw rebuilds the header and every row. Open detail rows are re-created
// and an open editor is cancelled.
func (g *Grid) Redraw() {
	g.FinishCellEditMode(false)
	if g.popup != nil {
		if _, ok := g.cols.visibleColumn(g.popup.column); !ok {
			g.ClosePopup()
		}
	}
	g.renderHeader()

	var withDetail []string
	for _, id := range g.order {
		if _, ok := g.details[id]; ok {
			withDetail = append(withDetail, id)
		}
	}
	ids := make([]string, 0, len(g.rows))
	for id := range g.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		g.destroyRow(id)
	}

	g.Refresh()
	for _, id := range withDetail {
		g.ShowItemInfo(id)
	}
}

func (g *Grid) renderHeader() {
	cells := make([]HeaderCell, 0, len(g.cols.visible))
	for _, id := range g.cols.visible {
		c := g.cols.byID[id]
		hc := HeaderCell{
			ID:         id,
			Title:      c.Title,
			Tooltip:    c.Tooltip,
			Width:      c.Width,
			Align:      c.Align,
			Sortable:   c.IsSortable(),
			Filterable: g.cols.spec(id) != nil,
			Filtered:   g.state.Filters.Active(id),
		}
		if hc.Sortable {
			hc.SortHint = g.text(i18n.KeySortHint)
		}
		if hc.Filterable {
			hc.FilterTooltip = c.FilterTooltip
			if hc.FilterTooltip == "" {
				hc.FilterTooltip = g.text(i18n.KeyFilterHint)
			}
		}
		if g.state.SortColumn == id {
			hc.Sort = g.state.SortOrder
		}
		cells = append(cells, hc)
	}
	g.presenter.RenderHeader(cells)
}

// RecordClick forwards a cell click to the OnRecordClick hook. It reports
// false for records without a row.
func (g *Grid) RecordClick(id, columnID string) bool {
	if _, ok := g.rows[id]; !ok {
		return false
	}
	if g.hooks.OnRecordClick == nil {
		return false
	}
	return g.hooks.OnRecordClick(id, columnID)
}
