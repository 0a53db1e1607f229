package grid

import (
	"context"
	"encoding/json"
	"maps"
)

// Store is a durable string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// ViewState is the sort and filter state of a grid.
type ViewState struct {
	SortColumn string
	SortOrder  int // 1 ascending, -1 descending
	Filters    Filters
}

type slot int

const (
	slotSort slot = iota
	slotFilter
	slotHiddenColumns
)

var allSlots = []slot{slotSort, slotFilter, slotHiddenColumns}

// Key suffixes of the persisted slots.
const (
	SortSuffix          = "_sort"
	FilterSuffix        = "_filter"
	HiddenColumnsSuffix = "_hiddenColumns"
)

func (g *Grid) slotKey(s slot) string {
	switch s {
	case slotSort:
		return g.name + SortSuffix
	case slotFilter:
		return g.name + FilterSuffix
	default:
		return g.name + HiddenColumnsSuffix
	}
}

type sortDoc struct {
	SortColumn string `json:"sortColumn"`
	SortOrder  int    `json:"sortOrder"`
}

func normalizeDirection(dir int) int {
	if dir < 0 {
		return -1
	}
	return 1
}

// AutoSaveState turns persistence on or off. Turning it on loads every slot
// and redraws. An empty name keeps the current one.
func (g *Grid) AutoSaveState(enabled bool, name string) {
	if name != "" {
		g.name = name
	}
	g.autoSave = enabled
	if !enabled {
		return
	}
	g.loadState()
	g.cols.rebuild()
	g.normalizeFilters()
	g.Redraw()
}

// normalizeFilters reduces every stored selection to the representation of
// its column's filter kind. Loaded state can predate the column declarations,
// so this runs again whenever columns change. It reports whether anything
// changed.
func (g *Grid) normalizeFilters() bool {
	changed := false
	for col, sel := range g.state.Filters {
		next := normalizeSelection(sel, g.cols.spec(col))
		switch {
		case len(next) == 0:
			delete(g.state.Filters, col)
			changed = true
		case !maps.Equal(next, sel):
			g.state.Filters[col] = next
			changed = true
		}
	}
	return changed
}

// AutoSave reports whether state changes are persisted.
func (g *Grid) AutoSave() bool { return g.autoSave && g.store != nil }

func (g *Grid) saveState(slots ...slot) {
	if !g.AutoSave() {
		return
	}
	for _, s := range slots {
		var v any
		switch s {
		case slotSort:
			v = sortDoc{SortColumn: g.state.SortColumn, SortOrder: g.state.SortOrder}
		case slotFilter:
			v = g.state.Filters
		case slotHiddenColumns:
			v = g.cols.hiddenSet()
		}
		b, err := json.Marshal(v)
		if err != nil {
			g.log.Warn("encode view state", "key", g.slotKey(s), "error", err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
		err = g.store.Set(ctx, g.slotKey(s), string(b))
		cancel()
		if err != nil {
			g.log.Warn("save view state", "key", g.slotKey(s), "error", err)
		}
	}
}

// loadState reads every slot independently. A slot that is missing,
// unreadable or malformed leaves the current value in place.
func (g *Grid) loadState() {
	if g.store == nil {
		return
	}
	for _, s := range allSlots {
		key := g.slotKey(s)
		ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
		raw, ok, err := g.store.Get(ctx, key)
		cancel()
		if err != nil {
			g.log.Warn("load view state", "key", key, "error", err)
			continue
		}
		if !ok || raw == "" {
			continue
		}
		if err := g.decodeSlot(s, []byte(raw)); err != nil {
			g.log.Warn("malformed view state", "key", key, "error", err)
		}
	}
}

func (g *Grid) decodeSlot(s slot, raw []byte) error {
	switch s {
	case slotSort:
		var doc sortDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		// Only fields present in the slot replace the current sort.
		if doc.SortColumn != "" {
			g.state.SortColumn = doc.SortColumn
		}
		switch {
		case doc.SortOrder != 0:
			g.state.SortOrder = normalizeDirection(doc.SortOrder)
		case g.state.SortColumn != "" && g.state.SortOrder == 0:
			g.state.SortOrder = 1
		}
	case slotFilter:
		var f Filters
		if err := json.Unmarshal(raw, &f); err != nil {
			return err
		}
		if f == nil {
			f = Filters{}
		}
		g.state.Filters = f
	case slotHiddenColumns:
		var set map[string]json.RawMessage
		if err := json.Unmarshal(raw, &set); err != nil {
			return err
		}
		hidden := make(map[string]int, len(set))
		for id := range set {
			hidden[id] = 1
		}
		g.cols.hidden = hidden
	}
	return nil
}

// StateDeleter is implemented by stores that can remove keys.
type StateDeleter interface {
	Delete(ctx context.Context, key string) error
}

// ResetState returns the grid to its unsorted, unfiltered view with every
// column shown, and forgets the persisted slots of the grid name. Stores
// without Delete get the cleared values written instead. No hooks fire.
func (g *Grid) ResetState() {
	g.ClosePopup()
	g.state = ViewState{Filters: Filters{}}
	for _, c := range g.cols.columns {
		c.Hidden = nil
	}
	g.cols.hidden = make(map[string]int)
	g.cols.rebuild()

	if g.AutoSave() {
		if d, ok := g.store.(StateDeleter); ok {
			g.deleteState(d)
		} else {
			g.saveState(allSlots...)
		}
	}
	g.Redraw()
}

func (g *Grid) deleteState(d StateDeleter) {
	for _, s := range allSlots {
		key := g.slotKey(s)
		ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
		err := d.Delete(ctx, key)
		cancel()
		if err != nil {
			g.log.Warn("delete view state", "key", key, "error", err)
		}
	}
}

// SortParams returns the sort column and direction. The column is "" when
// the grid is unsorted.
func (g *Grid) SortParams() (columnID string, direction int) {
	return g.state.SortColumn, g.state.SortOrder
}

// SetSortParams sorts by a visible column without firing hooks. Directions
// are normalized to 1 or -1. It reports false for unknown or hidden columns.
func (g *Grid) SetSortParams(columnID string, direction int) bool {
	if _, ok := g.cols.visibleColumn(columnID); !ok {
		return false
	}
	g.state.SortColumn = columnID
	g.state.SortOrder = normalizeDirection(direction)
	g.saveState(slotSort)
	g.renderHeader()
	g.Refresh()
	return true
}

// FilterSettings returns a copy of the active filters.
func (g *Grid) FilterSettings() Filters {
	return g.state.Filters.Clone()
}

// SetFilterSettings replaces all filters without firing hooks. Selections of
// known columns are reduced to the representation of their filter kind and
// empty selections are dropped.
func (g *Grid) SetFilterSettings(filters Filters) {
	next := make(Filters, len(filters))
	for col, sel := range filters {
		sel = normalizeSelection(sel.Clone(), g.cols.spec(col))
		if len(sel) > 0 {
			next[col] = sel
		}
	}
	g.state.Filters = next
	g.saveState(slotFilter)
	g.renderHeader()
	g.Refresh()
}

// HeaderClick handles a click on a column header: a new sort column sorts
// ascending, the current one flips direction. OnHeaderClick may veto.
func (g *Grid) HeaderClick(columnID string) bool {
	c, ok := g.cols.visibleColumn(columnID)
	if !ok {
		return false
	}
	if g.hooks.OnHeaderClick != nil && !g.hooks.OnHeaderClick(columnID) {
		return false
	}
	if !c.IsSortable() {
		return false
	}

	if g.state.SortColumn == columnID {
		g.state.SortOrder = -normalizeDirection(g.state.SortOrder)
	} else {
		g.state.SortColumn = columnID
		g.state.SortOrder = 1
	}
	g.saveState(slotSort)
	g.renderHeader()
	if g.hooks.OnSortChanged != nil {
		g.hooks.OnSortChanged(g.state.SortColumn, g.state.SortOrder)
	}
	g.Refresh()
	return true
}

// ClearColumnFilter removes the filter of one column, as a right click on
// the filter icon does. It reports whether a filter was removed.
func (g *Grid) ClearColumnFilter(columnID string) bool {
	if g.popup != nil && g.popup.column == columnID {
		g.ClosePopup()
	}
	if !g.state.Filters.Active(columnID) {
		return false
	}
	g.applyFilter(columnID, nil)
	return true
}

// applyFilter stores an interactive filter change and notifies OnFilterChanged.
func (g *Grid) applyFilter(columnID string, sel Selection) {
	sel = normalizeSelection(sel, g.cols.spec(columnID))
	if len(sel) == 0 {
		delete(g.state.Filters, columnID)
	} else {
		g.state.Filters[columnID] = sel
	}
	g.saveState(slotFilter)
	g.renderHeader()
	if g.hooks.OnFilterChanged != nil {
		g.hooks.OnFilterChanged()
	}
	g.Refresh()
}
