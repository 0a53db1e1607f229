package grid

import "github.com/JonMunkholm/datagrid/internal/i18n"

// PopupItem is one list entry of a filter popup. Checked entries are shown.
type PopupItem struct {
	Entry   FilterEntry
	Checked bool
}

// FilterPopup edits the filter of one column. List toggles apply at once;
// scalar inputs are collected in a draft and applied after the debounce delay.
type FilterPopup struct {
	g      *Grid
	column string
	spec   *FilterSpec
	draft  Selection
	closed bool
}

// OpenFilterPopup opens the filter popup of a visible, filterable column,
// closing any popup already open.
func (g *Grid) OpenFilterPopup(columnID string) (*FilterPopup, bool) {
	g.ClosePopup()
	if _, ok := g.cols.visibleColumn(columnID); !ok {
		return nil, false
	}
	spec := g.cols.spec(columnID)
	if spec == nil {
		return nil, false
	}
	draft := g.state.Filters[columnID].Clone()
	if draft == nil {
		draft = Selection{}
	}
	g.popup = &FilterPopup{g: g, column: columnID, spec: spec, draft: draft}
	return g.popup, true
}

// Popup returns the open filter popup, or nil.
func (g *Grid) Popup() *FilterPopup { return g.popup }

// ClosePopup closes the open popup, dropping its pending input.
func (g *Grid) ClosePopup() {
	if g.popup == nil {
		return
	}
	g.debouncer.Cancel()
	g.popup.closed = true
	g.popup = nil
}

// ColumnID returns the column the popup filters.
func (p *FilterPopup) ColumnID() string { return p.column }

// Kind returns the filter kind of the column.
func (p *FilterPopup) Kind() FilterKind { return p.spec.Kind }

// Closed reports whether the popup was closed.
func (p *FilterPopup) Closed() bool { return p.closed }

// Close closes the popup if it is still the open one.
func (p *FilterPopup) Close() {
	if p.g.popup == p {
		p.g.ClosePopup()
	}
}

// Items lists the entries of a list filter with their checked state.
func (p *FilterPopup) Items() []PopupItem {
	if p.spec.Kind != FilterList {
		return nil
	}
	sel := p.g.state.Filters[p.column]
	out := make([]PopupItem, 0, len(p.spec.Order))
	for _, e := range p.spec.EntryList() {
		if e.Label == "" {
			e.Label = p.g.text(i18n.KeyEmptyEntry)
		}
		_, excluded := sel[e.ID]
		out = append(out, PopupItem{Entry: e, Checked: !excluded})
	}
	return out
}

// Toggle flips the exclusion of one list entry and applies it immediately.
func (p *FilterPopup) Toggle(entryID string) bool {
	if p.closed || p.spec.Kind != FilterList {
		return false
	}
	if _, ok := p.spec.Entry(entryID); !ok {
		return false
	}
	sel := p.g.state.Filters[p.column].Clone()
	if sel == nil {
		sel = Selection{}
	}
	if _, excluded := sel[entryID]; excluded {
		delete(sel, entryID)
	} else {
		sel[entryID] = "1"
	}
	p.draft = sel.Clone()
	p.g.applyFilter(p.column, sel)
	return true
}

// Value returns the draft value of a scalar slot.
func (p *FilterPopup) Value(slot string) string { return p.draft[slot] }

// Scalar inputs. Each reports false when the column has another filter kind.
func (p *FilterPopup) SetText(v string) bool { return p.setSlot(FilterText, SlotValue, v) }
func (p *FilterPopup) SetMin(v string) bool { return p.setSlot(FilterNumber, SlotMin, v) }
func (p *FilterPopup) SetMax(v string) bool { return p.setSlot(FilterNumber, SlotMax, v) }
func (p *FilterPopup) SetEqual(v string) bool { return p.setSlot(FilterNumber, SlotEqual, v) }
func (p *FilterPopup) SetStartDate(v string) bool { return p.setSlot(FilterDateRange, SlotStartDate, v) }
func (p *FilterPopup) SetEndDate(v string) bool { return p.setSlot(FilterDateRange, SlotEndDate, v) }

// setSlot writes the draft and restarts the debounce timer.
func (p *FilterPopup) setSlot(kind FilterKind, slot, v string) bool {
	if p.closed || p.spec.Kind != kind {
		return false
	}
	if v == "" {
		delete(p.draft, slot)
	} else {
		p.draft[slot] = v
	}
	p.g.debouncer.Trigger(p.apply)
	return true
}

func (p *FilterPopup) apply() {
	if p.closed {
		return
	}
	p.g.applyFilter(p.column, p.draft.Clone())
}

// FlushFilter applies pending popup input immediately.
func (g *Grid) FlushFilter() {
	g.debouncer.Flush()
}

// FilterPending reports whether popup input waits for the debounce timer.
func (g *Grid) FilterPending() bool {
	return g.debouncer.Pending()
}
