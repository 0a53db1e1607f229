package grid

import (
	"encoding/json"
	"strings"

	"github.com/JonMunkholm/datagrid/internal/datefmt"
)

// Named predicate slots of scalar selections. Any other selection key is a
// list exclusion.
const (
	SlotValue     = "_value"
	SlotMin       = "_min"
	SlotMax       = "_max"
	SlotEqual     = "_equal"
	SlotStartDate = "_start_date"
	SlotEndDate   = "_end_date"
)

var slotsByKind = map[FilterKind][]string{
	FilterText:      {SlotValue},
	FilterNumber:    {SlotMin, SlotMax, SlotEqual},
	FilterDateRange: {SlotStartDate, SlotEndDate},
}

// IsSlot reports whether key names a scalar predicate slot.
func IsSlot(key string) bool {
	switch key {
	case SlotValue, SlotMin, SlotMax, SlotEqual, SlotStartDate, SlotEndDate:
		return true
	}
	return false
}

// Selection is the active filter criterion of one column: excluded entry
// ids for list columns, named slots for text, number and date columns.
type Selection map[string]string

// UnmarshalJSON accepts numbers and booleans as values and drops nulls.
func (s *Selection) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Selection, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[k] = ValueString(v)
	}
	*s = out
	return nil
}

// Clone returns a copy of s.
func (s Selection) Clone() Selection {
	if s == nil {
		return nil
	}
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Filters maps column ids to their selections.
type Filters map[string]Selection

// Clone returns a deep copy of f.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v.Clone()
	}
	return out
}

// Active reports whether the column has a non-empty selection.
func (f Filters) Active(columnID string) bool {
	return len(f[columnID]) > 0
}

// Passes reports whether rec passes the selection of one column.
//
// Precedence: empty selection passes; a text slot does a case-insensitive
// substring match; number slots compare numerically (an equal slot overrides
// the bounds); date slots compare the day of the field against inclusive
// bounds; otherwise the field value must not be an excluded list entry.
func Passes(rec Record, columnID string, sel Selection) bool {
	if rec == nil {
		return false
	}
	if len(sel) == 0 {
		return true
	}
	field := rec[columnID]

	if q, ok := sel[SlotValue]; ok {
		return strings.Contains(strings.ToLower(ValueString(field)), strings.ToLower(q))
	}

	eq, hasEq := sel[SlotEqual]
	lo, hasMin := sel[SlotMin]
	hi, hasMax := sel[SlotMax]
	if hasEq || hasMin || hasMax {
		n, ok := toNumber(field)
		if !ok {
			return false
		}
		if hasEq {
			want, ok := toNumber(eq)
			return ok && n == want
		}
		if bound, ok := toNumber(lo); hasMin && ok && n < bound {
			return false
		}
		if bound, ok := toNumber(hi); hasMax && ok && n > bound {
			return false
		}
		return true
	}

	start, hasStart := sel[SlotStartDate]
	end, hasEnd := sel[SlotEndDate]
	if hasStart || hasEnd {
		t, ok := datefmt.Parse(field)
		if !ok {
			return false
		}
		day := datefmt.StartOfDay(t)
		if s, ok := datefmt.Parse(start); hasStart && ok && day.Before(datefmt.StartOfDay(s)) {
			return false
		}
		if e, ok := datefmt.Parse(end); hasEnd && ok && day.After(datefmt.StartOfDay(e)) {
			return false
		}
		return true
	}

	_, excluded := sel[ValueString(field)]
	return !excluded
}

// normalizeSelection keeps only the representation that matches the column's
// filter kind, so a selection never mixes exclusions and slots. Date slots
// are rewritten as yyyy-mm-dd. A nil spec leaves the selection unchanged.
func normalizeSelection(sel Selection, spec *FilterSpec) Selection {
	if spec == nil || len(sel) == 0 {
		return sel
	}
	out := make(Selection, len(sel))
	if spec.Kind == FilterList {
		for k, v := range sel {
			if !IsSlot(k) {
				out[k] = v
			}
		}
		return out
	}
	for _, slot := range slotsByKind[spec.Kind] {
		v, ok := sel[slot]
		if !ok || v == "" {
			continue
		}
		if spec.Kind == FilterDateRange {
			t, ok := datefmt.Parse(v)
			if !ok {
				continue
			}
			v = datefmt.Format(t, datefmt.SQLDate)
		}
		out[slot] = v
	}
	return out
}

// PassesFilters reports whether rec passes every active column filter.
func (g *Grid) PassesFilters(rec Record) bool {
	for _, c := range g.cols.columns {
		sel := g.state.Filters[c.ID]
		if len(sel) == 0 {
			continue
		}
		if !Passes(rec, c.ID, sel) {
			return false
		}
	}
	return true
}

// isVisible applies the IsRecordVisible hook when set, else PassesFilters.
func (g *Grid) isVisible(rec Record) bool {
	if rec == nil {
		return false
	}
	if g.hooks.IsRecordVisible != nil {
		return g.hooks.IsRecordVisible(g, rec)
	}
	return g.PassesFilters(rec)
}
