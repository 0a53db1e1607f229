package grid

import (
	"strings"

	"github.com/JonMunkholm/datagrid/internal/datefmt"
)

// FilterKind is the kind of filter a column supports.
type FilterKind int

const (
	FilterList FilterKind = iota + 1
	FilterText
	FilterNumber
	FilterDateRange
)

func (k FilterKind) String() string {
	switch k {
	case FilterList:
		return "list"
	case FilterText:
		return "text"
	case FilterNumber:
		return "number"
	case FilterDateRange:
		return "date"
	default:
		return "none"
	}
}

// FilterEntry is one selectable value of a list filter.
type FilterEntry struct {
	ID    string            `json:"id"`
	Label string            `json:"label"`
	Style map[string]string `json:"style,omitempty"`
}

// FilterSpec is the normalized filter declaration of a column.
type FilterSpec struct {
	Kind    FilterKind
	Entries map[string]FilterEntry // List only, keyed by entry id
	Order   []string               // List only, entry ids in declaration order
	Format  string                 // DateRange only
}

// Entry returns the list entry for id.
func (s *FilterSpec) Entry(id string) (FilterEntry, bool) {
	if s == nil || s.Kind != FilterList {
		return FilterEntry{}, false
	}
	e, ok := s.Entries[id]
	return e, ok
}

// EntryList returns list entries in declaration order.
func (s *FilterSpec) EntryList() []FilterEntry {
	if s == nil || s.Kind != FilterList {
		return nil
	}
	out := make([]FilterEntry, 0, len(s.Order))
	for _, id := range s.Order {
		out = append(out, s.Entries[id])
	}
	return out
}

// Default date patterns for the string shorthands.
const (
	defaultDateFormat     = datefmt.SQLDate
	defaultDateTimeFormat = datefmt.SQLDateTime
)

// PrepareFilterSpec normalizes a column filter declaration.
//
// Accepted shapes: a list of strings or entry objects, a map of strings or
// entry objects, or one of the shorthands "text", "number", "date",
// "date|<fmt>", "datetime", "datetime|<fmt>". Anything else yields nil.
func PrepareFilterSpec(raw any) *FilterSpec {
	switch v := raw.(type) {
	case nil:
		return nil
	case *FilterSpec:
		return v
	case FilterSpec:
		return &v
	case string:
		return parseShorthand(v)
	case []string:
		spec := newListSpec()
		for _, s := range v {
			spec.add(FilterEntry{ID: s, Label: s})
		}
		return spec
	case []FilterEntry:
		spec := newListSpec()
		for _, e := range v {
			spec.add(e)
		}
		return spec
	case []any:
		spec := newListSpec()
		for _, item := range v {
			if e, ok := entryFrom(item, ""); ok {
				spec.add(e)
			}
		}
		return spec
	case map[string]string:
		spec := newListSpec()
		for _, k := range sortedKeys(v) {
			spec.add(FilterEntry{ID: v[k], Label: v[k]})
		}
		return spec
	case map[string]FilterEntry:
		spec := newListSpec()
		for _, k := range sortedKeys(v) {
			e := v[k]
			if e.ID == "" {
				e.ID = k
			}
			spec.add(e)
		}
		return spec
	case map[string]any:
		spec := newListSpec()
		for _, k := range sortedKeys(v) {
			if e, ok := entryFrom(v[k], k); ok {
				spec.add(e)
			}
		}
		return spec
	default:
		return nil
	}
}

func parseShorthand(s string) *FilterSpec {
	switch {
	case s == "text":
		return &FilterSpec{Kind: FilterText}
	case s == "number":
		return &FilterSpec{Kind: FilterNumber}
	case s == "date":
		return &FilterSpec{Kind: FilterDateRange, Format: defaultDateFormat}
	case strings.HasPrefix(s, "date|"):
		return &FilterSpec{Kind: FilterDateRange, Format: orDefault(s[len("date|"):], defaultDateFormat)}
	case s == "datetime":
		return &FilterSpec{Kind: FilterDateRange, Format: defaultDateTimeFormat}
	case strings.HasPrefix(s, "datetime|"):
		return &FilterSpec{Kind: FilterDateRange, Format: orDefault(s[len("datetime|"):], defaultDateTimeFormat)}
	default:
		return nil
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func newListSpec() *FilterSpec {
	return &FilterSpec{Kind: FilterList, Entries: make(map[string]FilterEntry)}
}

func (s *FilterSpec) add(e FilterEntry) {
	if _, exists := s.Entries[e.ID]; !exists {
		s.Order = append(s.Order, e.ID)
	}
	s.Entries[e.ID] = e
}

// entryFrom reads a string or an object with id and title|name|value|label.
// fallbackID is used when an object carries no id.
func entryFrom(item any, fallbackID string) (FilterEntry, bool) {
	switch v := item.(type) {
	case string:
		return FilterEntry{ID: v, Label: v}, true
	case FilterEntry:
		if v.ID == "" {
			v.ID = fallbackID
		}
		return v, true
	case map[string]any:
		e := FilterEntry{ID: ValueString(v["id"])}
		if _, ok := v["id"]; !ok {
			e.ID = fallbackID
		}
		for _, k := range []string{"title", "name", "value", "label"} {
			if s := ValueString(v[k]); s != "" {
				e.Label = s
				break
			}
		}
		if style := styleMap(v["css"]); style != nil {
			e.Style = style
		} else {
			e.Style = styleMap(v["style"])
		}
		return e, true
	default:
		return FilterEntry{}, false
	}
}

func styleMap(v any) map[string]string {
	switch m := v.(type) {
	case map[string]string:
		if len(m) == 0 {
			return nil
		}
		return m
	case map[string]any:
		if len(m) == 0 {
			return nil
		}
		out := make(map[string]string, len(m))
		for k, val := range m {
			out[k] = ValueString(val)
		}
		return out
	default:
		return nil
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}
