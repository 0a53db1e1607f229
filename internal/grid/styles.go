package grid

import (
	"fmt"
	"sort"
	"strings"
)

// Styles holds the CSS class names a presenter applies. Build one with
// NewStyles; the zero value is not useful.
type Styles struct {
	Grid            string
	HeaderRow       string
	Row             string
	RowItemInfo     string
	Cell            string
	Sort            string
	SortAsc         string
	SortDesc        string
	IconSort        string
	Checked         string
	InlineEditor    string
	Filter          string
	IconFilter      string
	FilterPopup     string
	FilterPopupItem string
}

// styleFields maps the customizable keys to their fields.
var styleFields = map[string]func(*Styles) *string{
	"grid":            func(s *Styles) *string { return &s.Grid },
	"headerRow":       func(s *Styles) *string { return &s.HeaderRow },
	"row":             func(s *Styles) *string { return &s.Row },
	"row_item_info":   func(s *Styles) *string { return &s.RowItemInfo },
	"cell":            func(s *Styles) *string { return &s.Cell },
	"sort":            func(s *Styles) *string { return &s.Sort },
	"sortAsc":         func(s *Styles) *string { return &s.SortAsc },
	"sortDesc":        func(s *Styles) *string { return &s.SortDesc },
	"iconSort":        func(s *Styles) *string { return &s.IconSort },
	"checked":         func(s *Styles) *string { return &s.Checked },
	"inlineEditor":    func(s *Styles) *string { return &s.InlineEditor },
	"filter":          func(s *Styles) *string { return &s.Filter },
	"iconFilter":      func(s *Styles) *string { return &s.IconFilter },
	"filterPopup":     func(s *Styles) *string { return &s.FilterPopup },
	"filterPopupItem": func(s *Styles) *string { return &s.FilterPopupItem },
}

// DefaultStyles returns the stock class names.
func DefaultStyles() Styles {
	return Styles{
		Grid:            "grid",
		HeaderRow:       "row header",
		Row:             "row item",
		RowItemInfo:     "row record_info",
		Cell:            "cell",
		Sort:            "sort",
		SortAsc:         "sort-asc",
		SortDesc:        "sort-desc",
		IconSort:        "icon-sort",
		Checked:         "checked",
		InlineEditor:    "inline-editor",
		Filter:          "filter",
		IconFilter:      "icon-filter",
		FilterPopup:     "btGrid-filter-popup",
		FilterPopupItem: "btGrid-filter-popup-item",
	}
}

// NewStyles applies overrides on top of the defaults. Unknown keys are
// rejected, all of them listed in the error.
func NewStyles(overrides map[string]string) (Styles, error) {
	s := DefaultStyles()
	var unknown []string
	for k, v := range overrides {
		field, ok := styleFields[k]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		*field(&s) = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return DefaultStyles(), fmt.Errorf("unknown style keys: %s", strings.Join(unknown, ", "))
	}
	return s, nil
}

// StyleKeys lists the customizable keys in sorted order.
func StyleKeys() []string {
	return sortedKeys(styleFields)
}

// Lookup returns the class name stored under a customizable key.
func (s Styles) Lookup(key string) (string, bool) {
	field, ok := styleFields[key]
	if !ok {
		return "", false
	}
	return *field(&s), true
}
