package grid

import (
	"encoding/json"
	"testing"
)

func TestPasses(t *testing.T) {
	tests := []struct {
		name  string
		field any
		sel   Selection
		want  bool
	}{
		{"empty selection", "x", nil, true},
		{"text substring ignores case", "Hello World", Selection{SlotValue: "WORLD"}, true},
		{"text miss", "Hello", Selection{SlotValue: "bye"}, false},
		{"text on nil field", nil, Selection{SlotValue: "a"}, false},
		{"number in range", 15, Selection{SlotMin: "10", SlotMax: "20"}, true},
		{"number above max", 25, Selection{SlotMin: "10", SlotMax: "20"}, false},
		{"number below min", 5.5, Selection{SlotMin: "10"}, false},
		{"number bounds inclusive", 10, Selection{SlotMin: "10", SlotMax: "10"}, true},
		{"number string field", "15", Selection{SlotMax: "20"}, true},
		{"equal overrides bounds", 25, Selection{SlotEqual: "25", SlotMax: "20"}, true},
		{"equal miss", 24, Selection{SlotEqual: "25"}, false},
		{"non numeric field fails", "abc", Selection{SlotMin: "1"}, false},
		{"unparsable bound ignored", 3, Selection{SlotMin: "x"}, true},
		{"date inside", "2024-03-05 13:00:00", Selection{SlotStartDate: "2024-03-05", SlotEndDate: "2024-03-05"}, true},
		{"date before start", "2024-03-04", Selection{SlotStartDate: "2024-03-05"}, false},
		{"date after end", "2024-03-06", Selection{SlotEndDate: "2024-03-05"}, false},
		{"unparsable date fails", "soon", Selection{SlotStartDate: "2024-03-05"}, false},
		{"list excluded", "B", Selection{"B": "1"}, false},
		{"list kept", "A", Selection{"B": "1"}, true},
		{"list numeric field", 2, Selection{"2": "1"}, false},
		{"list empty value", nil, Selection{"": "1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{"id": "1", "col": tt.field}
			if got := Passes(rec, "col", tt.sel); got != tt.want {
				t.Errorf("Passes(%v, %v) = %v, want %v", tt.field, tt.sel, got, tt.want)
			}
		})
	}
}

func TestPasses_NilRecord(t *testing.T) {
	if Passes(nil, "col", nil) {
		t.Error("Passes(nil) = true, want false")
	}
}

func TestPassesFilters_AndAcrossColumns(t *testing.T) {
	g, _ := newTestGrid(t, Options{})
	g.SetFilterSettings(Filters{
		"status": {"B": "1"},
		"amount": {SlotMin: "10"},
	})

	tests := []struct {
		rec  Record
		want bool
	}{
		{Record{"status": "A", "amount": 11}, true},
		{Record{"status": "B", "amount": 11}, false},
		{Record{"status": "A", "amount": 9}, false},
	}
	for _, tt := range tests {
		if got := g.PassesFilters(tt.rec); got != tt.want {
			t.Errorf("PassesFilters(%v) = %v, want %v", tt.rec, got, tt.want)
		}
	}
}

func TestIsRecordVisibleHook(t *testing.T) {
	g, p := newTestGrid(t, Options{Hooks: Hooks{
		IsRecordVisible: func(g *Grid, rec Record) bool {
			return rec["archived"] != true && g.PassesFilters(rec)
		},
	}})
	g.SetRecords([]Record{
		{"id": 1, "status": "A"},
		{"id": 2, "status": "A", "archived": true},
		{"id": 3, "status": "B"},
	})
	g.SetFilterSettings(Filters{"status": {"B": "1"}})
	assertOrder(t, p, "1")
}

func TestSelection_UnmarshalJSON(t *testing.T) {
	var f Filters
	err := json.Unmarshal([]byte(`{"amount":{"_min":10,"_max":"20","_equal":null},"status":{"B":true}}`), &f)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := f["amount"]; got[SlotMin] != "10" || got[SlotMax] != "20" || len(got) != 2 {
		t.Errorf("amount = %v", got)
	}
	if got := f["status"]["B"]; got != "true" {
		t.Errorf("status[B] = %q, want true", got)
	}
}

func TestPrepareFilterSpec(t *testing.T) {
	tests := []struct {
		name   string
		raw    any
		kind   FilterKind
		order  []string
		format string
	}{
		{"nil", nil, 0, nil, ""},
		{"unknown shorthand", "bogus", 0, nil, ""},
		{"unsupported type", 42, 0, nil, ""},
		{"text", "text", FilterText, nil, ""},
		{"number", "number", FilterNumber, nil, ""},
		{"date", "date", FilterDateRange, nil, "yyyy-mm-dd"},
		{"date with format", "date|dd.mm.yyyy", FilterDateRange, nil, "dd.mm.yyyy"},
		{"date empty format", "date|", FilterDateRange, nil, "yyyy-mm-dd"},
		{"datetime", "datetime", FilterDateRange, nil, "yyyy-mm-dd HH:MM:SS"},
		{"datetime with format", "datetime|HH:MM", FilterDateRange, nil, "HH:MM"},
		{"strings", []string{"b", "a", "b"}, FilterList, []string{"b", "a"}, ""},
		{"entries", []FilterEntry{{ID: "x", Label: "X"}}, FilterList, []string{"x"}, ""},
		{"objects", []any{map[string]any{"id": 1, "name": "One"}, "two"}, FilterList, []string{"1", "two"}, ""},
		{"object map", map[string]any{"b": "B", "10": "Ten", "2": map[string]any{"title": "Two"}}, FilterList, []string{"2", "Ten", "B"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := PrepareFilterSpec(tt.raw)
			if tt.kind == 0 {
				if spec != nil {
					t.Errorf("PrepareFilterSpec(%v) = %+v, want nil", tt.raw, spec)
				}
				return
			}
			if spec == nil {
				t.Fatalf("PrepareFilterSpec(%v) = nil", tt.raw)
			}
			if spec.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", spec.Kind, tt.kind)
			}
			if spec.Format != tt.format {
				t.Errorf("Format = %q, want %q", spec.Format, tt.format)
			}
			if tt.order != nil {
				if len(spec.Order) != len(tt.order) {
					t.Fatalf("Order = %v, want %v", spec.Order, tt.order)
				}
				for i := range tt.order {
					if spec.Order[i] != tt.order[i] {
						t.Errorf("Order = %v, want %v", spec.Order, tt.order)
						break
					}
				}
			}
		})
	}
}

func TestPrepareFilterSpec_ObjectLabels(t *testing.T) {
	spec := PrepareFilterSpec([]any{
		map[string]any{"id": "a", "title": "Alpha", "css": map[string]any{"color": "red"}},
		map[string]any{"id": "b", "value": "Beta", "style": map[string]string{"color": "blue"}},
	})
	a, _ := spec.Entry("a")
	b, _ := spec.Entry("b")
	if a.Label != "Alpha" || a.Style["color"] != "red" {
		t.Errorf("entry a = %+v", a)
	}
	if b.Label != "Beta" || b.Style["color"] != "blue" {
		t.Errorf("entry b = %+v", b)
	}
}
