package grid

import (
	"encoding/json"
	"maps"
	"slices"
	"testing"
)

func TestSetSortParams(t *testing.T) {
	fired := false
	g, p := newTestGrid(t, Options{Hooks: Hooks{
		OnSortChanged: func(string, int) { fired = true },
	}})

	tests := []struct {
		col     string
		dir     int
		ok      bool
		wantCol string
		wantDir int
	}{
		{"name", 5, true, "name", 1},
		{"name", -3, true, "name", -1},
		{"name", 0, true, "name", 1},
		{"unknown", 1, false, "name", 1},
	}
	for _, tt := range tests {
		if got := g.SetSortParams(tt.col, tt.dir); got != tt.ok {
			t.Errorf("SetSortParams(%q, %d) = %v, want %v", tt.col, tt.dir, got, tt.ok)
		}
		col, dir := g.SortParams()
		if col != tt.wantCol || dir != tt.wantDir {
			t.Errorf("SortParams() = %q, %d; want %q, %d", col, dir, tt.wantCol, tt.wantDir)
		}
	}
	if fired {
		t.Error("SetSortParams fired OnSortChanged")
	}
	if p.header[0].Sort != 1 {
		t.Errorf("header sort = %d, want 1", p.header[0].Sort)
	}
}

func TestSetSortParams_HiddenColumn(t *testing.T) {
	g, _ := newTestGrid(t, Options{})
	g.SetColumnVisible("email", false)
	if g.SetSortParams("email", 1) {
		t.Error("sorting by a hidden column was accepted")
	}
}

func TestHeaderClick(t *testing.T) {
	type change struct {
		col string
		dir int
	}
	var changes []change
	g, _ := newTestGrid(t, Options{Hooks: Hooks{
		OnSortChanged: func(col string, dir int) { changes = append(changes, change{col, dir}) },
	}})

	g.HeaderClick("name")
	g.HeaderClick("name")
	g.HeaderClick("status")
	g.HeaderClick("nope")

	want := []change{{"name", 1}, {"name", -1}, {"status", 1}}
	if !slices.Equal(changes, want) {
		t.Errorf("sort changes = %v, want %v", changes, want)
	}
}

func TestHeaderClick_VetoAndNotSortable(t *testing.T) {
	g, _ := newTestGrid(t, Options{})
	g.SetColumns([]Column{{ID: "a"}, {ID: "b", Sortable: Bool(false)}})
	g.SetHooks(Hooks{OnHeaderClick: func(col string) bool { return col != "a" }})

	if g.HeaderClick("a") {
		t.Error("vetoed header click sorted")
	}
	if g.HeaderClick("b") {
		t.Error("header click sorted a non-sortable column")
	}
	if col, _ := g.SortParams(); col != "" {
		t.Errorf("sort column = %q, want empty", col)
	}
}

func TestSetFilterSettings_Normalizes(t *testing.T) {
	fired := false
	g, _ := newTestGrid(t, Options{Hooks: Hooks{OnFilterChanged: func() { fired = true }}})
	g.SetColumns(append(testColumns(), Column{ID: "day", Filter: "date"}))

	g.SetFilterSettings(Filters{
		"status": {"B": "1", SlotValue: "x"},
		"amount": {SlotMin: "1", "B": "1", SlotValue: "x"},
		"email":  {SlotValue: "ann", SlotMin: "3"},
		"day":    {SlotStartDate: "2024-01-05 10:00", SlotEndDate: "bad"},
		"name":   {},
		"later":  {"k": "1"},
	})
	got := g.FilterSettings()
	want := Filters{
		"status": {"B": "1"},
		"amount": {SlotMin: "1"},
		"email":  {SlotValue: "ann"},
		"day":    {SlotStartDate: "2024-01-05"},
		"later":  {"k": "1"},
	}
	gb, _ := json.Marshal(got)
	wb, _ := json.Marshal(want)
	if string(gb) != string(wb) {
		t.Errorf("FilterSettings() = %s, want %s", gb, wb)
	}
	if fired {
		t.Error("SetFilterSettings fired OnFilterChanged")
	}

	got["status"]["A"] = "1"
	if g.FilterSettings()["status"]["A"] != "" {
		t.Error("FilterSettings returned shared state")
	}
}

func TestClearColumnFilter(t *testing.T) {
	n := 0
	g, p := newTestGrid(t, Options{Hooks: Hooks{OnFilterChanged: func() { n++ }}})
	g.SetRecords([]Record{{"id": 1, "status": "A"}, {"id": 2, "status": "B"}})
	g.SetFilterSettings(Filters{"status": {"B": "1"}})
	assertOrder(t, p, "1")

	if !g.ClearColumnFilter("status") {
		t.Error("ClearColumnFilter = false, want true")
	}
	if g.ClearColumnFilter("status") {
		t.Error("second ClearColumnFilter = true, want false")
	}
	assertOrder(t, p, "1", "2")
	if n != 1 {
		t.Errorf("OnFilterChanged fired %d times, want 1", n)
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	store := newMemStore()
	g, _ := newTestGrid(t, Options{Name: "orders", Store: store, AutoSave: true})
	g.SetSortParams("amount", -1)
	g.SetFilterSettings(Filters{"status": {"B": "1"}})
	g.SetColumnVisible("email", false)

	if got := store.data["orders_sort"]; got != `{"sortColumn":"amount","sortOrder":-1}` {
		t.Errorf("sort slot = %s", got)
	}
	if got := store.data["orders_hiddenColumns"]; got != `{"email":1}` {
		t.Errorf("hidden slot = %s", got)
	}

	h, p := newTestGrid(t, Options{Name: "orders", Store: store, AutoSave: true})
	if col, dir := h.SortParams(); col != "amount" || dir != -1 {
		t.Errorf("loaded sort = %q, %d", col, dir)
	}
	if !h.FilterSettings().Active("status") {
		t.Error("loaded filters lost the status filter")
	}
	if visible, _ := h.IsColumnVisible("email"); visible {
		t.Error("email column visible after reload")
	}
	if len(p.header) != 3 {
		t.Errorf("header cells = %d, want 3", len(p.header))
	}
}

func TestPersistence_MalformedSlotKeepsState(t *testing.T) {
	store := newMemStore()
	store.data["g_sort"] = "{"
	store.data["g_filter"] = `{"status":{"B":"1"}}`
	store.data["g_hiddenColumns"] = "[1,2"

	g, _ := newTestGrid(t, Options{Name: "g", Store: store})
	g.SetSortParams("name", 1)
	g.AutoSaveState(true, "")

	if col, dir := g.SortParams(); col != "name" || dir != 1 {
		t.Errorf("SortParams() = %q, %d; want name, 1", col, dir)
	}
	if !g.FilterSettings().Active("status") {
		t.Error("valid filter slot was not loaded")
	}
	if len(g.DisplayedColumns()) != 4 {
		t.Errorf("DisplayedColumns() = %v", g.DisplayedColumns())
	}
}

func TestPersistence_PartialSortSlot(t *testing.T) {
	tests := []struct {
		slot    string
		wantCol string
		wantDir int
	}{
		{"null", "amount", -1},
		{"{}", "amount", -1},
		{`{"sortOrder":1}`, "amount", 1},
		{`{"sortColumn":"name"}`, "name", -1},
		{`{"sortColumn":"name","sortOrder":1}`, "name", 1},
	}
	for _, tt := range tests {
		t.Run(tt.slot, func(t *testing.T) {
			store := newMemStore()
			store.data["g_sort"] = tt.slot

			g, _ := newTestGrid(t, Options{Name: "g", Store: store})
			g.SetSortParams("amount", -1)
			g.AutoSaveState(true, "")

			if col, dir := g.SortParams(); col != tt.wantCol || dir != tt.wantDir {
				t.Errorf("SortParams() = %q, %d; want %q, %d", col, dir, tt.wantCol, tt.wantDir)
			}
		})
	}
}

func TestPersistence_SortSlotColumnOnlyAscends(t *testing.T) {
	store := newMemStore()
	store.data["g_sort"] = `{"sortColumn":"name"}`

	g, _ := newTestGrid(t, Options{Name: "g", Store: store, AutoSave: true})

	if col, dir := g.SortParams(); col != "name" || dir != 1 {
		t.Errorf("SortParams() = %q, %d; want name, 1", col, dir)
	}
}

func TestPersistence_LoadedFiltersAreNormalized(t *testing.T) {
	store := newMemStore()
	store.data["g_filter"] = `{"status":{"B":"1","_value":"zzz"},"amount":{"B":"1"},"email":{"_value":"ann","_min":"3"}}`

	// Columns arrive after the state is loaded.
	g, _ := newTestGrid(t, Options{Name: "g", Store: store, AutoSave: true})
	g.SetRecords([]Record{
		{"id": 1, "status": "A", "email": "ann@x"},
		{"id": 2, "status": "B", "email": "ann@y"},
	})

	got := g.FilterSettings()
	if want := (Selection{"B": "1"}); !maps.Equal(got["status"], want) {
		t.Errorf("status filter = %v, want %v", got["status"], want)
	}
	if got.Active("amount") {
		t.Errorf("amount filter = %v, want dropped", got["amount"])
	}
	if want := (Selection{SlotValue: "ann"}); !maps.Equal(got["email"], want) {
		t.Errorf("email filter = %v, want %v", got["email"], want)
	}
	if visible := g.VisibleItems(); !slices.Equal(visible, []string{"1"}) {
		t.Errorf("VisibleItems() = %v, want [1]", visible)
	}

	var saved Filters
	if err := json.Unmarshal([]byte(store.data["g_filter"]), &saved); err != nil {
		t.Fatalf("filter slot: %v", err)
	}
	if !maps.Equal(saved["status"], Selection{"B": "1"}) || saved.Active("amount") {
		t.Errorf("normalized filters not saved back: %s", store.data["g_filter"])
	}
}

func TestAutoSaveState_NormalizesForKnownColumns(t *testing.T) {
	store := newMemStore()
	store.data["g_filter"] = `{"status":{"A":"1","_min":"2"}}`

	g, _ := newTestGrid(t, Options{Name: "g", Store: store})
	g.AutoSaveState(true, "")

	if got := g.FilterSettings()["status"]; !maps.Equal(got, Selection{"A": "1"}) {
		t.Errorf("status filter = %v, want map[A:1]", got)
	}
}

func TestPersistence_StoreErrorsAreSwallowed(t *testing.T) {
	store := newMemStore()
	store.fail = true
	g, _ := newTestGrid(t, Options{Name: "g", Store: store, AutoSave: true})
	g.SetRecords(records(2))

	if !g.SetSortParams("name", -1) {
		t.Fatal("SetSortParams = false")
	}
	if got := g.VisibleItems(); !slices.Equal(got, []string{"2", "1"}) {
		t.Errorf("VisibleItems() = %v", got)
	}
}

func TestPersistence_DisabledDoesNotWrite(t *testing.T) {
	store := newMemStore()
	g, _ := newTestGrid(t, Options{Name: "g", Store: store})
	g.SetSortParams("name", 1)
	g.SetFilterSettings(Filters{"status": {"A": "1"}})
	if store.sets != 0 {
		t.Errorf("store writes = %d, want 0", store.sets)
	}
}

func TestResetState_DeletesSlots(t *testing.T) {
	store := &deletingStore{memStore: newMemStore()}
	g, p := newTestGrid(t, Options{Name: "orders", Store: store, AutoSave: true})
	g.SetRecords([]Record{{"id": 1, "status": "A"}, {"id": 2, "status": "B"}})
	g.SetSortParams("status", -1)
	g.SetFilterSettings(Filters{"status": {"B": "1"}})
	g.SetColumnVisible("email", false)

	g.ResetState()

	if col, _ := g.SortParams(); col != "" {
		t.Errorf("sort column = %q, want empty", col)
	}
	if len(g.FilterSettings()) != 0 {
		t.Errorf("FilterSettings() = %v, want empty", g.FilterSettings())
	}
	if got := len(g.DisplayedColumns()); got != 4 {
		t.Errorf("DisplayedColumns() = %d columns, want 4", got)
	}
	assertOrder(t, p, "1", "2")
	want := []string{"orders_sort", "orders_filter", "orders_hiddenColumns"}
	if !slices.Equal(store.deleted, want) {
		t.Errorf("deleted keys = %v, want %v", store.deleted, want)
	}
	if len(store.data) != 0 {
		t.Errorf("store still holds %v", store.data)
	}
}

func TestResetState_WritesClearedSlotsWithoutDelete(t *testing.T) {
	store := newMemStore()
	g, _ := newTestGrid(t, Options{Name: "g", Store: store, AutoSave: true})
	g.SetSortParams("name", 1)

	g.ResetState()

	h, _ := newTestGrid(t, Options{Name: "g", Store: store, AutoSave: true})
	if col, _ := h.SortParams(); col != "" {
		t.Errorf("reloaded sort column = %q, want empty", col)
	}
	if got := store.data["g_filter"]; got != "{}" {
		t.Errorf("filter slot = %s, want {}", got)
	}
}
