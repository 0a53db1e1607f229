package grid

import (
	"testing"
	"time"

	"github.com/JonMunkholm/datagrid/internal/i18n"
)

func TestFilterPopup_ListToggle(t *testing.T) {
	n := 0
	g, p := newTestGrid(t, Options{Hooks: Hooks{OnFilterChanged: func() { n++ }}})
	g.SetRecords([]Record{{"id": 1, "status": "A"}, {"id": 2, "status": "B"}})

	pop, ok := g.OpenFilterPopup("status")
	if !ok {
		t.Fatal("OpenFilterPopup(status) = false")
	}
	if !pop.Toggle("B") {
		t.Fatal("Toggle(B) = false")
	}
	assertOrder(t, p, "1")

	items := pop.Items()
	if len(items) != 2 || !items[0].Checked || items[1].Checked {
		t.Errorf("Items() = %+v", items)
	}

	pop.Toggle("B")
	assertOrder(t, p, "1", "2")
	if n != 2 {
		t.Errorf("OnFilterChanged fired %d times, want 2", n)
	}
	if pop.Toggle("Z") {
		t.Error("Toggle of unknown entry = true")
	}
}

func TestFilterPopup_EmptyLabel(t *testing.T) {
	tr := i18n.DefaultCatalog().Translator("de")
	g, _ := newTestGrid(t, Options{Translator: tr})
	g.SetColumns([]Column{{ID: "s", Filter: []string{"", "x"}}})

	pop, _ := g.OpenFilterPopup("s")
	if got := pop.Items()[0].Entry.Label; got != "(leer)" {
		t.Errorf("empty entry label = %q, want (leer)", got)
	}
}

func TestFilterPopup_OpenRules(t *testing.T) {
	g, _ := newTestGrid(t, Options{})

	if _, ok := g.OpenFilterPopup("name"); ok {
		t.Error("opened popup on column without filter")
	}
	if _, ok := g.OpenFilterPopup("nope"); ok {
		t.Error("opened popup on unknown column")
	}

	first, _ := g.OpenFilterPopup("status")
	second, _ := g.OpenFilterPopup("email")
	if !first.Closed() || second.Closed() {
		t.Error("opening a popup did not close the previous one")
	}
	if g.Popup() != second {
		t.Error("Popup() is not the last opened popup")
	}
}

func TestFilterPopup_DebouncedText(t *testing.T) {
	n := 0
	g, p := newTestGrid(t, Options{FilterDebounce: time.Hour, Hooks: Hooks{OnFilterChanged: func() { n++ }}})
	g.SetRecords([]Record{{"id": 1, "email": "ann@x"}, {"id": 2, "email": "bob@y"}})

	pop, _ := g.OpenFilterPopup("email")
	pop.SetText("a")
	pop.SetText("an")
	pop.SetText("ann")
	if !g.FilterPending() {
		t.Fatal("no pending filter after typing")
	}
	assertOrder(t, p, "1", "2")

	g.FlushFilter()
	assertOrder(t, p, "1")
	if n != 1 {
		t.Errorf("OnFilterChanged fired %d times, want 1", n)
	}
	if got := g.FilterSettings()["email"][SlotValue]; got != "ann" {
		t.Errorf("text filter = %q, want ann", got)
	}
	if pop.SetMin("3") {
		t.Error("SetMin accepted on a text column")
	}
}

func TestFilterPopup_CloseDiscardsDraft(t *testing.T) {
	g, p := newTestGrid(t, Options{FilterDebounce: time.Hour})
	g.SetRecords([]Record{{"id": 1, "amount": 5}, {"id": 2, "amount": 50}})

	pop, _ := g.OpenFilterPopup("amount")
	pop.SetMin("10")
	pop.Close()

	if g.FilterPending() {
		t.Error("pending filter after Close")
	}
	g.FlushFilter()
	assertOrder(t, p, "1", "2")
	if pop.SetMax("3") {
		t.Error("closed popup accepted input")
	}
}

func TestFilterPopup_NumberAndDate(t *testing.T) {
	g, p := newTestGrid(t, Options{FilterDebounce: time.Hour})
	g.SetColumns(append(testColumns(), Column{ID: "day", Filter: "date"}))
	g.SetRecords([]Record{
		{"id": 1, "amount": 5, "day": "2024-01-01"},
		{"id": 2, "amount": 15, "day": "2024-02-01"},
		{"id": 3, "amount": 25, "day": "2024-03-01"},
	})

	pop, _ := g.OpenFilterPopup("amount")
	pop.SetMin("10")
	pop.SetMax("20")
	g.FlushFilter()
	assertOrder(t, p, "2")

	pop.SetEqual("25")
	g.FlushFilter()
	assertOrder(t, p, "3")

	g.ClearColumnFilter("amount")
	if g.Popup() != nil {
		t.Error("clearing the filter left its popup open")
	}

	pop, _ = g.OpenFilterPopup("day")
	pop.SetStartDate("2024-01-15")
	pop.SetEndDate("2024-03-01")
	g.FlushFilter()
	assertOrder(t, p, "2", "3")
	if got := pop.Value(SlotStartDate); got != "2024-01-15" {
		t.Errorf("Value(start) = %q", got)
	}
}
