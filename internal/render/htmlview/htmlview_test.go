package htmlview

import (
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/i18n"
)

func renderTable(t *testing.T, p *Presenter) string {
	t.Helper()
	var b strings.Builder
	if err := p.Table("g1").Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return b.String()
}

func TestTable(t *testing.T) {
	p := New(grid.DefaultStyles(), nil)
	g := grid.New(grid.Options{Presenter: p})
	g.SetColumns([]grid.Column{
		{ID: "name", Title: "Name", Align: "left"},
		{ID: "kind", Title: "Kind", Filter: []string{"a", "b"}},
	})
	g.SetRecords([]grid.Record{{"id": 1, "name": "<b>x</b>", "kind": "a"}})
	g.SetSortParams("name", -1)
	g.ShowItemInfo("1")

	html := renderTable(t, p)
	for _, want := range []string{
		`<table class="grid" data-grid="g1">`,
		`class="cell sort sort-desc" data-column="name"`,
		`<span class="filter icon-filter"`,
		`<tr class="row item" data-id="1">`,
		`style="text-align:left"`,
		"&lt;b&gt;x&lt;/b&gt;",
		`<tr class="row record_info" data-id="1"><td colspan="2">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q\n%s", want, html)
		}
	}
}

func TestTable_EmptyAndLocalized(t *testing.T) {
	p := New(grid.DefaultStyles(), i18n.DefaultCatalog().Translator("ru"))
	g := grid.New(grid.Options{Presenter: p})
	g.SetColumns([]grid.Column{{ID: "name"}})

	if html := renderTable(t, p); !strings.Contains(html, "нет записей") {
		t.Errorf("empty grid html = %s", html)
	}
}

func TestTable_Editors(t *testing.T) {
	p := New(grid.DefaultStyles(), nil)
	g := grid.New(grid.Options{Presenter: p})
	g.SetColumns([]grid.Column{
		{ID: "name"},
		{ID: "kind", Filter: []any{
			map[string]any{"id": "a", "title": "Alpha"},
			map[string]any{"id": "b", "title": "Beta"},
		}},
	})
	g.SetRecords([]grid.Record{{"id": 1, "name": `say "hi"`, "kind": "b"}})

	g.CellEditMode("1", "name")
	if html := renderTable(t, p); !strings.Contains(html, `<input type="text" class="inline-editor" value="say &#34;hi&#34;">`) {
		t.Errorf("text editor missing:\n%s", html)
	}

	g.CellEditMode("1", "kind")
	if html := renderTable(t, p); !strings.Contains(html, `<option value="b" selected>Beta</option>`) {
		t.Errorf("choice editor missing:\n%s", html)
	}
}

func TestPage(t *testing.T) {
	p := New(grid.DefaultStyles(), nil)
	var b strings.Builder
	if err := p.Page("Orders & more", "g").Render(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "<title>Orders &amp; more</title>") {
		t.Errorf("page = %s", b.String())
	}
}
