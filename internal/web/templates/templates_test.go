package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/render"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return b.String()
}

func TestErrorAlert(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		want    string
		without string
	}{
		{
			name:   "with action",
			action: "Reload the page",
			want:   `<div class="grid-error" role="alert"><p>Session &lt;x&gt; expired</p><p class="grid-error-action">Reload the page</p><small>SES001</small></div>`,
		},
		{
			name:    "without action",
			want:    `<div class="grid-error" role="alert"><p>Session &lt;x&gt; expired</p><small>SES001</small></div>`,
			without: "grid-error-action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderString(t, ErrorAlert("Session <x> expired", tt.action, "SES001"))
			if got != tt.want {
				t.Errorf("ErrorAlert() = %s, want %s", got, tt.want)
			}
			if tt.without != "" && strings.Contains(got, tt.without) {
				t.Errorf("ErrorAlert() contains %q", tt.without)
			}
		})
	}
}

func TestHeaderClass(t *testing.T) {
	s := grid.DefaultStyles()
	tests := []struct {
		name string
		cell grid.HeaderCell
		want string
	}{
		{"plain", grid.HeaderCell{}, "cell"},
		{"sortable", grid.HeaderCell{Sortable: true}, "cell sort"},
		{"ascending", grid.HeaderCell{Sortable: true, Sort: 1}, "cell sort sort-asc"},
		{"descending filtered", grid.HeaderCell{Sortable: true, Sort: -1, Filtered: true}, "cell sort sort-desc checked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := headerClass(tt.cell, s); got != tt.want {
				t.Errorf("headerClass() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLayoutStyle(t *testing.T) {
	tests := []struct {
		name  string
		width string
		align string
		style map[string]string
		want  string
	}{
		{"empty", "", "", nil, ""},
		{"align only", "", "right", nil, "text-align:right"},
		{"sorted", "10em", "left", map[string]string{"color": "red"}, "color:red;text-align:left;width:10em"},
		{"layout wins", "5em", "", map[string]string{"width": "1em"}, "width:5em"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := layoutStyle(tt.width, tt.align, tt.style); got != tt.want {
				t.Errorf("layoutStyle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTableView(t *testing.T) {
	d := TableData{
		GridID: "g1",
		Styles: grid.DefaultStyles(),
		Header: []grid.HeaderCell{
			{ID: "name", Title: "Name", Sortable: true, Sort: 1, SortHint: "Sort by name"},
			{ID: "kind", Title: "Kind", Filterable: true, FilterTooltip: "Filter kind"},
		},
		Rows: []*render.Row{
			{ID: "1", Cells: []grid.Cell{
				{ColumnID: "name", Text: "Ann", Style: map[string]string{"color": "red"}},
				{ColumnID: "kind", Text: "a"},
			}},
			{ID: "1", Detail: true, Span: 2, Content: "stored detail"},
		},
	}

	html := renderString(t, TableView(d))
	for _, want := range []string{
		`<table class="grid" data-grid="g1"><thead><tr class="row header">`,
		`<th class="cell sort sort-asc" data-column="name" title="Sort by name">Name<span class="icon-sort"></span></th>`,
		`<th class="cell" data-column="kind">Kind<span class="filter icon-filter" title="Filter kind"></span></th>`,
		`<td class="cell" data-column="name" style="color:red">Ann</td>`,
		`<tr class="row record_info" data-id="1"><td colspan="2">stored detail</td></tr>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q\n%s", want, html)
		}
	}

	d.DetailText = func(r *render.Row) string { return "live detail " + r.ID }
	if html := renderString(t, TableView(d)); !strings.Contains(html, "live detail 1") {
		t.Errorf("DetailText not used:\n%s", html)
	}
}

func TestTableView_Empty(t *testing.T) {
	d := TableData{GridID: "g", Styles: grid.DefaultStyles(), EmptyText: "no records"}
	want := `<tbody><tr class="row item"><td class="cell" colspan="1">no records</td></tr></tbody>`
	if html := renderString(t, TableView(d)); !strings.Contains(html, want) {
		t.Errorf("html missing %q\n%s", want, html)
	}
}

func TestPage(t *testing.T) {
	d := TableData{GridID: "g", Styles: grid.DefaultStyles()}
	html := renderString(t, Page("Orders & more", "de", d))
	for _, want := range []string{
		`<!doctype html><html lang="de">`,
		"<title>Orders &amp; more</title>",
		`<body><table class="grid" data-grid="g">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q\n%s", want, html)
		}
	}
}
