package grid

// Column declares one grid column.
//
// Hidden and Sortable are tri-state: nil means "not specified". A column that
// was hidden once stays hidden across SetColumns calls unless the new
// declaration sets Hidden to false explicitly.
type Column struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Hidden        *bool             `json:"hidden,omitempty"`
	Sortable      *bool             `json:"sortable,omitempty"`
	Filter        any               `json:"filter,omitempty"`
	FilterTooltip string            `json:"filterTooltip,omitempty"`
	Tooltip       string            `json:"tooltip,omitempty"`
	Width         string            `json:"width,omitempty"`
	Align         string            `json:"align,omitempty"`
	Style         map[string]string `json:"style,omitempty"`

	// Renderer overrides the cell text. It is also what sorting compares.
	Renderer func(rec Record, columnID string) string `json:"-"`
}

// IsSortable reports whether header clicks may sort by this column.
func (c *Column) IsSortable() bool {
	return c.Sortable == nil || *c.Sortable
}

// Bool returns a pointer to v, for the tri-state Column fields.
func Bool(v bool) *bool {
	return &v
}

// columnRegistry owns the column declarations and the derived views of them.
type columnRegistry struct {
	columns []*Column // unique ids, declaration order
	byID    map[string]*Column
	specs   map[string]*FilterSpec
	visible []string
	shown   map[string]bool
	hidden  map[string]int // sticky hidden set, persisted as-is
}

func newColumnRegistry() columnRegistry {
	return columnRegistry{
		byID:   make(map[string]*Column),
		specs:  make(map[string]*FilterSpec),
		shown:  make(map[string]bool),
		hidden: make(map[string]int),
	}
}

// set replaces the declarations. The first occurrence of an id wins and
// columns without an id are ignored. The caller's slice is copied.
func (r *columnRegistry) set(columns []Column) {
	r.columns = r.columns[:0]
	r.byID = make(map[string]*Column, len(columns))
	for i := range columns {
		c := columns[i]
		if c.ID == "" {
			continue
		}
		if _, dup := r.byID[c.ID]; dup {
			continue
		}
		r.columns = append(r.columns, &c)
		r.byID[c.ID] = &c
	}
	r.rebuild()
}

// rebuild derives the visible order and the filter specs, applying the
// sticky hidden set.
func (r *columnRegistry) rebuild() {
	r.visible = r.visible[:0]
	r.shown = make(map[string]bool, len(r.columns))
	r.specs = make(map[string]*FilterSpec, len(r.columns))

	for _, c := range r.columns {
		r.specs[c.ID] = PrepareFilterSpec(c.Filter)

		switch {
		case c.Hidden != nil && *c.Hidden:
			r.hidden[c.ID] = 1
			continue
		case c.Hidden == nil && r.hidden[c.ID] != 0:
			c.Hidden = Bool(true)
			continue
		}
		delete(r.hidden, c.ID)
		r.shown[c.ID] = true
		r.visible = append(r.visible, c.ID)
	}
}

func (r *columnRegistry) column(id string) (*Column, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// visibleColumn returns the column only when it is displayed.
func (r *columnRegistry) visibleColumn(id string) (*Column, bool) {
	if !r.shown[id] {
		return nil, false
	}
	return r.byID[id], true
}

func (r *columnRegistry) spec(id string) *FilterSpec {
	return r.specs[id]
}

func (r *columnRegistry) ids() []string {
	out := make([]string, len(r.columns))
	for i, c := range r.columns {
		out[i] = c.ID
	}
	return out
}

func (r *columnRegistry) hiddenSet() map[string]int {
	out := make(map[string]int, len(r.hidden))
	for k, v := range r.hidden {
		out[k] = v
	}
	return out
}

// SetColumns replaces the column set and redraws the grid.
func (g *Grid) SetColumns(columns []Column) {
	g.cols.set(columns)
	g.saveState(slotHiddenColumns)
	if g.normalizeFilters() {
		g.saveState(slotFilter)
	}
	g.Redraw()
}

// Columns returns copies of the registered column declarations.
func (g *Grid) Columns() []Column {
	out := make([]Column, len(g.cols.columns))
	for i, c := range g.cols.columns {
		out[i] = *c
	}
	return out
}

// ColumnIDs returns the ids of all registered columns.
func (g *Grid) ColumnIDs() []string {
	return g.cols.ids()
}

// DisplayedColumns returns the ids of the visible columns in display order.
func (g *Grid) DisplayedColumns() []string {
	return append([]string(nil), g.cols.visible...)
}

// IsColumnVisible reports the visibility of a column. known is false for
// unregistered ids.
func (g *Grid) IsColumnVisible(id string) (visible, known bool) {
	if _, ok := g.cols.column(id); !ok {
		return false, false
	}
	return g.cols.shown[id], true
}

// SetColumnVisible shows or hides a column and redraws. Unknown ids are ignored.
func (g *Grid) SetColumnVisible(id string, visible bool) bool {
	c, ok := g.cols.column(id)
	if !ok {
		return false
	}
	c.Hidden = Bool(!visible)
	g.cols.rebuild()
	g.saveState(slotHiddenColumns)
	g.Redraw()
	return true
}

// SetColumnFilter replaces the filter declaration of one column.
func (g *Grid) SetColumnFilter(id string, raw any) {
	c, ok := g.cols.column(id)
	if !ok {
		return
	}
	c.Filter = raw
	g.cols.specs[id] = PrepareFilterSpec(raw)
	g.renderHeader()
	g.Refresh()
}

// ColumnFilterSpec returns the normalized filter spec of a column, or nil.
func (g *Grid) ColumnFilterSpec(id string) *FilterSpec {
	return g.cols.spec(id)
}
