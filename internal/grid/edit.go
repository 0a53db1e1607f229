package grid

// EditorKind selects the inline editor widget.
type EditorKind int

const (
	EditorText EditorKind = iota + 1
	EditorChoice
)

func (k EditorKind) String() string {
	switch k {
	case EditorText:
		return "text"
	case EditorChoice:
		return "choice"
	}
	return "unknown"
}

// Key is an editor key event.
type Key int

const (
	KeyEnter Key = iota + 1
	KeyEscape
)

// Editor is the open inline edit of one cell. For choice editors Value holds
// the selected entry id.
type Editor struct {
	Kind     EditorKind
	RecordID string
	ColumnID string
	Options  []FilterEntry
	Value    string
}

// SetValue sets the pending value. A choice editor also accepts an entry
// label and stores the id of the first entry carrying it.
func (e *Editor) SetValue(v string) {
	if e.Kind == EditorChoice {
		for _, opt := range e.Options {
			if opt.ID == v {
				e.Value = v
				return
			}
		}
		for _, opt := range e.Options {
			if opt.Label == v {
				e.Value = opt.ID
				return
			}
		}
	}
	e.Value = v
}

// Editor returns the open editor, or nil.
func (g *Grid) Editor() *Editor {
	return g.edit
}

// CellEditMode opens an inline editor on a cell. List columns get a choice
// editor, columns without a filter or with a text filter a free text editor,
// other columns none. An editor already open is committed first.
func (g *Grid) CellEditMode(id, columnID string) bool {
	if _, ok := g.rows[id]; !ok {
		return false
	}
	if _, ok := g.cols.visibleColumn(columnID); !ok {
		return false
	}
	spec := g.cols.spec(columnID)
	kind := EditorText
	switch {
	case spec == nil || spec.Kind == FilterText:
	case spec.Kind == FilterList:
		kind = EditorChoice
	default:
		return false
	}

	if g.edit != nil {
		g.FinishCellEditMode(true)
	}
	row, ok := g.rows[id]
	if !ok {
		return false
	}

	ed := &Editor{
		Kind:     kind,
		RecordID: id,
		ColumnID: columnID,
		Value:    ValueString(g.records[id][columnID]),
	}
	if kind == EditorChoice {
		ed.Options = spec.EntryList()
	}
	g.edit = ed
	if g.editors != nil {
		g.editors.ShowEditor(row, columnID, ed)
	}
	return true
}

// FinishCellEditMode closes the editor. On commit the OnRecordEditFinished
// hook may veto; otherwise the value is written to the record and its row
// updated. It reports whether a value was written.
func (g *Grid) FinishCellEditMode(commit bool) bool {
	ed := g.edit
	if ed == nil {
		return false
	}
	g.edit = nil
	if row, ok := g.rows[ed.RecordID]; ok && g.editors != nil {
		g.editors.HideEditor(row, ed.ColumnID)
	}
	if !commit {
		return false
	}

	rec, ok := g.records[ed.RecordID]
	if !ok {
		return false
	}
	if g.hooks.OnRecordEditFinished != nil && !g.hooks.OnRecordEditFinished(ed.RecordID, ed.ColumnID, ed.Value) {
		return false
	}
	rec[ed.ColumnID] = ed.Value
	g.UpdateItem(ed.RecordID)
	return true
}

// EditorKey handles a key press in the editor.
func (g *Grid) EditorKey(k Key) {
	switch k {
	case KeyEnter:
		g.FinishCellEditMode(true)
	case KeyEscape:
		g.FinishCellEditMode(false)
	}
}

// EditorBlur commits the editor when it loses focus.
func (g *Grid) EditorBlur() {
	g.FinishCellEditMode(true)
}

// EditorChange sets the value and commits.
func (g *Grid) EditorChange(value string) {
	if g.edit == nil {
		return
	}
	g.edit.SetValue(value)
	g.FinishCellEditMode(true)
}
