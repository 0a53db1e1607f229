package grid

// Handle is an opaque reference to one rendered row, owned by the Presenter.
type Handle any

// HeaderCell describes one header cell of a visible column.
type HeaderCell struct {
	ID            string
	Title         string
	Tooltip       string
	FilterTooltip string
	SortHint      string
	Width         string
	Align         string
	Sortable      bool
	Filterable    bool
	Filtered      bool
	Sort          int // 1 ascending, -1 descending, 0 not sorted
}

// Presenter translates row-handle operations into view mutations.
//
// MoveAfter with a nil after handle moves h to the first position.
type Presenter interface {
	RenderHeader(cells []HeaderCell)
	CreateRow(id string, cells []Cell) Handle
	UpdateRow(h Handle, cells []Cell)
	CreateDetail(id string, span int) Handle
	MoveAfter(h, after Handle)
	Destroy(h Handle)
}

// EditorPresenter is implemented by presenters that can show inline editors.
type EditorPresenter interface {
	ShowEditor(row Handle, columnID string, ed *Editor)
	HideEditor(row Handle, columnID string)
}

type nopRow struct{ id string }

// nopPresenter hands out distinct handles and draws nothing.
type nopPresenter struct{}

func (nopPresenter) RenderHeader([]HeaderCell) {}
func (nopPresenter) CreateRow(id string, _ []Cell) Handle { return &nopRow{id: id} }
func (nopPresenter) UpdateRow(Handle, []Cell) {}
func (nopPresenter) CreateDetail(id string, _ int) Handle { return &nopRow{id: id} }
func (nopPresenter) MoveAfter(Handle, Handle) {}
func (nopPresenter) Destroy(Handle) {}
