// Package grid keeps a rendered, filtered and sorted view of a keyed record
// collection in step with the collection through a Presenter.
//
// A Grid is not safe for concurrent use. Owners that call it from several
// goroutines serialize the calls, and route debounced filter callbacks through
// Options.Dispatch so they run under the same serialization.
package grid

import (
	"log/slog"
	"time"

	"github.com/JonMunkholm/datagrid/internal/i18n"
)

// DefaultFilterDebounce is the delay between the last filter keystroke and
// the refresh it triggers.
const DefaultFilterDebounce = 250 * time.Millisecond

// DefaultStoreTimeout bounds each persistence call.
const DefaultStoreTimeout = 5 * time.Second

// Hooks are optional observers and override points. Every field may be nil.
type Hooks struct {
	OnSortChanged   func(columnID string, direction int)
	OnFilterChanged func()

	// OnHeaderClick returning false suppresses the default sort toggle.
	OnHeaderClick func(columnID string) bool
	OnRecordClick func(id, columnID string) bool

	// OnRecordEditFinished returning false vetoes the write.
	OnRecordEditFinished func(id, columnID, value string) bool

	// IsRecordVisible replaces the column filter check. Call g.PassesFilters
	// from it to keep column filters in effect.
	IsRecordVisible func(g *Grid, rec Record) bool

	// Compare replaces the display-text comparator.
	Compare func(a, b Record, columnID string, direction int) int
}

// Options configure a Grid.
type Options struct {
	Name           string
	Presenter      Presenter
	Store          Store
	AutoSave       bool
	StoreTimeout   time.Duration
	FilterDebounce time.Duration
	Logger         *slog.Logger
	Translator     *i18n.Translator
	Styles         *Styles
	Hooks          Hooks

	// Dispatch delivers debounced callbacks. Nil runs them on the timer goroutine.
	Dispatch func(func())
}

// Grid is the reconciliation engine and its view state.
type Grid struct {
	name      string
	presenter Presenter
	editors   EditorPresenter
	store     Store
	autoSave  bool
	timeout   time.Duration
	log       *slog.Logger
	tr        *i18n.Translator
	styles    Styles
	hooks     Hooks

	cols  columnRegistry
	state ViewState

	records map[string]Record
	order   []string
	rows    map[string]Handle
	details map[string]Handle

	edit      *Editor
	popup     *FilterPopup
	debouncer *Debouncer
}

// New creates an empty grid. With AutoSave and a Store set, persisted view
// state is loaded immediately.
func New(opts Options) *Grid {
	g := &Grid{
		name:      opts.Name,
		presenter: opts.Presenter,
		store:     opts.Store,
		timeout:   opts.StoreTimeout,
		log:       opts.Logger,
		tr:        opts.Translator,
		styles:    DefaultStyles(),
		hooks:     opts.Hooks,
		cols:      newColumnRegistry(),
		state:     ViewState{Filters: Filters{}},
		records:   make(map[string]Record),
		rows:      make(map[string]Handle),
		details:   make(map[string]Handle),
	}
	if g.presenter == nil {
		g.presenter = nopPresenter{}
	}
	if ep, ok := g.presenter.(EditorPresenter); ok {
		g.editors = ep
	}
	if g.timeout <= 0 {
		g.timeout = DefaultStoreTimeout
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	g.log = g.log.With("grid", g.name)
	if opts.Styles != nil {
		g.styles = *opts.Styles
	}
	delay := opts.FilterDebounce
	if delay <= 0 {
		delay = DefaultFilterDebounce
	}
	g.debouncer = NewDebouncer(delay, opts.Dispatch)

	if opts.AutoSave {
		g.AutoSaveState(true, g.name)
	}
	return g
}

// Name returns the grid name used for persistence keys.
func (g *Grid) Name() string { return g.name }

// Styles returns the class names the grid was built with.
func (g *Grid) Styles() Styles { return g.styles }

// Translator returns the grid's translator. It may be nil.
func (g *Grid) Translator() *i18n.Translator { return g.tr }

// Presenter returns the presenter receiving row operations.
func (g *Grid) Presenter() Presenter { return g.presenter }

// SetHooks replaces all hooks.
func (g *Grid) SetHooks(h Hooks) { g.hooks = h }

// Close cancels pending debounced work and closes the popup and editor
// without committing.
func (g *Grid) Close() {
	g.ClosePopup()
	g.FinishCellEditMode(false)
	g.debouncer.Cancel()
}

func (g *Grid) text(key string) string {
	return g.tr.TP("grid", key)
}
