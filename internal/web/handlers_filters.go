package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datagrid/internal/core"
	"github.com/JonMunkholm/datagrid/internal/grid"
)

// handleSetSort sorts by a visible column without firing sort hooks.
func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var req core.SortParams
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.apply(w, r, func(g *grid.Grid) error {
		if !g.SetSortParams(req.Column, req.Direction) {
			return core.ErrColumnNotFound
		}
		return nil
	})
}

// handleHeaderClick toggles the sort as a header click does. A click on a
// column that is not sortable leaves the sort unchanged.
func (s *Server) handleHeaderClick(w http.ResponseWriter, r *http.Request) {
	col := chi.URLParam(r, "col")
	s.apply(w, r, func(g *grid.Grid) error {
		if visible, _ := g.IsColumnVisible(col); !visible {
			return core.ErrColumnNotFound
		}
		g.HeaderClick(col)
		return nil
	})
}

// handleGetFilters returns the active filters.
func (s *Server) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var filters grid.Filters
	err := sess.Do(func(g *grid.Grid) error {
		filters = g.FilterSettings()
		return nil
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, filters)
}

// handleSetFilters replaces all filters.
func (s *Server) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var filters grid.Filters
	if err := s.decodeJSON(w, r, &filters); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.apply(w, r, func(g *grid.Grid) error {
		g.SetFilterSettings(filters)
		return nil
	})
}

// handleClearFilter removes the filter of one column.
func (s *Server) handleClearFilter(w http.ResponseWriter, r *http.Request) {
	col := chi.URLParam(r, "col")
	s.apply(w, r, func(g *grid.Grid) error {
		if _, known := g.IsColumnVisible(col); !known {
			return core.ErrColumnNotFound
		}
		g.ClearColumnFilter(col)
		return nil
	})
}

// popupView is the JSON form of an open filter popup.
type popupView struct {
	Column  string            `json:"column"`
	Kind    string            `json:"kind"`
	Items   []popupItemView   `json:"items,omitempty"`
	Values  map[string]string `json:"values,omitempty"`
	Pending bool              `json:"pending"`
}

type popupItemView struct {
	ID      string            `json:"id"`
	Label   string            `json:"label"`
	Style   map[string]string `json:"style,omitempty"`
	Checked bool              `json:"checked"`
}

// popupSlots lists the input slots a popup of kind shows.
func popupSlots(kind grid.FilterKind) []string {
	switch kind {
	case grid.FilterText:
		return []string{grid.SlotValue}
	case grid.FilterNumber:
		return []string{grid.SlotMin, grid.SlotMax, grid.SlotEqual}
	case grid.FilterDateRange:
		return []string{grid.SlotStartDate, grid.SlotEndDate}
	default:
		return nil
	}
}

func newPopupView(g *grid.Grid, p *grid.FilterPopup) popupView {
	v := popupView{
		Column:  p.ColumnID(),
		Kind:    p.Kind().String(),
		Pending: g.FilterPending(),
	}
	for _, it := range p.Items() {
		v.Items = append(v.Items, popupItemView{
			ID:      it.Entry.ID,
			Label:   it.Entry.Label,
			Style:   it.Entry.Style,
			Checked: it.Checked,
		})
	}
	if slots := popupSlots(p.Kind()); len(slots) > 0 {
		v.Values = make(map[string]string, len(slots))
		for _, slot := range slots {
			v.Values[slot] = p.Value(slot)
		}
	}
	return v
}

// popupRequest updates an open popup: Toggle flips a list entry, Slot and
// Value set a text, number or date input. Flush applies a pending change now.
type popupRequest struct {
	Toggle string `json:"toggle,omitempty"`
	Slot   string `json:"slot,omitempty"`
	Value  string `json:"value"`
	Flush  bool   `json:"flush,omitempty"`
}

func setPopupSlot(p *grid.FilterPopup, slot, value string) bool {
	switch slot {
	case grid.SlotValue:
		return p.SetText(value)
	case grid.SlotMin:
		return p.SetMin(value)
	case grid.SlotMax:
		return p.SetMax(value)
	case grid.SlotEqual:
		return p.SetEqual(value)
	case grid.SlotStartDate:
		return p.SetStartDate(value)
	case grid.SlotEndDate:
		return p.SetEndDate(value)
	default:
		return false
	}
}

// popupDo runs fn with the open popup and responds with its view.
func (s *Server) popupDo(w http.ResponseWriter, r *http.Request, fn func(g *grid.Grid) (*grid.FilterPopup, error)) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var view popupView
	err := sess.Do(func(g *grid.Grid) error {
		p, err := fn(g)
		if err != nil {
			return err
		}
		view = newPopupView(g, p)
		return nil
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleOpenPopup opens the filter popup of a column, closing any other.
func (s *Server) handleOpenPopup(w http.ResponseWriter, r *http.Request) {
	col := chi.URLParam(r, "col")
	s.popupDo(w, r, func(g *grid.Grid) (*grid.FilterPopup, error) {
		if visible, _ := g.IsColumnVisible(col); !visible {
			return nil, core.ErrColumnNotFound
		}
		p, ok := g.OpenFilterPopup(col)
		if !ok {
			return nil, core.ErrNotFilterable
		}
		return p, nil
	})
}

// handleUpdatePopup changes the open popup.
func (s *Server) handleUpdatePopup(w http.ResponseWriter, r *http.Request) {
	var req popupRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.popupDo(w, r, func(g *grid.Grid) (*grid.FilterPopup, error) {
		p := g.Popup()
		if p == nil {
			return nil, core.ErrNoPopup
		}
		switch {
		case req.Toggle != "":
			if !p.Toggle(req.Toggle) {
				return nil, core.ErrInvalidRequest
			}
		case req.Slot != "":
			if !setPopupSlot(p, req.Slot, req.Value) {
				return nil, core.ErrInvalidRequest
			}
		}
		if req.Flush {
			g.FlushFilter()
		}
		return p, nil
	})
}

// handleClosePopup closes the popup, applying a pending change first.
//
// An HTTP client cannot tell a debounced keystroke from a committed one, so
// the draft is flushed here instead of discarded. grid.ClosePopup itself
// still drops pending input; the terminal front-end relies on that for Esc.
func (s *Server) handleClosePopup(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(g *grid.Grid) error {
		if g.Popup() == nil {
			return core.ErrNoPopup
		}
		g.FlushFilter()
		g.ClosePopup()
		return nil
	})
}

// handleResetState clears sort, filters and hidden columns and deletes the
// persisted view state of the grid name.
func (s *Server) handleResetState(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(g *grid.Grid) error {
		g.ResetState()
		return nil
	})
}
