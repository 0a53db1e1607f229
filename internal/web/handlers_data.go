package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datagrid/internal/core"
	"github.com/JonMunkholm/datagrid/internal/grid"
)

// handleSetColumns replaces the column declarations.
func (s *Server) handleSetColumns(w http.ResponseWriter, r *http.Request) {
	var columns []grid.Column
	if err := s.decodeJSON(w, r, &columns); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.apply(w, r, func(g *grid.Grid) error {
		g.SetColumns(columns)
		return nil
	})
}

// handleColumnVisible shows or hides one column.
func (s *Server) handleColumnVisible(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Visible bool `json:"visible"`
	}
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	col := chi.URLParam(r, "col")
	s.apply(w, r, func(g *grid.Grid) error {
		if _, known := g.IsColumnVisible(col); !known {
			return core.ErrColumnNotFound
		}
		g.SetColumnVisible(col, req.Visible)
		return nil
	})
}

// handleSetRecords replaces the record collection. The body is a list of
// records or an object keyed by record id.
func (s *Server) handleSetRecords(w http.ResponseWriter, r *http.Request) {
	var records any
	if err := s.decodeJSON(w, r, &records); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.apply(w, r, func(g *grid.Grid) error {
		g.SetRecords(records)
		return nil
	})
}

// handlePutRecord inserts or replaces one record and reconciles its row.
// The id in the path wins over an id in the body.
func (s *Server) handlePutRecord(w http.ResponseWriter, r *http.Request) {
	var rec grid.Record
	if err := s.decodeJSON(w, r, &rec); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if rec == nil {
		rec = grid.Record{}
	}
	rec[grid.IDField] = chi.URLParam(r, "rid")
	s.apply(w, r, func(g *grid.Grid) error {
		if !g.PutRecord(rec) {
			return core.ErrRecordID
		}
		return nil
	})
}

// handleDeleteRecord removes a record and its rows.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	rid := chi.URLParam(r, "rid")
	s.apply(w, r, func(g *grid.Grid) error {
		if _, ok := g.Item(rid); !ok {
			return core.ErrRecordNotFound
		}
		g.RemoveItem(rid)
		return nil
	})
}

// handleShowDetail opens the detail row below a visible record.
func (s *Server) handleShowDetail(w http.ResponseWriter, r *http.Request) {
	rid := chi.URLParam(r, "rid")
	s.apply(w, r, func(g *grid.Grid) error {
		if _, ok := g.ShowItemInfo(rid); !ok {
			return core.ErrRecordNotFound
		}
		return nil
	})
}

// handleHideDetail closes a detail row. Closing a closed one is not an error.
func (s *Server) handleHideDetail(w http.ResponseWriter, r *http.Request) {
	rid := chi.URLParam(r, "rid")
	s.apply(w, r, func(g *grid.Grid) error {
		if _, ok := g.Item(rid); !ok {
			return core.ErrRecordNotFound
		}
		g.HideItemInfo(rid)
		return nil
	})
}
