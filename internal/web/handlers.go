package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datagrid/internal/core"
	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/logging"
)

// handleHealth reports liveness and the number of sessions.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
	})
}

// handleCreateGrid creates a session from a CreateParams body. Without an
// explicit lang the Accept-Language header picks the label language.
func (s *Server) handleCreateGrid(w http.ResponseWriter, r *http.Request) {
	var p core.CreateParams
	if err := s.decodeJSON(w, r, &p); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if p.Lang == "" {
		p.Lang = r.Header.Get("Accept-Language")
	}

	ctx := WithRequestMetadata(r.Context(), r)
	sess, err := s.service.CreateSession(ctx, p)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	snap, err := sess.Snapshot()
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	logging.WithFields(r.Context(), "session", sess.ID).Info("grid created via api", "name", sess.Name)
	writeJSON(w, http.StatusCreated, snap)
}

// handleListGrids lists the live sessions.
func (s *Server) handleListGrids(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Sessions())
}

// handleDeleteGrid closes a session.
func (s *Server) handleDeleteGrid(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteSession(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRows returns the rendered rows and view state.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	snap, err := sess.Snapshot()
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleGridPage renders a standalone HTML page for a session.
func (s *Server) handleGridPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := sess.RenderPage(r.Context(), w); err != nil {
		s.respondError(w, r, err, statusFor(err))
	}
}

// handleGridTable renders the grid table as a fragment for HTMX swaps.
func (s *Server) handleGridTable(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := sess.RenderTable(r.Context(), w); err != nil {
		s.respondError(w, r, err, statusFor(err))
	}
}

// lookupSession resolves the {id} URL parameter, writing the error response
// when the session does not exist.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*core.Session, bool) {
	sess, err := s.service.Session(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return nil, false
	}
	return sess, true
}

// decodeJSON reads a size-limited JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
	}
	return nil
}

// apply runs fn on the session grid and responds with the new snapshot.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, fn func(g *grid.Grid) error) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	snap, err := sess.Apply(fn)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
