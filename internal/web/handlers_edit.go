package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/datagrid/internal/core"
	"github.com/JonMunkholm/datagrid/internal/grid"
)

type openEditorRequest struct {
	RecordID string `json:"recordId"`
	ColumnID string `json:"columnId"`
}

// handleOpenEditor opens the inline editor on a cell, committing any editor
// already open.
func (s *Server) handleOpenEditor(w http.ResponseWriter, r *http.Request) {
	var req openEditorRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.apply(w, r, func(g *grid.Grid) error {
		if _, ok := g.ItemRowView(req.RecordID); !ok {
			return core.ErrRecordNotFound
		}
		if visible, _ := g.IsColumnVisible(req.ColumnID); !visible {
			return core.ErrColumnNotFound
		}
		if !g.CellEditMode(req.RecordID, req.ColumnID) {
			return core.ErrCellNotEditable
		}
		return nil
	})
}

type editorValueRequest struct {
	Value  string `json:"value"`
	Commit bool   `json:"commit"`
}

// handleEditorValue sets the editor value. With commit the value is written
// as a choice change or Enter would.
func (s *Server) handleEditorValue(w http.ResponseWriter, r *http.Request) {
	var req editorValueRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.apply(w, r, func(g *grid.Grid) error {
		ed := g.Editor()
		if ed == nil {
			return core.ErrNoEditor
		}
		if req.Commit {
			g.EditorChange(req.Value)
			return nil
		}
		ed.SetValue(req.Value)
		return nil
	})
}

// handleCloseEditor closes the editor. ?commit=true writes the value, as
// blur does; otherwise the edit is cancelled, as Escape does.
func (s *Server) handleCloseEditor(w http.ResponseWriter, r *http.Request) {
	commit, _ := strconv.ParseBool(r.URL.Query().Get("commit"))
	s.apply(w, r, func(g *grid.Grid) error {
		if g.Editor() == nil {
			return core.ErrNoEditor
		}
		if commit {
			g.EditorBlur()
		} else {
			g.EditorKey(grid.KeyEscape)
		}
		return nil
	})
}
