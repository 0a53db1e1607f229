package web

// errors.go turns handler errors into responses.
//
// The technical error is logged with the request id. The client gets the
// mapped core.UserMessage as JSON, as an HTML fragment for HTMX requests,
// or as plain text otherwise.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/datagrid/internal/core"
	"github.com/JonMunkholm/datagrid/internal/logging"
	"github.com/JonMunkholm/datagrid/internal/web/templates"
)

// ErrorResponse is the JSON body of API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrSessionNotFound),
		errors.Is(err, core.ErrColumnNotFound),
		errors.Is(err, core.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrCellNotEditable),
		errors.Is(err, core.ErrNoEditor),
		errors.Is(err, core.ErrNoPopup),
		errors.Is(err, core.ErrNotFilterable):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidRequest),
		errors.Is(err, core.ErrRecordID):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the user-facing message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	switch {
	case isHTMX(r):
		renderErrorPartial(r.Context(), w, userMsg, statusCode)
	case wantsJSON(r):
		respondErrorJSON(w, userMsg, statusCode)
	default:
		http.Error(w, msgWithCode(userMsg), statusCode)
	}
}

func msgWithCode(msg core.UserMessage) string {
	return msg.Message + " (" + msg.Code + ")"
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// renderErrorPartial writes an HTMX-swappable error alert.
func renderErrorPartial(ctx context.Context, w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(ctx, w)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON reports whether the client prefers a JSON response. API routes
// always get JSON.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
