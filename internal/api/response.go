package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/erazemk/gearkiosk/internal/model"
)

// envelope is the shape of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, envelope{Success: true, Data: data})
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, reason, message string) {
	writeEnvelope(w, status, envelope{Error: message, Reason: reason})
}

func writeEnvelope(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

// statusFor maps a failure reason to an HTTP status.
var statusFor = map[string]int{
	"validation":         http.StatusBadRequest,
	"conflict":           http.StatusConflict,
	"unauthorized":       http.StatusUnauthorized,
	"not_found":          http.StatusNotFound,
	"teacher_required":   http.StatusForbidden,
	"invalid_state":      http.StatusConflict,
	"item_unavailable":   http.StatusConflict,
	"student_holds_item": http.StatusConflict,
}

// serviceError writes the response for an error returned by the service.
// Storage failures are logged and reported without detail.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	reason := model.Reason(err)
	status, ok := statusFor[reason]
	if !ok {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", RequestID(r.Context()), "error", err)
		jsonError(w, http.StatusInternalServerError, reason, "internal error")
		return
	}

	msg := err.Error()
	if errors.Is(err, model.ErrUnauthorized) {
		msg = model.ErrUnauthorized.Error()
	}
	jsonError(w, status, reason, msg)
}

func badRequest(w http.ResponseWriter, message string) {
	jsonError(w, http.StatusBadRequest, "validation", message)
}

const maxBodySize = 1 << 20

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(target)
}
