package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joshharrison/taskweave/internal/store"
	"github.com/joshharrison/taskweave/internal/task"
)

const maxRequestBodySize = 1 << 20

type errorResponse struct {
	Error        string   `json:"error"`
	Kind         string   `json:"kind,omitempty"`
	TaskID       string   `json:"task_id,omitempty"`
	DependencyID string   `json:"dependency_id,omitempty"`
	Cycle        []string `json:"cycle,omitempty"`
}

// readJSON decodes the request body into T. On failure it writes the error
// response and returns false.
func readJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return v, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps engine errors onto status codes. Taxonomy members
// are 422 and carry their kind, plus the offending ids when known.
func writeDomainError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error(), Kind: task.KindName(err)}
	var depErr *task.DependencyError
	if errors.As(err, &depErr) {
		resp.TaskID = depErr.TaskID
		resp.DependencyID = depErr.DependencyID
		resp.Cycle = depErr.Cycle
	}

	switch {
	case errors.Is(err, task.ErrNotFound):
		writeJSON(w, http.StatusNotFound, resp)
	case errors.Is(err, task.ErrDuplicateDependency), errors.Is(err, store.ErrExists):
		writeJSON(w, http.StatusConflict, resp)
	case resp.Kind != "":
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	default:
		slog.Error("unhandled domain error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
