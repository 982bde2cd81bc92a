package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gmgoals/goals/internal/ctxkeys"
	"github.com/gmgoals/goals/internal/repository"
	"github.com/gmgoals/goals/internal/storage"
	"github.com/gmgoals/goals/internal/validation"
)

const maxBodyBytes = 1 << 20

var errMalformedJSON = errors.New("malformed JSON")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// decodeJSON reads a JSON body into v. Syntax errors are errMalformedJSON;
// values of the wrong type are validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validation.Invalid(typeErr.Field, "%s has the wrong type", typeErr.Field)
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return validation.Invalid("body", "request body too large")
	}

	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty body", errMalformedJSON)
	}
	return fmt.Errorf("%w: %w", errMalformedJSON, err)
}

// pathID parses the {id} path segment. Non-integer ids cannot exist, so
// they are reported as not found by the caller.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeServiceError maps domain errors onto status codes in one place.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeDetail(w, http.StatusUnprocessableEntity, verr.Message)
	case errors.Is(err, errMalformedJSON):
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
	case errors.Is(err, repository.ErrGoalNotFound):
		writeDetail(w, http.StatusNotFound, "Goal not found")
	case errors.Is(err, repository.ErrMilestoneNotFound):
		writeDetail(w, http.StatusNotFound, "Milestone not found")
	case errors.Is(err, repository.ErrCheckInNotFound):
		writeDetail(w, http.StatusNotFound, "Check-in not found")
	case errors.Is(err, storage.ErrNotConfigured):
		writeDetail(w, http.StatusServiceUnavailable, "Backup storage not configured")
	default:
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
