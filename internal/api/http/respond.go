package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claritas-learn/claritas-backend/internal/auth"
	"github.com/claritas-learn/claritas-backend/internal/course"
	"github.com/claritas-learn/claritas-backend/internal/enroll"
	"github.com/claritas-learn/claritas-backend/internal/llm"
	"github.com/claritas-learn/claritas-backend/internal/prompt"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes: missing resources to 404,
// provider failures to 502, everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	var genErr *llm.GenerationError
	var tmplErr *prompt.MissingPlaceholderError
	switch {
	case errors.Is(err, course.ErrNotFound), errors.Is(err, enroll.ErrNotEnrolled):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &genErr):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": genErr.Error()})
	case errors.As(err, &tmplErr):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": tmplErr.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, auth.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// decodeJSON reads a request body into dst, answering 422 itself on
// malformed input. Returns false when the handler should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "malformed request body"})
		return false
	}
	return true
}

func validationError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": msg})
}
