package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/platform/obs"
	"route-cost-service/internal/services"

	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps err to a status and client message and logs the
// failures that are not the caller's fault.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("req_id", obs.RequestID(r.Context())).Str("path", r.URL.Path).Msg("request failed")
	}
	writeError(w, r, status, msg)
}

// StatusFor maps the error taxonomy onto an HTTP status and the message
// returned in the {"error": ...} body. A search cut short by the request
// context reports the context error, not the missing route.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	case errors.Is(err, context.Canceled):
		return 499, "request canceled"
	case errors.Is(err, domain.ErrNoSolutionFound):
		return http.StatusUnprocessableEntity, domain.ErrNoSolutionFound.Error()
	case domain.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnreachableLeg):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrProviderUnavailable), errors.Is(err, services.ErrPoolShutdown):
		return http.StatusServiceUnavailable, "distance provider or solver unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// decodeStrict reads exactly one JSON object with no unknown fields into dst.
// It writes the 400 response itself and reports false on failure.
func decodeStrict(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func allowOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}
