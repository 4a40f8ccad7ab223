package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

// NewHTTPHandler returns an http.Handler with all routes and middleware registered.
func (s *PottyServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/potties", s.handleListPotties)
	mux.HandleFunc("POST /api/potties", s.handleCreatePotty)
	mux.HandleFunc("GET /api/potties/{id}", s.handleGetPotty)
	mux.HandleFunc("PATCH /api/potties/{id}", s.handleUpdatePotty)
	mux.HandleFunc("GET /subscribers", s.handleListSubscribers)
	mux.HandleFunc("POST /subscribers", s.handleCreateSubscriber)
	mux.HandleFunc("GET /subscribers/{id}", s.handleGetSubscriber)
	mux.HandleFunc("DELETE /subscribers/{id}", s.handleDeleteSubscriber)
	mux.HandleFunc("GET /api/events", s.handleEventStream)
	mux.HandleFunc("GET /health", s.handleHealth)

	var h http.Handler = mux
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
		// Innermost, so it sees the pattern the mux matched.
		h = s.metrics.Middleware(h)
	}
	h = s.recoverMiddleware(h)
	h = s.accessLogMiddleware(h)
	return requestIDMiddleware(h)
}

// handleHealth handles GET /health.
func (s *PottyServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathID parses the {id} path segment. Anything that is not a positive
// integer cannot name a record.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeServiceError maps a service error onto a status code. notFound is the
// message used for sql.ErrNoRows.
func (s *PottyServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var ie inputError
	switch {
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, notFound)
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
