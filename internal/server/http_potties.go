package server

import (
	"net/http"
)

const pottyNotFound = "potty not found"

// handleListPotties handles GET /api/potties.
func (s *PottyServer) handleListPotties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	_, hasStatus := q["status"]

	potties, err := s.listPotties(r.Context(), q.Get("status"), hasStatus)
	if err != nil {
		s.writeServiceError(w, r, err, pottyNotFound)
		return
	}
	writeJSON(w, http.StatusOK, potties)
}

// handleCreatePotty handles POST /api/potties.
func (s *PottyServer) handleCreatePotty(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		s.writeServiceError(w, r, err, pottyNotFound)
		return
	}

	p, err := s.createPotty(r.Context(), createPottyInput{
		Status:   fields["status"],
		Location: fields["location"],
	})
	if err != nil {
		s.writeServiceError(w, r, err, pottyNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleGetPotty handles GET /api/potties/{id}.
func (s *PottyServer) handleGetPotty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, pottyNotFound)
		return
	}

	p, err := s.getPotty(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, pottyNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdatePotty handles PATCH /api/potties/{id}. Only "status" is read
// from the body; every other field is ignored.
func (s *PottyServer) handleUpdatePotty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, pottyNotFound)
		return
	}

	var in updatePottyInput
	fields, err := readFields(w, r)
	if err != nil {
		in.bodyErr = err
	} else if v, ok := fields["status"]; ok {
		in.Status = &v
	}

	p, err := s.updatePotty(r.Context(), id, in)
	if err != nil {
		s.writeServiceError(w, r, err, pottyNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
