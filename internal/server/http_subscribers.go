package server

import "net/http"

const subscriberNotFound = "subscriber not found"

// handleCreateSubscriber handles POST /subscribers.
func (s *PottyServer) handleCreateSubscriber(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		s.writeServiceError(w, r, err, subscriberNotFound)
		return
	}

	sub, err := s.createSubscriber(r.Context(), fields["url"])
	if err != nil {
		s.writeServiceError(w, r, err, subscriberNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// handleListSubscribers handles GET /subscribers.
func (s *PottyServer) handleListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := s.listSubscribers(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, subscriberNotFound)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// handleGetSubscriber handles GET /subscribers/{id}.
func (s *PottyServer) handleGetSubscriber(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, subscriberNotFound)
		return
	}
	sub, err := s.getSubscriber(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, subscriberNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// handleDeleteSubscriber handles DELETE /subscribers/{id}.
func (s *PottyServer) handleDeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, subscriberNotFound)
		return
	}
	if err := s.deleteSubscriber(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, subscriberNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
