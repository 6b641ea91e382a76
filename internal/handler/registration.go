package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ganbold/flaming-cliffs/backend/internal/service"
)

// listRegistrations handles GET /api/registrations.
// Supports ?period=today|week|month|year|all; anything else falls back to
// today. Returns active registrations only, newest first.
func (s *Server) listRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := s.registrations.List(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, r, err, "registrations not found")
		return
	}
	respondJSON(w, http.StatusOK, regs)
}

// getRegistration handles GET /api/registrations/{id}.
func (s *Server) getRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondJSON(w, http.StatusNotFound, notFoundBody("registration not found"))
		return
	}

	reg, err := s.registrations.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "registration not found")
		return
	}
	respondJSON(w, http.StatusOK, reg)
}

// createRegistration handles POST /api/registrations.
func (s *Server) createRegistration(w http.ResponseWriter, r *http.Request) {
	var input service.RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, requestBody("malformed request body"))
		return
	}

	created, err := s.registrations.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, err, "registration not found")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// updateRegistration handles PUT /api/registrations/{id}.
// The update is a full-field overwrite of the mutable fields.
func (s *Server) updateRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondJSON(w, http.StatusNotFound, notFoundBody("registration not found"))
		return
	}

	var input service.RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, requestBody("malformed request body"))
		return
	}

	updated, err := s.registrations.Update(r.Context(), id, input)
	if err != nil {
		respondError(w, r, err, "registration not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// cancelRegistration handles DELETE /api/registrations/{id}.
// The record is soft-deleted: status flips to cancelled and the registration
// stops counting in every statistic. Cancelling twice is allowed.
func (s *Server) cancelRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondJSON(w, http.StatusNotFound, notFoundBody("registration not found"))
		return
	}

	if err := s.registrations.Cancel(r.Context(), id); err != nil {
		respondError(w, r, err, "registration not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Registration cancelled successfully"})
}
