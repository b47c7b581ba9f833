package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quadrahub/chaveamento/models"
	"github.com/quadrahub/chaveamento/services"
)

type TeamHandler struct {
	tournaments services.TournamentService
}

func NewTeamHandler(tournaments services.TournamentService) *TeamHandler {
	return &TeamHandler{tournaments: tournaments}
}

func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	modality, err := getModalityFromURL(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	teams, err := h.tournaments.Teams(modality)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"modality": modality,
		"teams":    teams,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	modality, err := getModalityFromURL(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournaments.AddTeam(r.Context(), modality, input.Name); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	teams, err := h.tournaments.Teams(modality)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"modality": modality,
		"teams":    teams,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	modality, err := getModalityFromURL(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	name := chi.URLParam(r, "name")
	if name == "" {
		badRequestResponse(w, r, errors.New("missing team name in URL path"))
		return
	}

	if err := h.tournaments.RemoveTeam(r.Context(), modality, name); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getModalityFromURL extracts and validates the {modality} URL segment.
func getModalityFromURL(r *http.Request) (models.Modality, error) {
	modality := models.Modality(chi.URLParam(r, "modality"))
	if !modality.Valid() {
		return "", services.ErrUnknownModality
	}
	return modality, nil
}
