package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quadrahub/chaveamento/brackets"
	"github.com/quadrahub/chaveamento/services"
)

type BracketHandler struct {
	tournaments services.TournamentService
}

func NewBracketHandler(tournaments services.TournamentService) *BracketHandler {
	return &BracketHandler{tournaments: tournaments}
}

// GetBracket returns the rounds with their display titles, the lock
// flag and the champion when the final is decided.
func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	modality, err := getModalityFromURL(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	view, err := h.tournaments.BracketView(modality)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"modality": modality,
		"bracket":  view,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	modality, err := getModalityFromURL(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	if _, err := h.tournaments.GenerateBracket(r.Context(), modality); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	view, err := h.tournaments.BracketView(modality)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"modality": modality,
		"bracket":  view,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) RecordScore(w http.ResponseWriter, r *http.Request) {
	modality, err := getModalityFromURL(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	roundIdx, err := getIndexFromURL(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchIdx, err := getIndexFromURL(r, "match")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		ScoreA *int `json:"scoreA"`
		ScoreB *int `json:"scoreB"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ScoreA == nil || input.ScoreB == nil {
		mapServiceErrorToHTTP(w, r, fmt.Errorf("%w: both scoreA and scoreB are required", brackets.ErrInvalidScore))
		return
	}

	if err := h.tournaments.RecordScore(r.Context(), modality, roundIdx, matchIdx, *input.ScoreA, *input.ScoreB); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	view, err := h.tournaments.BracketView(modality)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"modality": modality,
		"bracket":  view,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetTournament discards the bracket and unlocks the team list. The
// team list itself is kept.
func (h *BracketHandler) ResetTournament(w http.ResponseWriter, r *http.Request) {
	modality, err := getModalityFromURL(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	if err := h.tournaments.ResetTournament(r.Context(), modality); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func getIndexFromURL(r *http.Request, paramName string) (int, error) {
	idxStr := chi.URLParam(r, paramName)
	if idxStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}

	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idxStr)
	}
	if idx < 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, idx)
	}
	return idx, nil
}
