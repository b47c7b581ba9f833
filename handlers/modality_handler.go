package handlers

import (
	"net/http"

	"github.com/quadrahub/chaveamento/models"
	"github.com/quadrahub/chaveamento/services"
)

// ModalityHandler exposes the active modality selection, which travels
// with the exported snapshot so a reload or another device opens on
// the same sport.
type ModalityHandler struct {
	tournaments services.TournamentService
}

func NewModalityHandler(tournaments services.TournamentService) *ModalityHandler {
	return &ModalityHandler{tournaments: tournaments}
}

func (h *ModalityHandler) GetModality(w http.ResponseWriter, r *http.Request) {
	response := jsonResponse{
		"modality":   h.tournaments.Modality(),
		"modalities": models.Modalities(),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ModalityHandler) SetModality(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Modality models.Modality `json:"modality"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournaments.SetModality(r.Context(), input.Modality); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"modality": input.Modality,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
