package handlers

import (
	"io"
	"net/http"

	"github.com/quadrahub/chaveamento/services"
)

type SnapshotHandler struct {
	snapshots services.SnapshotService
}

func NewSnapshotHandler(snapshots services.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// Export serves the full tournament snapshot as a downloadable JSON
// document.
func (h *SnapshotHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshots.Export()

	headers := http.Header{}
	headers.Set("Content-Disposition", `attachment; filename="tournament.json"`)
	if err := writeJSON(w, http.StatusOK, snap, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Import adopts an uploaded snapshot wholesale. The body is validated
// minimally; missing or malformed sub-fields fall back to their empty
// defaults, but a payload that is not a JSON object is rejected with
// no state change.
func (h *SnapshotHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snap, err := h.snapshots.Import(r.Context(), raw)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, snap, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Backup pushes the current snapshot to the configured object storage.
func (h *SnapshotHandler) Backup(w http.ResponseWriter, r *http.Request) {
	key, err := h.snapshots.Backup(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"key": key,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
