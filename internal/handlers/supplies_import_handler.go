package handlers

import (
	"net/http"

	"garage-backend/internal/models"
	"garage-backend/internal/services"
)

type SuppliesImportHandler struct {
	Service *services.SuppliesImportService
}

func NewSuppliesImportHandler(s *services.SuppliesImportService) *SuppliesImportHandler {
	return &SuppliesImportHandler{Service: s}
}

// History handles GET /api/imports?limit=N
func (h *SuppliesImportHandler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.GetImportHistory(r.Context(), queryInt(r, "limit", 0)))
}

func (h *SuppliesImportHandler) Supplies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.ListSuppliesForImport(r.Context()))
}

// Create handles POST /api/imports
func (h *SuppliesImportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateImportRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.Service.CreateImportTicket(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, "Nhập vật tư thành công", result)
}
