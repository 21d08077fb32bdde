package handlers

import (
	"net/http"
	"strings"

	"garage-backend/internal/models"
	"garage-backend/internal/services"

	"github.com/gorilla/mux"
)

type RepairHandler struct {
	Service *services.RepairService
}

func NewRepairHandler(s *services.RepairService) *RepairHandler {
	return &RepairHandler{Service: s}
}

// CreateTicket handles POST /api/repairs
func (h *RepairHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRepairRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.Service.CreateRepairTicket(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, "Lập phiếu sửa chữa thành công", result)
}

// Get returns the ticket with its lines
func (h *RepairHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	repair, err := h.Service.GetRepair(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"repair":  repair,
		"details": h.Service.GetRepairDetails(r.Context(), id),
	})
}

// LatestReception handles GET /api/repairs/receptions/{plate}
func (h *RepairHandler) LatestReception(w http.ResponseWriter, r *http.Request) {
	plate := mux.Vars(r)["plate"]
	reception := h.Service.GetLatestReceptionByPlate(r.Context(), plate)
	if reception == nil {
		writeError(w, &services.NotFoundError{Entity: "reception", Key: plate,
			Message: "Không tìm thấy phiếu tiếp nhận cho xe " + strings.ToUpper(plate)})
		return
	}
	writeJSON(w, reception)
}

func (h *RepairHandler) Supplies(w http.ResponseWriter, r *http.Request) {
	supplies, err := h.Service.ListSupplies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, supplies)
}

// Wages lists labor items; the picker's first entry is the no-wage placeholder
func (h *RepairHandler) Wages(w http.ResponseWriter, r *http.Request) {
	wages, err := h.Service.ListWages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"placeholder": models.NoWagePlaceholder,
		"wages":       wages,
	})
}

// InventoryCheck handles GET /api/repairs/inventory-check?supply=...&qty=...
func (h *RepairHandler) InventoryCheck(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("supply")
	if strings.TrimSpace(name) == "" {
		writeError(w, &services.ValidationError{Field: "supply", Message: "Vui lòng chọn vật tư"})
		return
	}
	writeJSON(w, h.Service.CheckSupplyInventory(r.Context(), name, queryInt(r, "qty", 1)))
}
