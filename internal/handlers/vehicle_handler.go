package handlers

import (
	"net/http"
	"strings"

	"garage-backend/internal/models"
	"garage-backend/internal/services"

	"github.com/gorilla/mux"
)

type VehicleHandler struct {
	Service *services.VehicleLookupService
}

func NewVehicleHandler(s *services.VehicleLookupService) *VehicleHandler {
	return &VehicleHandler{Service: s}
}

// List handles GET /api/vehicles with optional plate, owner, brand and debt_only filters
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.VehicleSearch{
		LicensePlate: q.Get("plate"),
		OwnerName:    q.Get("owner"),
		BrandName:    q.Get("brand"),
	}

	switch {
	case q.Get("debt_only") == "true":
		writeJSON(w, h.Service.ListVehiclesWithDebtOnly(r.Context()))
	case filter.LicensePlate == "" && filter.OwnerName == "" && filter.BrandName != "":
		writeJSON(w, h.Service.ListVehiclesByBrand(r.Context(), filter.BrandName))
	case filter.LicensePlate != "" || filter.OwnerName != "":
		writeJSON(w, h.Service.SearchVehicles(r.Context(), filter))
	default:
		writeJSON(w, h.Service.ListVehiclesWithDebt(r.Context()))
	}
}

func (h *VehicleHandler) Detail(w http.ResponseWriter, r *http.Request) {
	plate := mux.Vars(r)["plate"]
	detail := h.Service.GetVehicleDetail(r.Context(), plate)
	if detail == nil {
		writeError(w, &services.NotFoundError{Entity: "car", Key: plate, Message: "Không tìm thấy xe " + strings.ToUpper(plate)})
		return
	}
	writeJSON(w, detail)
}

func (h *VehicleHandler) Receptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.GetReceptionHistory(r.Context(), mux.Vars(r)["plate"]))
}

func (h *VehicleHandler) Repairs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.GetRepairHistory(r.Context(), mux.Vars(r)["plate"]))
}
