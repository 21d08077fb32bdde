package handlers

import (
	"net/http"

	"garage-backend/internal/models"
	"garage-backend/internal/services"
	"garage-backend/internal/timeutil"

	"github.com/gorilla/mux"
)

type ReceptionHandler struct {
	Service *services.ReceptionService
}

func NewReceptionHandler(s *services.ReceptionService) *ReceptionHandler {
	return &ReceptionHandler{Service: s}
}

// ReceiveCar handles POST /api/receptions
func (h *ReceptionHandler) ReceiveCar(w http.ResponseWriter, r *http.Request) {
	var req models.ReceiveCarRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.Service.ReceiveCar(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, "Tiếp nhận xe thành công", result)
}

// ListOnDate handles GET /api/receptions?date=YYYY-MM-DD
func (h *ReceptionHandler) ListOnDate(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, h.Service.ListReceptionsOnDate(r.Context(), date))
}

// Capacity handles GET /api/receptions/capacity?date=YYYY-MM-DD
func (h *ReceptionHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, err)
		return
	}

	capacity, err := h.Service.GetDailyCapacity(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, capacity)
}

func (h *ReceptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	reception, err := h.Service.GetReception(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, reception)
}

// Car handles GET /api/receptions/cars/{plate} for form prefill; 404 when unknown
func (h *ReceptionHandler) Car(w http.ResponseWriter, r *http.Request) {
	plate := mux.Vars(r)["plate"]
	car := h.Service.GetCarByPlate(r.Context(), plate)
	if car == nil {
		writeError(w, &services.NotFoundError{Entity: "car", Key: plate, Message: "Không tìm thấy xe " + plate})
		return
	}
	writeJSON(w, car)
}

func (h *ReceptionHandler) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.Service.ListBrands(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, brands)
}

// Today handles GET /api/receptions/today, the intake form header
func (h *ReceptionHandler) Today(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"date":              timeutil.FormatDate(timeutil.Today()),
		"max_car_reception": h.Service.GetMaxCarReception(r.Context()),
	})
}
