package handlers

import (
	"net/http"

	"garage-backend/internal/models"
	"garage-backend/internal/services"

	"github.com/gorilla/mux"
)

type SystemSettingHandler struct {
	Service *services.SystemSettingService
}

func NewSystemSettingHandler(service *services.SystemSettingService) *SystemSettingHandler {
	return &SystemSettingHandler{Service: service}
}

func (h *SystemSettingHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.ListSettings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, settings)
}

func (h *SystemSettingHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.Service.GetSetting(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, setting)
}

func (h *SystemSettingHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.UpsertSetting(r.Context(), mux.Vars(r)["key"], req.SettingValue, "", sessionUserID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, "Đã cập nhật quy định", nil)
}

func (h *SystemSettingHandler) GetMaxCars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{"value": h.Service.GetMaxCarsPerDay(r.Context())})
}

func (h *SystemSettingHandler) SetMaxCars(w http.ResponseWriter, r *http.Request) {
	var req models.SetMaxCarsRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.SetMaxCarsPerDay(r.Context(), req.Value, sessionUserID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, "Đã cập nhật số xe tiếp nhận tối đa", map[string]int{"value": req.Value})
}

func (h *SystemSettingHandler) GetOverPay(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"allowed": h.Service.GetIsOverPay(r.Context())})
}

func (h *SystemSettingHandler) SetOverPay(w http.ResponseWriter, r *http.Request) {
	var req models.SetOverPayRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.SetIsOverPay(r.Context(), req.Allowed, sessionUserID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, "Đã cập nhật quy định thu tiền", map[string]bool{"allowed": req.Allowed})
}
