package handlers

import (
	"net/http"

	"garage-backend/internal/models"
	"garage-backend/internal/services"
)

type CatalogHandler struct {
	Service *services.CatalogService
}

func NewCatalogHandler(s *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

// Overview handles GET /api/catalog, all three lists at once
func (h *CatalogHandler) Overview(w http.ResponseWriter, r *http.Request) {
	brands, err := h.Service.ListBrands(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	supplies, err := h.Service.ListSupplies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	wages, err := h.Service.ListWages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"brands":   brands,
		"supplies": supplies,
		"wages":    wages,
	})
}

// SaveAll handles PUT /api/catalog, the batch save of the settings screen
func (h *CatalogHandler) SaveAll(w http.ResponseWriter, r *http.Request) {
	var req models.SaveAllSettingsRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.SaveAllSettings(r.Context(), req, sessionUserID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, "Đã lưu thay đổi", nil)
}

// ==================== Brands ====================

func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.Service.ListBrands(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, brands)
}

func (h *CatalogHandler) AddBrand(w http.ResponseWriter, r *http.Request) {
	var req models.BrandRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.Service.AddBrand(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, "Thêm hiệu xe thành công", map[string]int{"id": id})
}

func (h *CatalogHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req models.BrandRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.UpdateBrand(r.Context(), id, req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, "Cập nhật hiệu xe thành công", nil)
}

func (h *CatalogHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.DeleteBrand(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, "Xóa hiệu xe thành công", nil)
}

// ==================== Supplies ====================

func (h *CatalogHandler) ListSupplies(w http.ResponseWriter, r *http.Request) {
	supplies, err := h.Service.ListSupplies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, supplies)
}

func (h *CatalogHandler) AddSupply(w http.ResponseWriter, r *http.Request) {
	var req models.SupplyRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.Service.AddSupply(r.Context(), req.Name, req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, "Thêm vật tư thành công", map[string]int{"id": id})
}

func (h *CatalogHandler) UpdateSupply(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req models.SupplyRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.UpdateSupply(r.Context(), id, req.Name, req.Price); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, "Cập nhật vật tư thành công", nil)
}

func (h *CatalogHandler) DeleteSupply(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.DeleteSupply(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, "Xóa vật tư thành công", nil)
}

// ==================== Wages ====================

func (h *CatalogHandler) ListWages(w http.ResponseWriter, r *http.Request) {
	wages, err := h.Service.ListWages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, wages)
}

func (h *CatalogHandler) AddWage(w http.ResponseWriter, r *http.Request) {
	var req models.WageRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.Service.AddWage(r.Context(), req.Name, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, "Thêm tiền công thành công", map[string]int{"id": id})
}

func (h *CatalogHandler) UpdateWage(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req models.WageRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.UpdateWage(r.Context(), id, req.Name, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, "Cập nhật tiền công thành công", nil)
}

func (h *CatalogHandler) DeleteWage(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.DeleteWage(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, "Xóa tiền công thành công", nil)
}
