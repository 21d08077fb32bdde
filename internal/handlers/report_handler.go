package handlers

import (
	"fmt"
	"net/http"

	"garage-backend/internal/models"
	"garage-backend/internal/services"
)

type ReportHandler struct {
	Revenue *services.RevenueReportService
	Stock   *services.StockReportService
	Export  *services.ExportService
}

func NewReportHandler(revenue *services.RevenueReportService, stock *services.StockReportService, export *services.ExportService) *ReportHandler {
	return &ReportHandler{
		Revenue: revenue,
		Stock:   stock,
		Export:  export,
	}
}

func period(r *http.Request) (int, int, error) {
	year, err := pathInt(r, "year")
	if err != nil {
		return 0, 0, err
	}
	month, err := pathInt(r, "month")
	if err != nil {
		return 0, 0, err
	}
	return month, year, nil
}

func (h *ReportHandler) ListRevenue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Revenue.ListReports(r.Context()))
}

// GetRevenue handles GET /api/reports/revenue/{year}/{month}, generating on first request
func (h *ReportHandler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	month, year, err := period(r)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := h.Revenue.GetOrCreateMonthlyReport(r.Context(), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, report)
}

func (h *ReportHandler) DeleteRevenue(w http.ResponseWriter, r *http.Request) {
	month, year, err := period(r)
	if err != nil {
		writeError(w, err)
		return
	}

	deleted, err := h.Revenue.DeleteReport(r.Context(), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeDeleted(w, deleted, month, year)
}

func (h *ReportHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Stock.ListReports(r.Context()))
}

// GetStock handles GET /api/reports/stock/{year}/{month}, generating on first request
func (h *ReportHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	month, year, err := period(r)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := h.Stock.GetOrCreateMonthlyReport(r.Context(), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, report)
}

func (h *ReportHandler) DeleteStock(w http.ResponseWriter, r *http.Request) {
	month, year, err := period(r)
	if err != nil {
		writeError(w, err)
		return
	}

	deleted, err := h.Stock.DeleteReport(r.Context(), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeDeleted(w, deleted, month, year)
}

func writeDeleted(w http.ResponseWriter, deleted bool, month, year int) {
	if !deleted {
		writeResult(w, http.StatusOK, fmt.Sprintf("Không có báo cáo tháng %02d/%d", month, year), map[string]bool{"deleted": false})
		return
	}
	writeResult(w, http.StatusOK, fmt.Sprintf("Đã xóa báo cáo tháng %02d/%d", month, year), map[string]bool{"deleted": true})
}

// ExportRevenue handles GET /api/reports/revenue/{year}/{month}/export?format=pdf|xlsx
func (h *ReportHandler) ExportRevenue(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, models.ReportRevenue)
}

// ExportStock handles GET /api/reports/stock/{year}/{month}/export?format=pdf|xlsx
func (h *ReportHandler) ExportStock(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, models.ReportStock)
}

func (h *ReportHandler) export(w http.ResponseWriter, r *http.Request, kind models.ReportKind) {
	month, year, err := period(r)
	if err != nil {
		writeError(w, err)
		return
	}
	format, err := services.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}

	file, err := h.Export.Export(r.Context(), kind, month, year, format)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}
