package handlers

import (
	"net/http"
	"strings"

	"garage-backend/internal/models"
	"garage-backend/internal/services"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type ReceiptHandler struct {
	Service *services.ReceiptService
}

func NewReceiptHandler(s *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{Service: s}
}

// CreateReceipt handles POST /api/receipts
func (h *ReceiptHandler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReceiptRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.Service.CreateReceipt(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Lập phiếu thu thành công"
	if result.Settled {
		message = "Lập phiếu thu thành công. Xe đã thanh toán hết nợ"
	}
	writeResult(w, http.StatusCreated, message, result)
}

func (h *ReceiptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	receipt, err := h.Service.GetReceipt(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, receipt)
}

// List handles GET /api/receipts?plate=... or ?from=...&to=...
func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	if plate := strings.TrimSpace(r.URL.Query().Get("plate")); plate != "" {
		writeJSON(w, h.Service.ListReceiptsByPlate(r.Context(), plate))
		return
	}

	from, err := queryDate(r, "from")
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		writeError(w, err)
		return
	}

	receipts, err := h.Service.ListReceiptsByDateRange(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, receipts)
}

// Debt handles GET /api/receipts/debt/{plate}
func (h *ReceiptHandler) Debt(w http.ResponseWriter, r *http.Request) {
	plate := mux.Vars(r)["plate"]
	info := h.Service.GetVehicleDebtInfo(r.Context(), plate)
	if info == nil {
		writeError(w, &services.NotFoundError{Entity: "car", Key: plate, Message: "Không tìm thấy xe " + strings.ToUpper(plate)})
		return
	}

	writeJSON(w, map[string]interface{}{
		"vehicle":    info,
		"latest":     h.Service.GetLatestReceptionWithDebt(r.Context(), plate),
		"receptions": h.Service.ListReceptionsWithDebt(r.Context(), plate),
	})
}

type paymentCheckRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Debt   decimal.Decimal `json:"debt"`
}

// CheckPayment handles POST /api/receipts/check, a dry run of the overpayment rule
func (h *ReceiptHandler) CheckPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentCheckRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, h.Service.CheckPaymentAllowed(r.Context(), req.Amount, req.Debt))
}
