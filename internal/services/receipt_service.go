package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"garage-backend/internal/db"
	"garage-backend/internal/metrics"
	"garage-backend/internal/models"
	"garage-backend/internal/repositories"
	"garage-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ReceiptService records payments against reception debt
type ReceiptService struct {
	DB         *db.Gateway
	Receipts   *repositories.ReceiptRepository
	Receptions *repositories.ReceptionRepository
	Settings   *SystemSettingService
}

func NewReceiptService(gw *db.Gateway, settings *SystemSettingService) *ReceiptService {
	return &ReceiptService{
		DB:         gw,
		Receipts:   repositories.NewReceiptRepository(gw.Pool),
		Receptions: repositories.NewReceptionRepository(gw.Pool),
		Settings:   settings,
	}
}

// PaymentPolicy applies the overpayment rule to an amount against the current debt
func PaymentPolicy(amount, debt decimal.Decimal, allowOverpay bool) error {
	if !debt.IsPositive() {
		return rejected(ErrNoDebt, "Phiếu tiếp nhận này không còn nợ")
	}
	if !allowOverpay && amount.GreaterThan(debt) {
		return &OverpaymentError{Amount: amount, Debt: debt}
	}
	return nil
}

// CreateReceipt re-reads the debt under a row lock, applies the overpayment
// rule, records the receipt and lowers the debt in one transaction.
func (s *ReceiptService) CreateReceipt(ctx context.Context, req models.CreateReceiptRequest) (*models.CreateReceiptResult, error) {
	if req.ReceptionID <= 0 {
		return nil, invalid("reception_id", "Vui lòng chọn phiếu tiếp nhận")
	}
	if !req.MoneyAmount.IsPositive() {
		err := invalid("money_amount", "Số tiền thu phải > 0")
		recordRejection("create_receipt", err)
		return nil, err
	}
	date, err := timeutil.ParseDate(strings.TrimSpace(req.ReceiptDate))
	if err != nil {
		return nil, invalid("receipt_date", "Ngày thu tiền không hợp lệ (YYYY-MM-DD)")
	}

	result := &models.CreateReceiptResult{}
	err = s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		receptions := repositories.NewReceptionRepository(tx)

		reception, err := receptions.Lock(ctx, req.ReceptionID)
		if err != nil {
			if isNoRows(err) {
				return notFound("reception", strconv.Itoa(req.ReceptionID),
					fmt.Sprintf("Không tìm thấy phiếu tiếp nhận ID %d", req.ReceptionID))
			}
			return persistence("đọc công nợ", err)
		}

		allowOverpay := overPayAllowed(ctx, repositories.NewSystemSettingRepository(tx))
		if err := PaymentPolicy(req.MoneyAmount, reception.Debt, allowOverpay); err != nil {
			return err
		}

		receiptID, err := repositories.NewReceiptRepository(tx).Create(ctx, req.ReceptionID, date, req.MoneyAmount)
		if err != nil {
			return persistence("tạo phiếu thu", err)
		}

		remaining, err := receptions.SubtractDebt(ctx, req.ReceptionID, req.MoneyAmount, allowOverpay)
		if err != nil {
			return persistence("cập nhật công nợ", err)
		}

		result.ReceiptID = receiptID
		result.RemainingDebt = remaining
		result.LicensePlate = reception.LicensePlate
		result.Settled = !remaining.IsPositive()
		return nil
	})
	if err != nil {
		log.Printf("[Receipt] Failed to create receipt for reception %d: %v", req.ReceptionID, err)
		recordRejection("create_receipt", err)
		return nil, err
	}

	metrics.ReceiptsCreated.Inc()
	log.Printf("[Receipt] Created receipt %d for reception %d, amount: %s, remaining: %s",
		result.ReceiptID, req.ReceptionID, req.MoneyAmount.StringFixed(0), result.RemainingDebt.StringFixed(0))
	return result, nil
}

// CheckPaymentAllowed evaluates the overpayment rule without writing anything
func (s *ReceiptService) CheckPaymentAllowed(ctx context.Context, amount, debt decimal.Decimal) models.PaymentCheck {
	if !amount.GreaterThan(debt) {
		return models.PaymentCheck{Allowed: true, Message: "Được phép thu tiền"}
	}
	if s.Settings.GetIsOverPay(ctx) {
		return models.PaymentCheck{Allowed: true, Message: "Được phép thu tiền"}
	}
	return models.PaymentCheck{Allowed: false, Message: (&OverpaymentError{Amount: amount, Debt: debt}).Error()}
}

// GetVehicleDebtInfo returns nil when the vehicle is unknown or the lookup fails
func (s *ReceiptService) GetVehicleDebtInfo(ctx context.Context, plate string) *models.VehicleDebt {
	info, err := s.Receptions.DebtByPlate(ctx, normalizePlate(plate))
	if err != nil {
		if !isNoRows(err) {
			log.Printf("[Receipt] Failed to get vehicle debt info for %s: %v", plate, err)
		}
		return nil
	}
	return info
}

// GetLatestReceptionWithDebt returns nil when nothing is owed
func (s *ReceiptService) GetLatestReceptionWithDebt(ctx context.Context, plate string) *models.CarReception {
	reception, err := s.Receptions.LatestWithDebtByPlate(ctx, normalizePlate(plate))
	if err != nil {
		if !isNoRows(err) {
			log.Printf("[Receipt] Failed to get latest reception with debt for %s: %v", plate, err)
		}
		return nil
	}
	return reception
}

func (s *ReceiptService) ListReceptionsWithDebt(ctx context.Context, plate string) []*models.CarReception {
	receptions, err := s.Receptions.ListWithDebtByPlate(ctx, normalizePlate(plate))
	if err != nil {
		log.Printf("[Receipt] Failed to get receptions with debt for %s: %v", plate, err)
		return []*models.CarReception{}
	}
	return receptions
}

func (s *ReceiptService) GetReceipt(ctx context.Context, id int) (*models.Receipt, error) {
	receipt, err := s.Receipts.Get(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("receipt", strconv.Itoa(id), fmt.Sprintf("Không tìm thấy phiếu thu ID %d", id))
		}
		return nil, persistence("đọc phiếu thu", err)
	}
	return receipt, nil
}

func (s *ReceiptService) ListReceiptsByPlate(ctx context.Context, plate string) []*models.Receipt {
	receipts, err := s.Receipts.ListByPlate(ctx, normalizePlate(plate))
	if err != nil {
		log.Printf("[Receipt] Failed to get receipt history for %s: %v", plate, err)
		return []*models.Receipt{}
	}
	return receipts
}

func (s *ReceiptService) ListReceiptsByDateRange(ctx context.Context, from, to time.Time) ([]*models.Receipt, error) {
	if to.Before(from) {
		return nil, invalid("to", "Ngày kết thúc phải sau ngày bắt đầu")
	}
	receipts, err := s.Receipts.ListByDateRange(ctx, from, to)
	if err != nil {
		log.Printf("[Receipt] Failed to get receipts by date range: %v", err)
		return []*models.Receipt{}, nil
	}
	return receipts, nil
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
