package repositories

import (
	"context"
	"time"

	"garage-backend/internal/db"
	"garage-backend/internal/models"

	"github.com/shopspring/decimal"
)

type ReceiptRepository struct {
	DB db.DBTX
}

func NewReceiptRepository(db db.DBTX) *ReceiptRepository {
	return &ReceiptRepository{DB: db}
}

const receiptSelect = `
	SELECT rc.id, rc.reception_id, rc.receipt_date, rc.money_amount,
	       cr.license_plate, c.owner_name, c.phone_number, c.email, cr.reception_date
	FROM receipts rc
	JOIN car_receptions cr ON rc.reception_id = cr.id
	JOIN cars c ON cr.license_plate = c.license_plate
`

func (r *ReceiptRepository) Create(ctx context.Context, receptionID int, date time.Time, amount decimal.Decimal) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx, `
		INSERT INTO receipts (reception_id, receipt_date, money_amount)
		VALUES ($1, $2, $3)
		RETURNING id
	`, receptionID, date, amount).Scan(&id)
	return id, err
}

func (r *ReceiptRepository) Get(ctx context.Context, id int) (*models.Receipt, error) {
	rc := &models.Receipt{}
	err := r.DB.QueryRow(ctx, receiptSelect+` WHERE rc.id = $1`, id).Scan(
		&rc.ID, &rc.ReceptionID, &rc.ReceiptDate, &rc.MoneyAmount,
		&rc.LicensePlate, &rc.OwnerName, &rc.PhoneNumber, &rc.Email, &rc.ReceptionDate,
	)
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (r *ReceiptRepository) ListByPlate(ctx context.Context, plate string) ([]*models.Receipt, error) {
	return r.list(ctx, receiptSelect+` WHERE cr.license_plate = $1 ORDER BY rc.receipt_date DESC, rc.id DESC`, plate)
}

// ListByDateRange returns receipts dated within [from, to], both inclusive
func (r *ReceiptRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.Receipt, error) {
	return r.list(ctx, receiptSelect+` WHERE rc.receipt_date BETWEEN $1 AND $2 ORDER BY rc.receipt_date DESC, rc.id DESC`, from, to)
}

func (r *ReceiptRepository) list(ctx context.Context, query string, args ...any) ([]*models.Receipt, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := []*models.Receipt{}
	for rows.Next() {
		rc := &models.Receipt{}
		err := rows.Scan(&rc.ID, &rc.ReceptionID, &rc.ReceiptDate, &rc.MoneyAmount,
			&rc.LicensePlate, &rc.OwnerName, &rc.PhoneNumber, &rc.Email, &rc.ReceptionDate)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rc)
	}
	return receipts, rows.Err()
}
