package repositories

import (
	"context"
	"time"

	"garage-backend/internal/db"
	"garage-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ReceptionRepository struct {
	DB db.DBTX
}

func NewReceptionRepository(db db.DBTX) *ReceptionRepository {
	return &ReceptionRepository{DB: db}
}

const receptionSelect = `
	SELECT cr.id, cr.license_plate, cr.reception_date, cr.debt, c.owner_name, b.brand_name, c.phone_number
	FROM car_receptions cr
	JOIN cars c ON cr.license_plate = c.license_plate
	JOIN car_brands b ON c.brand_id = b.id
`

func scanReception(row pgx.Row) (*models.CarReception, error) {
	cr := &models.CarReception{}
	err := row.Scan(&cr.ID, &cr.LicensePlate, &cr.ReceptionDate, &cr.Debt, &cr.OwnerName, &cr.BrandName, &cr.PhoneNumber)
	if err != nil {
		return nil, err
	}
	return cr, nil
}

func (r *ReceptionRepository) Create(ctx context.Context, plate string, date time.Time) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx, `
		INSERT INTO car_receptions (license_plate, reception_date, debt)
		VALUES ($1, $2, 0)
		RETURNING id
	`, plate, date).Scan(&id)
	return id, err
}

func (r *ReceptionRepository) Get(ctx context.Context, id int) (*models.CarReception, error) {
	return scanReception(r.DB.QueryRow(ctx, receptionSelect+` WHERE cr.id = $1`, id))
}

// Lock reads the reception's debt and holds the row lock until the transaction ends
func (r *ReceptionRepository) Lock(ctx context.Context, id int) (*models.CarReception, error) {
	cr := &models.CarReception{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, license_plate, reception_date, debt
		FROM car_receptions
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&cr.ID, &cr.LicensePlate, &cr.ReceptionDate, &cr.Debt)
	if err != nil {
		return nil, err
	}
	return cr, nil
}

// CountOnDate returns how many receptions are dated on the given day
func (r *ReceptionRepository) CountOnDate(ctx context.Context, date time.Time) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM car_receptions WHERE reception_date = $1`, date,
	).Scan(&count)
	return count, err
}

// AddDebt increases the reception's debt and returns the new balance
func (r *ReceptionRepository) AddDebt(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error) {
	var debt decimal.Decimal
	err := r.DB.QueryRow(ctx,
		`UPDATE car_receptions SET debt = debt + $1 WHERE id = $2 RETURNING debt`, amount, id,
	).Scan(&debt)
	return debt, err
}

// SubtractDebt lowers the debt. With floorAtZero the balance is clamped at zero
// so an allowed overpayment never produces a negative debt.
func (r *ReceptionRepository) SubtractDebt(ctx context.Context, id int, amount decimal.Decimal, floorAtZero bool) (decimal.Decimal, error) {
	query := `UPDATE car_receptions SET debt = debt - $1 WHERE id = $2 RETURNING debt`
	if floorAtZero {
		query = `UPDATE car_receptions SET debt = GREATEST(debt - $1, 0) WHERE id = $2 RETURNING debt`
	}

	var debt decimal.Decimal
	err := r.DB.QueryRow(ctx, query, amount, id).Scan(&debt)
	return debt, err
}

// LatestByPlate returns the most recent reception of a vehicle
func (r *ReceptionRepository) LatestByPlate(ctx context.Context, plate string) (*models.CarReception, error) {
	return scanReception(r.DB.QueryRow(ctx,
		receptionSelect+` WHERE cr.license_plate = $1 ORDER BY cr.reception_date DESC, cr.id DESC LIMIT 1`, plate))
}

// LatestWithDebtByPlate returns the most recent reception that still carries debt
func (r *ReceptionRepository) LatestWithDebtByPlate(ctx context.Context, plate string) (*models.CarReception, error) {
	return scanReception(r.DB.QueryRow(ctx,
		receptionSelect+` WHERE cr.license_plate = $1 AND cr.debt > 0 ORDER BY cr.reception_date DESC, cr.id DESC LIMIT 1`, plate))
}

func (r *ReceptionRepository) ListWithDebtByPlate(ctx context.Context, plate string) ([]*models.CarReception, error) {
	rows, err := r.DB.Query(ctx,
		receptionSelect+` WHERE cr.license_plate = $1 AND cr.debt > 0 ORDER BY cr.reception_date DESC, cr.id DESC`, plate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receptions := []*models.CarReception{}
	for rows.Next() {
		cr, err := scanReception(rows)
		if err != nil {
			return nil, err
		}
		receptions = append(receptions, cr)
	}
	return receptions, rows.Err()
}

// ListOnDate returns the receptions of one day in intake order
func (r *ReceptionRepository) ListOnDate(ctx context.Context, date time.Time) ([]*models.CarReception, error) {
	rows, err := r.DB.Query(ctx, receptionSelect+` WHERE cr.reception_date = $1 ORDER BY cr.id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receptions := []*models.CarReception{}
	for rows.Next() {
		cr, err := scanReception(rows)
		if err != nil {
			return nil, err
		}
		receptions = append(receptions, cr)
	}
	return receptions, rows.Err()
}

// DebtByPlate sums the outstanding debt of a vehicle across its receptions
func (r *ReceptionRepository) DebtByPlate(ctx context.Context, plate string) (*models.VehicleDebt, error) {
	d := &models.VehicleDebt{}
	err := r.DB.QueryRow(ctx, `
		SELECT c.license_plate, c.owner_name, c.phone_number, c.email, COALESCE(SUM(cr.debt), 0)
		FROM cars c
		LEFT JOIN car_receptions cr ON c.license_plate = cr.license_plate
		WHERE c.license_plate = $1
		GROUP BY c.license_plate, c.owner_name, c.phone_number, c.email
	`, plate).Scan(&d.LicensePlate, &d.OwnerName, &d.PhoneNumber, &d.Email, &d.TotalDebt)
	if err != nil {
		return nil, err
	}
	return d, nil
}
