package repositories

import (
	"context"
	"fmt"
	"strings"

	"garage-backend/internal/db"
	"garage-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

type CarRepository struct {
	DB db.DBTX
}

func NewCarRepository(db db.DBTX) *CarRepository {
	return &CarRepository{DB: db}
}

func (r *CarRepository) GetByPlate(ctx context.Context, plate string) (*models.Car, error) {
	c := &models.Car{}
	err := r.DB.QueryRow(ctx, `
		SELECT c.license_plate, c.brand_id, b.brand_name, c.owner_name, c.phone_number, c.address, c.email
		FROM cars c
		JOIN car_brands b ON c.brand_id = b.id
		WHERE c.license_plate = $1
	`, plate).Scan(&c.LicensePlate, &c.BrandID, &c.BrandName, &c.OwnerName, &c.PhoneNumber, &c.Address, &c.Email)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Upsert inserts the car or overwrites its owner fields; the last writer wins
func (r *CarRepository) Upsert(ctx context.Context, c *models.Car) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cars (license_plate, brand_id, owner_name, phone_number, address, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (license_plate)
		DO UPDATE SET brand_id = EXCLUDED.brand_id,
		              owner_name = EXCLUDED.owner_name,
		              phone_number = EXCLUDED.phone_number,
		              address = EXCLUDED.address,
		              email = EXCLUDED.email
	`, c.LicensePlate, c.BrandID, c.OwnerName, c.PhoneNumber, c.Address, c.Email)
	return err
}

const vehicleSummarySelect = `
	SELECT c.license_plate, b.brand_name, c.owner_name, c.phone_number, COALESCE(SUM(cr.debt), 0) AS total_debt
	FROM cars c
	JOIN car_brands b ON c.brand_id = b.id
	LEFT JOIN car_receptions cr ON c.license_plate = cr.license_plate
`

const vehicleSummaryGroup = `
	GROUP BY c.license_plate, b.brand_name, c.owner_name, c.phone_number
`

// ListWithDebt returns every vehicle with its total debt, largest debt first
func (r *CarRepository) ListWithDebt(ctx context.Context) ([]models.VehicleSummary, error) {
	query := vehicleSummarySelect + vehicleSummaryGroup + ` ORDER BY total_debt DESC, c.license_plate`
	return r.scanSummaries(ctx, query)
}

// ListWithOutstandingDebt returns only vehicles that still owe money
func (r *CarRepository) ListWithOutstandingDebt(ctx context.Context) ([]models.VehicleSummary, error) {
	query := vehicleSummarySelect + vehicleSummaryGroup +
		` HAVING COALESCE(SUM(cr.debt), 0) > 0 ORDER BY total_debt DESC, c.license_plate`
	return r.scanSummaries(ctx, query)
}

func (r *CarRepository) ListByBrand(ctx context.Context, brandName string) ([]models.VehicleSummary, error) {
	query := vehicleSummarySelect + ` WHERE b.brand_name = $1 ` + vehicleSummaryGroup + ` ORDER BY c.license_plate`
	return r.scanSummaries(ctx, query, brandName)
}

// Search filters by partial plate, partial owner name and exact brand; empty filters are skipped
func (r *CarRepository) Search(ctx context.Context, f models.VehicleSearch) ([]models.VehicleSummary, error) {
	var (
		conds []string
		args  []any
	)
	if plate := strings.TrimSpace(f.LicensePlate); plate != "" {
		args = append(args, "%"+plate+"%")
		conds = append(conds, fmt.Sprintf("c.license_plate ILIKE $%d", len(args)))
	}
	if owner := strings.TrimSpace(f.OwnerName); owner != "" {
		args = append(args, "%"+owner+"%")
		conds = append(conds, fmt.Sprintf("c.owner_name ILIKE $%d", len(args)))
	}
	if brand := strings.TrimSpace(f.BrandName); brand != "" {
		args = append(args, brand)
		conds = append(conds, fmt.Sprintf("b.brand_name = $%d", len(args)))
	}

	query := vehicleSummarySelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += vehicleSummaryGroup + ` ORDER BY c.license_plate`

	return r.scanSummaries(ctx, query, args...)
}

func (r *CarRepository) scanSummaries(ctx context.Context, query string, args ...any) ([]models.VehicleSummary, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []models.VehicleSummary{}
	for rows.Next() {
		var v models.VehicleSummary
		if err := rows.Scan(&v.LicensePlate, &v.BrandName, &v.OwnerName, &v.PhoneNumber, &v.TotalDebt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *CarRepository) GetDetail(ctx context.Context, plate string) (*models.VehicleDetail, error) {
	v := &models.VehicleDetail{}
	err := r.DB.QueryRow(ctx, `
		SELECT c.license_plate, b.brand_name, c.owner_name, c.phone_number, c.address, c.email,
		       COALESCE(SUM(cr.debt), 0)
		FROM cars c
		JOIN car_brands b ON c.brand_id = b.id
		LEFT JOIN car_receptions cr ON c.license_plate = cr.license_plate
		WHERE c.license_plate = $1
		GROUP BY c.license_plate, b.brand_name, c.owner_name, c.phone_number, c.address, c.email
	`, plate).Scan(&v.LicensePlate, &v.BrandName, &v.OwnerName, &v.PhoneNumber, &v.Address, &v.Email, &v.TotalDebt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *CarRepository) ReceptionHistory(ctx context.Context, plate string) ([]models.ReceptionHistoryEntry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT cr.id, cr.reception_date, cr.debt, COUNT(rp.id), COALESCE(SUM(rp.repair_money), 0)
		FROM car_receptions cr
		LEFT JOIN repairs rp ON cr.id = rp.reception_id
		WHERE cr.license_plate = $1
		GROUP BY cr.id, cr.reception_date, cr.debt
		ORDER BY cr.reception_date DESC, cr.id DESC
	`, plate)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ReceptionHistoryEntry, error) {
		var h models.ReceptionHistoryEntry
		err := row.Scan(&h.ReceptionID, &h.ReceptionDate, &h.Debt, &h.RepairCount, &h.TotalRepairMoney)
		return h, err
	})
}

func (r *CarRepository) RepairHistory(ctx context.Context, plate string) ([]models.RepairHistoryEntry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT rp.id, rp.repair_date, rp.repair_money, cr.id, cr.reception_date
		FROM repairs rp
		JOIN car_receptions cr ON rp.reception_id = cr.id
		WHERE cr.license_plate = $1
		ORDER BY rp.repair_date DESC, rp.id DESC
	`, plate)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RepairHistoryEntry, error) {
		var h models.RepairHistoryEntry
		err := row.Scan(&h.RepairID, &h.RepairDate, &h.RepairMoney, &h.ReceptionID, &h.ReceptionDate)
		return h, err
	})
}
