package repositories

import (
	"context"
	"time"

	"garage-backend/internal/db"
	"garage-backend/internal/models"

	"github.com/shopspring/decimal"
)

type RepairRepository struct {
	DB db.DBTX
}

func NewRepairRepository(db db.DBTX) *RepairRepository {
	return &RepairRepository{DB: db}
}

func (r *RepairRepository) Create(ctx context.Context, receptionID int, date time.Time, money decimal.Decimal) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx, `
		INSERT INTO repairs (reception_id, repair_date, repair_money)
		VALUES ($1, $2, $3)
		RETURNING id
	`, receptionID, date, money).Scan(&id)
	return id, err
}

func (r *RepairRepository) CreateDetail(ctx context.Context, d *models.RepairDetail) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx, `
		INSERT INTO repair_details (repair_id, content, supply_id, supply_amount, supply_price, wage_id, wage_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, d.RepairID, d.Content, d.SupplyID, d.SupplyAmount, d.SupplyPrice, d.WageID, d.WageValue).Scan(&id)
	return id, err
}

func (r *RepairRepository) Get(ctx context.Context, id int) (*models.Repair, error) {
	rp := &models.Repair{}
	err := r.DB.QueryRow(ctx, `
		SELECT rp.id, rp.reception_id, rp.repair_date, rp.repair_money, cr.license_plate, c.owner_name
		FROM repairs rp
		JOIN car_receptions cr ON rp.reception_id = cr.id
		JOIN cars c ON cr.license_plate = c.license_plate
		WHERE rp.id = $1
	`, id).Scan(&rp.ID, &rp.ReceptionID, &rp.RepairDate, &rp.RepairMoney, &rp.LicensePlate, &rp.OwnerName)
	if err != nil {
		return nil, err
	}
	return rp, nil
}

func (r *RepairRepository) ListDetails(ctx context.Context, repairID int) ([]models.RepairDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT rd.id, rd.repair_id, rd.content, rd.supply_id, s.supply_name, rd.supply_amount, rd.supply_price,
		       rd.wage_id, COALESCE(w.wage_name, ''), rd.wage_value
		FROM repair_details rd
		JOIN supplies s ON rd.supply_id = s.id
		LEFT JOIN wages w ON rd.wage_id = w.id
		WHERE rd.repair_id = $1
		ORDER BY rd.id
	`, repairID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []models.RepairDetail{}
	for rows.Next() {
		var d models.RepairDetail
		err := rows.Scan(&d.ID, &d.RepairID, &d.Content, &d.SupplyID, &d.SupplyName, &d.SupplyAmount,
			&d.SupplyPrice, &d.WageID, &d.WageName, &d.WageValue)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// CountByReception returns how many repair tickets a reception holds
func (r *RepairRepository) CountByReception(ctx context.Context, receptionID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM repairs WHERE reception_id = $1`, receptionID).Scan(&count)
	return count, err
}
