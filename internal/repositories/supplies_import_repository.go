package repositories

import (
	"context"
	"time"

	"garage-backend/internal/db"
	"garage-backend/internal/models"

	"github.com/shopspring/decimal"
)

type SuppliesImportRepository struct {
	DB db.DBTX
}

func NewSuppliesImportRepository(db db.DBTX) *SuppliesImportRepository {
	return &SuppliesImportRepository{DB: db}
}

func (r *SuppliesImportRepository) Create(ctx context.Context, supplyID int, date time.Time, qty int, price decimal.Decimal) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx, `
		INSERT INTO supplies_imports (supply_id, import_date, import_qty, import_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, supplyID, date, qty, price).Scan(&id)
	return id, err
}

// History returns the most recent imports, newest first
func (r *SuppliesImportRepository) History(ctx context.Context, limit int) ([]models.SuppliesImport, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT si.id, si.supply_id, s.supply_name, si.import_date, si.import_qty, si.import_price,
		       si.import_qty * si.import_price AS total_money
		FROM supplies_imports si
		JOIN supplies s ON si.supply_id = s.id
		ORDER BY si.import_date DESC, si.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	imports := []models.SuppliesImport{}
	for rows.Next() {
		var i models.SuppliesImport
		err := rows.Scan(&i.ID, &i.SupplyID, &i.SupplyName, &i.ImportDate, &i.ImportQty, &i.ImportPrice, &i.TotalMoney)
		if err != nil {
			return nil, err
		}
		imports = append(imports, i)
	}
	return imports, rows.Err()
}
