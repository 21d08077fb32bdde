package repositories

import (
	"context"

	"garage-backend/internal/db"
	"garage-backend/internal/models"

	"github.com/shopspring/decimal"
)

type SupplyRepository struct {
	DB db.DBTX
}

func NewSupplyRepository(db db.DBTX) *SupplyRepository {
	return &SupplyRepository{DB: db}
}

func (r *SupplyRepository) List(ctx context.Context) ([]models.Supply, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, supply_name, supply_price, inventory_number
		FROM supplies
		ORDER BY supply_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	supplies := []models.Supply{}
	for rows.Next() {
		var s models.Supply
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.InventoryNumber); err != nil {
			return nil, err
		}
		supplies = append(supplies, s)
	}
	return supplies, rows.Err()
}

func (r *SupplyRepository) GetByName(ctx context.Context, name string) (*models.Supply, error) {
	s := &models.Supply{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, supply_name, supply_price, inventory_number
		FROM supplies
		WHERE supply_name = $1
	`, name).Scan(&s.ID, &s.Name, &s.Price, &s.InventoryNumber)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SupplyRepository) GetByID(ctx context.Context, id int) (*models.Supply, error) {
	s := &models.Supply{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, supply_name, supply_price, inventory_number
		FROM supplies
		WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Price, &s.InventoryNumber)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LockByName reads a supply row and holds its lock until the transaction ends
func (r *SupplyRepository) LockByName(ctx context.Context, name string) (*models.Supply, error) {
	s := &models.Supply{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, supply_name, supply_price, inventory_number
		FROM supplies
		WHERE supply_name = $1
		FOR UPDATE
	`, name).Scan(&s.ID, &s.Name, &s.Price, &s.InventoryNumber)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LockByID reads a supply row and holds its lock until the transaction ends
func (r *SupplyRepository) LockByID(ctx context.Context, id int) (*models.Supply, error) {
	s := &models.Supply{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, supply_name, supply_price, inventory_number
		FROM supplies
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&s.ID, &s.Name, &s.Price, &s.InventoryNumber)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SupplyRepository) Create(ctx context.Context, name string, price decimal.Decimal) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO supplies (supply_name, supply_price, inventory_number) VALUES ($1, $2, 0) RETURNING id`,
		name, price,
	).Scan(&id)
	return id, err
}

func (r *SupplyRepository) Update(ctx context.Context, id int, name string, price decimal.Decimal) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE supplies SET supply_name = $1, supply_price = $2 WHERE id = $3`, name, price, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *SupplyRepository) Delete(ctx context.Context, id int) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM supplies WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Decrement lowers stock only when enough is on hand; zero rows affected means a shortage
func (r *SupplyRepository) Decrement(ctx context.Context, id, qty int) (int64, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE supplies
		SET inventory_number = inventory_number - $1
		WHERE id = $2 AND inventory_number >= $1
	`, qty, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *SupplyRepository) Increment(ctx context.Context, id, qty int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE supplies SET inventory_number = inventory_number + $1 WHERE id = $2`, qty, id)
	return err
}

// CountReferences returns how many repair detail and stock report rows use the supply
func (r *SupplyRepository) CountReferences(ctx context.Context, id int) (repairCount, stockCount int, err error) {
	err = r.DB.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM repair_details WHERE supply_id = $1),
			(SELECT COUNT(*) FROM stock_report_details WHERE supply_id = $1)
	`, id).Scan(&repairCount, &stockCount)
	return repairCount, stockCount, err
}
