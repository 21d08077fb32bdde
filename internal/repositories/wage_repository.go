package repositories

import (
	"context"

	"garage-backend/internal/db"
	"garage-backend/internal/models"

	"github.com/shopspring/decimal"
)

type WageRepository struct {
	DB db.DBTX
}

func NewWageRepository(db db.DBTX) *WageRepository {
	return &WageRepository{DB: db}
}

func (r *WageRepository) List(ctx context.Context) ([]models.Wage, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, wage_name, wage_value FROM wages ORDER BY wage_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wages := []models.Wage{}
	for rows.Next() {
		var w models.Wage
		if err := rows.Scan(&w.ID, &w.Name, &w.Value); err != nil {
			return nil, err
		}
		wages = append(wages, w)
	}
	return wages, rows.Err()
}

func (r *WageRepository) GetByName(ctx context.Context, name string) (*models.Wage, error) {
	w := &models.Wage{}
	err := r.DB.QueryRow(ctx,
		`SELECT id, wage_name, wage_value FROM wages WHERE wage_name = $1`, name,
	).Scan(&w.ID, &w.Name, &w.Value)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WageRepository) Create(ctx context.Context, name string, value decimal.Decimal) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO wages (wage_name, wage_value) VALUES ($1, $2) RETURNING id`, name, value,
	).Scan(&id)
	return id, err
}

func (r *WageRepository) Update(ctx context.Context, id int, name string, value decimal.Decimal) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE wages SET wage_name = $1, wage_value = $2 WHERE id = $3`, name, value, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *WageRepository) Delete(ctx context.Context, id int) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM wages WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountReferences returns how many repair detail lines use the wage
func (r *WageRepository) CountReferences(ctx context.Context, id int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM repair_details WHERE wage_id = $1`, id).Scan(&count)
	return count, err
}
