package repositories

import (
	"context"

	"garage-backend/internal/db"
	"garage-backend/internal/models"
)

type BrandRepository struct {
	DB db.DBTX
}

func NewBrandRepository(db db.DBTX) *BrandRepository {
	return &BrandRepository{DB: db}
}

func (r *BrandRepository) List(ctx context.Context) ([]models.CarBrand, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, brand_name FROM car_brands ORDER BY brand_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brands := []models.CarBrand{}
	for rows.Next() {
		var b models.CarBrand
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *BrandRepository) GetByName(ctx context.Context, name string) (*models.CarBrand, error) {
	b := &models.CarBrand{}
	err := r.DB.QueryRow(ctx,
		`SELECT id, brand_name FROM car_brands WHERE brand_name = $1`, name,
	).Scan(&b.ID, &b.Name)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BrandRepository) Create(ctx context.Context, name string) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO car_brands (brand_name) VALUES ($1) RETURNING id`, name,
	).Scan(&id)
	return id, err
}

// Update renames a brand and returns the number of rows changed
func (r *BrandRepository) Update(ctx context.Context, id int, name string) (int64, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE car_brands SET brand_name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *BrandRepository) Delete(ctx context.Context, id int) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM car_brands WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountCars returns how many cars reference the brand
func (r *BrandRepository) CountCars(ctx context.Context, id int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM cars WHERE brand_id = $1`, id).Scan(&count)
	return count, err
}
