package repositories

import (
	"context"
	"time"

	"garage-backend/internal/db"
	"garage-backend/internal/models"

	"github.com/shopspring/decimal"
)

type RevenueReportRepository struct {
	DB db.DBTX
}

func NewRevenueReportRepository(db db.DBTX) *RevenueReportRepository {
	return &RevenueReportRepository{DB: db}
}

func (r *RevenueReportRepository) GetByPeriod(ctx context.Context, month, year int) (*models.RevenueReport, error) {
	rep := &models.RevenueReport{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, report_month, report_year, total_revenue, created_at
		FROM revenue_reports
		WHERE report_month = $1 AND report_year = $2
	`, month, year).Scan(&rep.ReportID, &rep.Month, &rep.Year, &rep.TotalRevenue, &rep.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// ListDetails returns the per-brand lines of a report, largest revenue first
func (r *RevenueReportRepository) ListDetails(ctx context.Context, reportID int) ([]models.RevenueReportDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT d.brand_id, b.brand_name, d.repair_count, d.total_money, d.rate
		FROM revenue_report_details d
		JOIN car_brands b ON d.brand_id = b.id
		WHERE d.report_id = $1
		ORDER BY d.total_money DESC, b.brand_name
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []models.RevenueReportDetail{}
	for rows.Next() {
		var d models.RevenueReportDetail
		if err := rows.Scan(&d.BrandID, &d.BrandName, &d.RepairCount, &d.TotalMoney, &d.Rate); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// AggregateByBrand counts repair tickets and sums their money per brand for repairs dated in [from, to)
func (r *RevenueReportRepository) AggregateByBrand(ctx context.Context, from, to time.Time) ([]models.RevenueReportDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT b.id, b.brand_name, COUNT(rp.id), COALESCE(SUM(rp.repair_money), 0)
		FROM repairs rp
		JOIN car_receptions cr ON rp.reception_id = cr.id
		JOIN cars c ON cr.license_plate = c.license_plate
		JOIN car_brands b ON c.brand_id = b.id
		WHERE rp.repair_date >= $1 AND rp.repair_date < $2
		GROUP BY b.id, b.brand_name
		ORDER BY SUM(rp.repair_money) DESC, b.brand_name
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []models.RevenueReportDetail{}
	for rows.Next() {
		var d models.RevenueReportDetail
		if err := rows.Scan(&d.BrandID, &d.BrandName, &d.RepairCount, &d.TotalMoney); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *RevenueReportRepository) Create(ctx context.Context, month, year int, total decimal.Decimal) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx, `
		INSERT INTO revenue_reports (report_month, report_year, total_revenue)
		VALUES ($1, $2, $3)
		RETURNING id
	`, month, year, total).Scan(&id)
	return id, err
}

func (r *RevenueReportRepository) CreateDetail(ctx context.Context, reportID int, d models.RevenueReportDetail) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO revenue_report_details (report_id, brand_id, repair_count, total_money, rate)
		VALUES ($1, $2, $3, $4, $5)
	`, reportID, d.BrandID, d.RepairCount, d.TotalMoney, d.Rate)
	return err
}

// Delete removes the report and its details; false when no report exists for the period
func (r *RevenueReportRepository) Delete(ctx context.Context, month, year int) (bool, error) {
	_, err := r.DB.Exec(ctx, `
		DELETE FROM revenue_report_details
		WHERE report_id IN (SELECT id FROM revenue_reports WHERE report_month = $1 AND report_year = $2)
	`, month, year)
	if err != nil {
		return false, err
	}

	tag, err := r.DB.Exec(ctx,
		`DELETE FROM revenue_reports WHERE report_month = $1 AND report_year = $2`, month, year)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// List returns report headers, most recent period first
func (r *RevenueReportRepository) List(ctx context.Context) ([]models.RevenueReport, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, report_month, report_year, total_revenue, created_at
		FROM revenue_reports
		ORDER BY report_year DESC, report_month DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []models.RevenueReport{}
	for rows.Next() {
		var rep models.RevenueReport
		if err := rows.Scan(&rep.ReportID, &rep.Month, &rep.Year, &rep.TotalRevenue, &rep.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
