package repositories

import (
	"context"
	"time"

	"garage-backend/internal/db"
	"garage-backend/internal/models"
)

type StockReportRepository struct {
	DB db.DBTX
}

func NewStockReportRepository(db db.DBTX) *StockReportRepository {
	return &StockReportRepository{DB: db}
}

// SupplyMovement is the raw input for one stock report line
type SupplyMovement struct {
	SupplyID       int
	SupplyName     string
	Inventory      int // current on-hand quantity
	ImportInPeriod int
	IssueInPeriod  int
	ImportSince    int // imports dated on or after the period start, up to now
	IssueSince     int // repair quantities dated on or after the period start, up to now
}

func (r *StockReportRepository) GetByPeriod(ctx context.Context, month, year int) (*models.StockReport, error) {
	rep := &models.StockReport{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, report_month, report_year, created_at
		FROM stock_reports
		WHERE report_month = $1 AND report_year = $2
	`, month, year).Scan(&rep.ReportID, &rep.Month, &rep.Year, &rep.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *StockReportRepository) ListDetails(ctx context.Context, reportID int) ([]models.StockReportDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT d.supply_id, s.supply_name, d.begin_qty, d.import_qty, d.issue_qty, d.end_qty
		FROM stock_report_details d
		JOIN supplies s ON d.supply_id = s.id
		WHERE d.report_id = $1
		ORDER BY s.supply_name
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []models.StockReportDetail{}
	for rows.Next() {
		var d models.StockReportDetail
		if err := rows.Scan(&d.SupplyID, &d.SupplyName, &d.BeginQty, &d.ImportQty, &d.IssueQty, &d.EndQty); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// EndQuantities returns the closing quantity per supply of an existing report
func (r *StockReportRepository) EndQuantities(ctx context.Context, reportID int) (map[int]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT supply_id, end_qty FROM stock_report_details WHERE report_id = $1`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ends := make(map[int]int)
	for rows.Next() {
		var supplyID, qty int
		if err := rows.Scan(&supplyID, &qty); err != nil {
			return nil, err
		}
		ends[supplyID] = qty
	}
	return ends, rows.Err()
}

// Movements collects imports and issues per supply for [from, to) and since from
func (r *StockReportRepository) Movements(ctx context.Context, from, to time.Time) ([]SupplyMovement, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT s.id, s.supply_name, s.inventory_number,
		       COALESCE((SELECT SUM(si.import_qty) FROM supplies_imports si
		                 WHERE si.supply_id = s.id AND si.import_date >= $1 AND si.import_date < $2), 0),
		       COALESCE((SELECT SUM(rd.supply_amount) FROM repair_details rd
		                 JOIN repairs rp ON rd.repair_id = rp.id
		                 WHERE rd.supply_id = s.id AND rp.repair_date >= $1 AND rp.repair_date < $2), 0),
		       COALESCE((SELECT SUM(si.import_qty) FROM supplies_imports si
		                 WHERE si.supply_id = s.id AND si.import_date >= $1), 0),
		       COALESCE((SELECT SUM(rd.supply_amount) FROM repair_details rd
		                 JOIN repairs rp ON rd.repair_id = rp.id
		                 WHERE rd.supply_id = s.id AND rp.repair_date >= $1), 0)
		FROM supplies s
		ORDER BY s.supply_name
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := []SupplyMovement{}
	for rows.Next() {
		var m SupplyMovement
		err := rows.Scan(&m.SupplyID, &m.SupplyName, &m.Inventory,
			&m.ImportInPeriod, &m.IssueInPeriod, &m.ImportSince, &m.IssueSince)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func (r *StockReportRepository) Create(ctx context.Context, month, year int) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx, `
		INSERT INTO stock_reports (report_month, report_year)
		VALUES ($1, $2)
		RETURNING id
	`, month, year).Scan(&id)
	return id, err
}

func (r *StockReportRepository) CreateDetail(ctx context.Context, reportID int, d models.StockReportDetail) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO stock_report_details (report_id, supply_id, begin_qty, import_qty, issue_qty, end_qty)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, reportID, d.SupplyID, d.BeginQty, d.ImportQty, d.IssueQty, d.EndQty)
	return err
}

// Delete removes the report and its details; false when no report exists for the period
func (r *StockReportRepository) Delete(ctx context.Context, month, year int) (bool, error) {
	_, err := r.DB.Exec(ctx, `
		DELETE FROM stock_report_details
		WHERE report_id IN (SELECT id FROM stock_reports WHERE report_month = $1 AND report_year = $2)
	`, month, year)
	if err != nil {
		return false, err
	}

	tag, err := r.DB.Exec(ctx,
		`DELETE FROM stock_reports WHERE report_month = $1 AND report_year = $2`, month, year)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *StockReportRepository) List(ctx context.Context) ([]models.StockReport, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, report_month, report_year, created_at
		FROM stock_reports
		ORDER BY report_year DESC, report_month DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []models.StockReport{}
	for rows.Next() {
		var rep models.StockReport
		if err := rows.Scan(&rep.ReportID, &rep.Month, &rep.Year, &rep.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
