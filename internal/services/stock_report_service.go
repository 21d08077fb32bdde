package services

import (
	"context"
	"log"

	"garage-backend/internal/cache"
	"garage-backend/internal/db"
	"garage-backend/internal/metrics"
	"garage-backend/internal/models"
	"garage-backend/internal/repositories"
	"garage-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
)

// RollForwardStock builds the report lines from raw movements. A supply's
// opening quantity is the previous report's closing quantity when previous
// holds it; otherwise it is reconstructed from current inventory by undoing
// every import and issue dated on or after the period start.
func RollForwardStock(movements []repositories.SupplyMovement, previous map[int]int) []models.StockReportDetail {
	details := make([]models.StockReportDetail, 0, len(movements))
	for _, m := range movements {
		begin, ok := previous[m.SupplyID]
		if !ok {
			begin = m.Inventory - m.ImportSince + m.IssueSince
		}
		details = append(details, models.StockReportDetail{
			SupplyID:   m.SupplyID,
			SupplyName: m.SupplyName,
			BeginQty:   begin,
			ImportQty:  m.ImportInPeriod,
			IssueQty:   m.IssueInPeriod,
			EndQty:     begin + m.ImportInPeriod - m.IssueInPeriod,
		})
	}
	return details
}

// StockReportService builds monthly per-supply stock reports
type StockReportService struct {
	DB    *db.Gateway
	Cache *cache.Cache
	Repo  *repositories.StockReportRepository
}

func NewStockReportService(gw *db.Gateway, c *cache.Cache) *StockReportService {
	return &StockReportService{
		DB:    gw,
		Cache: c,
		Repo:  repositories.NewStockReportRepository(gw.Pool),
	}
}

// GetOrCreateMonthlyReport returns the period's stock report, generating it first when absent
func (s *StockReportService) GetOrCreateMonthlyReport(ctx context.Context, month, year int) (*models.StockReport, error) {
	if err := ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	key := cache.ReportKey(string(models.ReportStock), month, year)
	var cached models.StockReport
	if s.Cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	var report *models.StockReport
	err := s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		if err := repositories.NewLockRepository(tx).Acquire(ctx, reportLockKey(models.ReportStock, month, year)); err != nil {
			return persistence("khóa báo cáo", err)
		}

		repo := repositories.NewStockReportRepository(tx)
		existing, err := repo.GetByPeriod(ctx, month, year)
		switch {
		case err == nil:
			report = existing
		case isNoRows(err):
			report, err = s.generate(ctx, repo, month, year)
			if err != nil {
				return err
			}
		default:
			return persistence("đọc báo cáo tồn", err)
		}

		report.Details, err = repo.ListDetails(ctx, report.ReportID)
		return persistence("đọc chi tiết báo cáo tồn", err)
	})
	if err != nil {
		log.Printf("[StockReport] Failed to get or create report %02d/%d: %v", month, year, err)
		return nil, err
	}

	s.Cache.SetJSON(ctx, key, report, cache.ReportTTL)
	return report, nil
}

func (s *StockReportService) generate(ctx context.Context, repo *repositories.StockReportRepository, month, year int) (*models.StockReport, error) {
	from, to := timeutil.MonthRange(month, year)

	var previous map[int]int
	prevMonth, prevYear := timeutil.PreviousMonth(month, year)
	prev, err := repo.GetByPeriod(ctx, prevMonth, prevYear)
	switch {
	case err == nil:
		previous, err = repo.EndQuantities(ctx, prev.ReportID)
		if err != nil {
			return nil, persistence("đọc tồn cuối kỳ trước", err)
		}
	case !isNoRows(err):
		return nil, persistence("đọc báo cáo tồn kỳ trước", err)
	}

	movements, err := repo.Movements(ctx, from, to)
	if err != nil {
		return nil, persistence("tổng hợp nhập xuất vật tư", err)
	}
	details := RollForwardStock(movements, previous)

	reportID, err := repo.Create(ctx, month, year)
	if err != nil {
		return nil, persistence("tạo báo cáo tồn", err)
	}
	for _, d := range details {
		if err := repo.CreateDetail(ctx, reportID, d); err != nil {
			return nil, persistence("tạo chi tiết báo cáo tồn", err)
		}
	}

	metrics.ReportsGenerated.WithLabelValues(string(models.ReportStock)).Inc()
	log.Printf("[StockReport] Generated report %d for %02d/%d: %d supplies", reportID, month, year, len(details))

	return repo.GetByPeriod(ctx, month, year)
}

// DeleteReport removes the period's report so the next request regenerates it
func (s *StockReportService) DeleteReport(ctx context.Context, month, year int) (bool, error) {
	if err := ValidatePeriod(month, year); err != nil {
		return false, err
	}

	var deleted bool
	err := s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		if err := repositories.NewLockRepository(tx).Acquire(ctx, reportLockKey(models.ReportStock, month, year)); err != nil {
			return persistence("khóa báo cáo", err)
		}
		var err error
		deleted, err = repositories.NewStockReportRepository(tx).Delete(ctx, month, year)
		return persistence("xóa báo cáo tồn", err)
	})
	if err != nil {
		log.Printf("[StockReport] Failed to delete report %02d/%d: %v", month, year, err)
		return false, err
	}

	s.Cache.InvalidateReport(ctx, string(models.ReportStock), month, year)
	if deleted {
		log.Printf("[StockReport] Deleted report %02d/%d", month, year)
	}
	return deleted, nil
}

func (s *StockReportService) ListReports(ctx context.Context) []models.StockReport {
	reports, err := s.Repo.List(ctx)
	if err != nil {
		log.Printf("[StockReport] Failed to list reports: %v", err)
		return []models.StockReport{}
	}
	return reports
}
