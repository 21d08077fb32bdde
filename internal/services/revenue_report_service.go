package services

import (
	"context"
	"fmt"
	"log"

	"garage-backend/internal/cache"
	"garage-backend/internal/db"
	"garage-backend/internal/metrics"
	"garage-backend/internal/models"
	"garage-backend/internal/repositories"
	"garage-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidatePeriod checks a report month and year
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return invalid("month", "Tháng phải từ 1 đến 12")
	}
	if year < 1900 || year > 2100 {
		return invalid("year", "Năm không hợp lệ")
	}
	return nil
}

func reportLockKey(kind models.ReportKind, month, year int) string {
	return fmt.Sprintf("report:%s:%04d-%02d", kind, year, month)
}

// ComputeRevenueShares sets each brand's rate as its percentage of the month
// total, rounded to 2 decimals, and returns that total. Rates are 0 when the
// total is 0.
func ComputeRevenueShares(details []models.RevenueReportDetail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.TotalMoney)
	}
	for i := range details {
		if total.IsZero() {
			details[i].Rate = decimal.Zero
			continue
		}
		details[i].Rate = details[i].TotalMoney.Div(total).Mul(hundred).Round(2)
	}
	return total
}

// RevenueReportService builds monthly revenue-by-brand reports
type RevenueReportService struct {
	DB    *db.Gateway
	Cache *cache.Cache
	Repo  *repositories.RevenueReportRepository
}

func NewRevenueReportService(gw *db.Gateway, c *cache.Cache) *RevenueReportService {
	return &RevenueReportService{
		DB:    gw,
		Cache: c,
		Repo:  repositories.NewRevenueReportRepository(gw.Pool),
	}
}

// GetOrCreateMonthlyReport returns the period's report, aggregating and
// persisting it first when none exists. Concurrent first requests for the
// same period serialize on an advisory lock; the later caller reuses the
// report written by the first.
func (s *RevenueReportService) GetOrCreateMonthlyReport(ctx context.Context, month, year int) (*models.RevenueReport, error) {
	if err := ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	key := cache.ReportKey(string(models.ReportRevenue), month, year)
	var cached models.RevenueReport
	if s.Cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	var report *models.RevenueReport
	err := s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		if err := repositories.NewLockRepository(tx).Acquire(ctx, reportLockKey(models.ReportRevenue, month, year)); err != nil {
			return persistence("khóa báo cáo", err)
		}

		repo := repositories.NewRevenueReportRepository(tx)
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
			return persistence("đọc báo cáo doanh số", err)
		}

		report.Details, err = repo.ListDetails(ctx, report.ReportID)
		return persistence("đọc chi tiết báo cáo doanh số", err)
	})
	if err != nil {
		log.Printf("[RevenueReport] Failed to get or create report %02d/%d: %v", month, year, err)
		return nil, err
	}

	s.Cache.SetJSON(ctx, key, report, cache.ReportTTL)
	return report, nil
}

func (s *RevenueReportService) generate(ctx context.Context, repo *repositories.RevenueReportRepository, month, year int) (*models.RevenueReport, error) {
	from, to := timeutil.MonthRange(month, year)

	details, err := repo.AggregateByBrand(ctx, from, to)
	if err != nil {
		return nil, persistence("tổng hợp doanh số", err)
	}
	total := ComputeRevenueShares(details)

	reportID, err := repo.Create(ctx, month, year, total)
	if err != nil {
		return nil, persistence("tạo báo cáo doanh số", err)
	}
	for _, d := range details {
		if err := repo.CreateDetail(ctx, reportID, d); err != nil {
			return nil, persistence("tạo chi tiết báo cáo doanh số", err)
		}
	}

	metrics.ReportsGenerated.WithLabelValues(string(models.ReportRevenue)).Inc()
	log.Printf("[RevenueReport] Generated report %d for %02d/%d: %d brands, total %s",
		reportID, month, year, len(details), total.StringFixed(0))

	return repo.GetByPeriod(ctx, month, year)
}

// DeleteReport removes the period's report so the next request regenerates it
func (s *RevenueReportService) DeleteReport(ctx context.Context, month, year int) (bool, error) {
	if err := ValidatePeriod(month, year); err != nil {
		return false, err
	}

	var deleted bool
	err := s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		if err := repositories.NewLockRepository(tx).Acquire(ctx, reportLockKey(models.ReportRevenue, month, year)); err != nil {
			return persistence("khóa báo cáo", err)
		}
		var err error
		deleted, err = repositories.NewRevenueReportRepository(tx).Delete(ctx, month, year)
		return persistence("xóa báo cáo doanh số", err)
	})
	if err != nil {
		log.Printf("[RevenueReport] Failed to delete report %02d/%d: %v", month, year, err)
		return false, err
	}

	s.Cache.InvalidateReport(ctx, string(models.ReportRevenue), month, year)
	if deleted {
		log.Printf("[RevenueReport] Deleted report %02d/%d", month, year)
	}
	return deleted, nil
}

// ListReports returns report headers without details, empty on failure
func (s *RevenueReportService) ListReports(ctx context.Context) []models.RevenueReport {
	reports, err := s.Repo.List(ctx)
	if err != nil {
		log.Printf("[RevenueReport] Failed to list reports: %v", err)
		return []models.RevenueReport{}
	}
	return reports
}
