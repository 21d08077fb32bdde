package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"

	"garage-backend/internal/cache"
	"garage-backend/internal/db"
	"garage-backend/internal/metrics"
	"garage-backend/internal/models"
	"garage-backend/internal/repositories"
	"garage-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const defaultImportHistoryLimit = 100

// SuppliesImportService records stock arriving from suppliers
type SuppliesImportService struct {
	DB      *db.Gateway
	Cache   *cache.Cache
	Imports *repositories.SuppliesImportRepository
	Catalog *CatalogService
}

func NewSuppliesImportService(gw *db.Gateway, c *cache.Cache, catalog *CatalogService) *SuppliesImportService {
	return &SuppliesImportService{
		DB:      gw,
		Cache:   c,
		Imports: repositories.NewSuppliesImportRepository(gw.Pool),
		Catalog: catalog,
	}
}

func (s *SuppliesImportService) ListSuppliesForImport(ctx context.Context) []models.Supply {
	supplies, err := s.Catalog.ListSupplies(ctx)
	if err != nil {
		return []models.Supply{}
	}
	return supplies
}

// CreateImportTicket records every line at the supply's current price and
// raises inventory, all in one transaction.
func (s *SuppliesImportService) CreateImportTicket(ctx context.Context, req models.CreateImportRequest) (*models.CreateImportResult, error) {
	if len(req.Items) == 0 {
		return nil, invalid("items", "Vui lòng thêm ít nhất một vật tư")
	}
	for _, item := range req.Items {
		if item.SupplyID <= 0 {
			return nil, invalid("supply_id", "Vui lòng chọn vật tư")
		}
		if item.ImportQty <= 0 {
			err := invalid("import_qty", "Số lượng nhập phải > 0")
			recordRejection("create_import", err)
			return nil, err
		}
	}
	date, err := timeutil.ParseDate(req.ImportDate)
	if err != nil {
		return nil, invalid("import_date", "Ngày nhập không hợp lệ (YYYY-MM-DD)")
	}

	result := &models.CreateImportResult{TotalMoney: decimal.Zero, ImportedIDs: []int{}}
	err = s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		supplies := repositories.NewSupplyRepository(tx)
		imports := repositories.NewSuppliesImportRepository(tx)

		locked, err := lockSuppliesByID(ctx, supplies, req.Items)
		if err != nil {
			return err
		}

		for _, item := range req.Items {
			supply := locked[item.SupplyID]

			id, err := imports.Create(ctx, supply.ID, date, item.ImportQty, supply.Price)
			if err != nil {
				return persistence("tạo phiếu nhập vật tư", err)
			}
			if err := supplies.Increment(ctx, supply.ID, item.ImportQty); err != nil {
				return persistence("cập nhật tồn kho", err)
			}

			result.ImportedIDs = append(result.ImportedIDs, id)
			result.TotalMoney = result.TotalMoney.Add(supply.Price.Mul(decimal.NewFromInt(int64(item.ImportQty))))
		}
		result.TotalItems = len(req.Items)
		return nil
	})
	if err != nil {
		log.Printf("[SuppliesImport] Failed to create import ticket: %v", err)
		recordRejection("create_import", err)
		return nil, err
	}

	s.Cache.InvalidateKeys(ctx, cache.SuppliesKey)
	metrics.SuppliesImported.Add(float64(result.TotalItems))
	log.Printf("[SuppliesImport] Imported %d lines on %s, total: %s",
		result.TotalItems, timeutil.FormatDate(date), result.TotalMoney.StringFixed(0))
	return result, nil
}

// lockSuppliesByID locks every referenced supply in name order, the same
// order repair tickets use.
func lockSuppliesByID(ctx context.Context, repo *repositories.SupplyRepository, items []models.ImportItem) (map[int]*models.Supply, error) {
	byID := make(map[int]*models.Supply)
	for _, item := range items {
		if _, ok := byID[item.SupplyID]; ok {
			continue
		}
		supply, err := repo.GetByID(ctx, item.SupplyID)
		if err != nil {
			if isNoRows(err) {
				return nil, notFound("supply", strconv.Itoa(item.SupplyID),
					fmt.Sprintf("Không tìm thấy vật tư ID %d", item.SupplyID))
			}
			return nil, persistence("đọc vật tư", err)
		}
		byID[item.SupplyID] = supply
	}

	ordered := make([]*models.Supply, 0, len(byID))
	for _, supply := range byID {
		ordered = append(ordered, supply)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	for _, supply := range ordered {
		current, err := repo.LockByID(ctx, supply.ID)
		if err != nil {
			if isNoRows(err) {
				return nil, notFound("supply", strconv.Itoa(supply.ID),
					fmt.Sprintf("Không tìm thấy vật tư ID %d", supply.ID))
			}
			return nil, persistence("khóa vật tư", err)
		}
		byID[supply.ID] = current
	}
	return byID, nil
}

// GetImportHistory returns the latest imports, empty on failure
func (s *SuppliesImportService) GetImportHistory(ctx context.Context, limit int) []models.SuppliesImport {
	if limit <= 0 {
		limit = defaultImportHistoryLimit
	}
	history, err := s.Imports.History(ctx, limit)
	if err != nil {
		log.Printf("[SuppliesImport] Failed to load import history: %v", err)
		return []models.SuppliesImport{}
	}
	return history
}
