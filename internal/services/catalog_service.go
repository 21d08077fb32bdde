package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"garage-backend/internal/cache"
	"garage-backend/internal/db"
	"garage-backend/internal/models"
	"garage-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CatalogService manages brands, supplies and wages
type CatalogService struct {
	DB       *db.Gateway
	Cache    *cache.Cache
	Brands   *repositories.BrandRepository
	Supplies *repositories.SupplyRepository
	Wages    *repositories.WageRepository
}

func NewCatalogService(gw *db.Gateway, c *cache.Cache) *CatalogService {
	return &CatalogService{
		DB:       gw,
		Cache:    c,
		Brands:   repositories.NewBrandRepository(gw.Pool),
		Supplies: repositories.NewSupplyRepository(gw.Pool),
		Wages:    repositories.NewWageRepository(gw.Pool),
	}
}

// ==================== Brands ====================

func (s *CatalogService) ListBrands(ctx context.Context) ([]models.CarBrand, error) {
	var brands []models.CarBrand
	if s.Cache.GetJSON(ctx, cache.BrandsKey, &brands) {
		return brands, nil
	}

	brands, err := s.Brands.List(ctx)
	if err != nil {
		log.Printf("[Catalog] Failed to fetch car brands: %v", err)
		return nil, persistence("đọc danh sách hiệu xe", err)
	}
	s.Cache.SetJSON(ctx, cache.BrandsKey, brands, cache.CatalogTTL)
	return brands, nil
}

func (s *CatalogService) AddBrand(ctx context.Context, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalid("name", "Tên hiệu xe không được rỗng")
	}

	id, err := s.Brands.Create(ctx, name)
	if err != nil {
		if isDuplicate(err) {
			return 0, rejected(ErrDuplicate, fmt.Sprintf("Hiệu xe '%s' đã tồn tại", name))
		}
		return 0, persistence("thêm hiệu xe", err)
	}

	s.Cache.InvalidateCatalogCaches(ctx)
	log.Printf("[Catalog] Added brand %s (id %d)", name, id)
	return id, nil
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "Tên hiệu xe không được rỗng")
	}

	n, err := s.Brands.Update(ctx, id, name)
	if err != nil {
		if isDuplicate(err) {
			return rejected(ErrDuplicate, fmt.Sprintf("Hiệu xe '%s' đã tồn tại", name))
		}
		return persistence("cập nhật hiệu xe", err)
	}
	if n == 0 {
		return notFound("brand", strconv.Itoa(id), fmt.Sprintf("Không tìm thấy hiệu xe ID %d", id))
	}

	s.Cache.InvalidateCatalogCaches(ctx)
	log.Printf("[Catalog] Renamed brand %d to %s", id, name)
	return nil
}

// DeleteBrand refuses while any car still uses the brand
func (s *CatalogService) DeleteBrand(ctx context.Context, id int) error {
	err := s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		brands := repositories.NewBrandRepository(tx)

		count, err := brands.CountCars(ctx, id)
		if err != nil {
			return persistence("kiểm tra hiệu xe", err)
		}
		if count > 0 {
			return rejected(ErrInUse, fmt.Sprintf("Không thể xóa hiệu xe đang được sử dụng bởi %d xe", count))
		}

		n, err := brands.Delete(ctx, id)
		if err != nil {
			return persistence("xóa hiệu xe", err)
		}
		if n == 0 {
			return notFound("brand", strconv.Itoa(id), fmt.Sprintf("Không tìm thấy hiệu xe ID %d", id))
		}
		return nil
	})
	if err != nil {
		log.Printf("[Catalog] Failed to delete brand %d: %v", id, err)
		return err
	}

	s.Cache.InvalidateCatalogCaches(ctx)
	log.Printf("[Catalog] Deleted brand %d", id)
	return nil
}

// ==================== Supplies ====================

func (s *CatalogService) ListSupplies(ctx context.Context) ([]models.Supply, error) {
	var supplies []models.Supply
	if s.Cache.GetJSON(ctx, cache.SuppliesKey, &supplies) {
		return supplies, nil
	}

	supplies, err := s.Supplies.List(ctx)
	if err != nil {
		log.Printf("[Catalog] Failed to fetch supplies: %v", err)
		return nil, persistence("đọc danh sách vật tư", err)
	}
	s.Cache.SetJSON(ctx, cache.SuppliesKey, supplies, cache.CatalogTTL)
	return supplies, nil
}

// GetSupplyByName returns nil when the supply does not exist or the lookup fails
func (s *CatalogService) GetSupplyByName(ctx context.Context, name string) *models.Supply {
	supply, err := s.Supplies.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if !isNoRows(err) {
			log.Printf("[Catalog] Failed to get supply %s: %v", name, err)
		}
		return nil
	}
	return supply
}

func (s *CatalogService) AddSupply(ctx context.Context, name string, price decimal.Decimal) (int, error) {
	name = strings.TrimSpace(name)
	if err := validatePriced("Tên vật tư", "Đơn giá", name, price); err != nil {
		return 0, err
	}

	id, err := s.Supplies.Create(ctx, name, price)
	if err != nil {
		if isDuplicate(err) {
			return 0, rejected(ErrDuplicate, fmt.Sprintf("Vật tư '%s' đã tồn tại", name))
		}
		return 0, persistence("thêm vật tư", err)
	}

	s.Cache.InvalidateCatalogCaches(ctx)
	log.Printf("[Catalog] Added supply %s (id %d)", name, id)
	return id, nil
}

func (s *CatalogService) UpdateSupply(ctx context.Context, id int, name string, price decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if err := validatePriced("Tên vật tư", "Đơn giá", name, price); err != nil {
		return err
	}

	n, err := s.Supplies.Update(ctx, id, name, price)
	if err != nil {
		if isDuplicate(err) {
			return rejected(ErrDuplicate, fmt.Sprintf("Vật tư '%s' đã tồn tại", name))
		}
		return persistence("cập nhật vật tư", err)
	}
	if n == 0 {
		return notFound("supply", strconv.Itoa(id), fmt.Sprintf("Không tìm thấy vật tư ID %d", id))
	}

	s.Cache.InvalidateCatalogCaches(ctx)
	return nil
}

// DeleteSupply refuses while repair details or stock reports reference the supply
func (s *CatalogService) DeleteSupply(ctx context.Context, id int) error {
	err := s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		supplies := repositories.NewSupplyRepository(tx)

		repairCount, stockCount, err := supplies.CountReferences(ctx, id)
		if err != nil {
			return persistence("kiểm tra vật tư", err)
		}
		if repairCount > 0 || stockCount > 0 {
			return rejected(ErrInUse, fmt.Sprintf(
				"Không thể xóa vật tư đang được sử dụng (%d phiếu sửa chữa, %d báo cáo tồn)", repairCount, stockCount))
		}

		n, err := supplies.Delete(ctx, id)
		if err != nil {
			return persistence("xóa vật tư", err)
		}
		if n == 0 {
			return notFound("supply", strconv.Itoa(id), fmt.Sprintf("Không tìm thấy vật tư ID %d", id))
		}
		return nil
	})
	if err != nil {
		log.Printf("[Catalog] Failed to delete supply %d: %v", id, err)
		return err
	}

	s.Cache.InvalidateCatalogCaches(ctx)
	log.Printf("[Catalog] Deleted supply %d", id)
	return nil
}

// ==================== Wages ====================

func (s *CatalogService) ListWages(ctx context.Context) ([]models.Wage, error) {
	var wages []models.Wage
	if s.Cache.GetJSON(ctx, cache.WagesKey, &wages) {
		return wages, nil
	}

	wages, err := s.Wages.List(ctx)
	if err != nil {
		log.Printf("[Catalog] Failed to fetch wages: %v", err)
		return nil, persistence("đọc danh sách tiền công", err)
	}
	s.Cache.SetJSON(ctx, cache.WagesKey, wages, cache.CatalogTTL)
	return wages, nil
}

// GetWageByName returns nil when the wage does not exist or the lookup fails
func (s *CatalogService) GetWageByName(ctx context.Context, name string) *models.Wage {
	wage, err := s.Wages.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if !isNoRows(err) {
			log.Printf("[Catalog] Failed to get wage %s: %v", name, err)
		}
		return nil
	}
	return wage
}

func (s *CatalogService) AddWage(ctx context.Context, name string, value decimal.Decimal) (int, error) {
	name = strings.TrimSpace(name)
	if err := validatePriced("Tên tiền công", "Giá tiền công", name, value); err != nil {
		return 0, err
	}

	id, err := s.Wages.Create(ctx, name, value)
	if err != nil {
		if isDuplicate(err) {
			return 0, rejected(ErrDuplicate, fmt.Sprintf("Tiền công '%s' đã tồn tại", name))
		}
		return 0, persistence("thêm tiền công", err)
	}

	s.Cache.InvalidateCatalogCaches(ctx)
	log.Printf("[Catalog] Added wage %s (id %d)", name, id)
	return id, nil
}

func (s *CatalogService) UpdateWage(ctx context.Context, id int, name string, value decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if err := validatePriced("Tên tiền công", "Giá tiền công", name, value); err != nil {
		return err
	}

	n, err := s.Wages.Update(ctx, id, name, value)
	if err != nil {
		if isDuplicate(err) {
			return rejected(ErrDuplicate, fmt.Sprintf("Tiền công '%s' đã tồn tại", name))
		}
		return persistence("cập nhật tiền công", err)
	}
	if n == 0 {
		return notFound("wage", strconv.Itoa(id), fmt.Sprintf("Không tìm thấy tiền công ID %d", id))
	}

	s.Cache.InvalidateCatalogCaches(ctx)
	return nil
}

// DeleteWage refuses while any repair detail uses the wage
func (s *CatalogService) DeleteWage(ctx context.Context, id int) error {
	err := s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		wages := repositories.NewWageRepository(tx)

		count, err := wages.CountReferences(ctx, id)
		if err != nil {
			return persistence("kiểm tra tiền công", err)
		}
		if count > 0 {
			return rejected(ErrInUse, fmt.Sprintf("Không thể xóa tiền công đang được sử dụng trong %d phiếu sửa chữa", count))
		}

		n, err := wages.Delete(ctx, id)
		if err != nil {
			return persistence("xóa tiền công", err)
		}
		if n == 0 {
			return notFound("wage", strconv.Itoa(id), fmt.Sprintf("Không tìm thấy tiền công ID %d", id))
		}
		return nil
	})
	if err != nil {
		log.Printf("[Catalog] Failed to delete wage %d: %v", id, err)
		return err
	}

	s.Cache.InvalidateCatalogCaches(ctx)
	log.Printf("[Catalog] Deleted wage %d", id)
	return nil
}

// ==================== Batch sync ====================

// SaveAllSettings makes the catalog match the submitted lists in one transaction:
// the daily cap is stored, missing entries are inserted, changed prices are
// updated, and unlisted entries are deleted when nothing references them.
// Unlisted entries that are still referenced are kept.
func (s *CatalogService) SaveAllSettings(ctx context.Context, req models.SaveAllSettingsRequest, userID int) error {
	if req.MaxCars <= 0 {
		return invalid("max_cars", "Số xe tối đa phải > 0")
	}
	brandNames, err := normalizeNames(req.Brands, "Tên hiệu xe")
	if err != nil {
		return err
	}
	for _, item := range req.Supplies {
		if err := validatePriced("Tên vật tư", "Đơn giá", strings.TrimSpace(item.Name), item.Price); err != nil {
			return err
		}
	}
	for _, item := range req.Wages {
		if err := validatePriced("Tên tiền công", "Giá tiền công", strings.TrimSpace(item.Name), item.Price); err != nil {
			return err
		}
	}

	err = s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		settings := repositories.NewSystemSettingRepository(tx)
		if err := settings.Upsert(ctx, models.SettingMaxCarReception, strconv.Itoa(req.MaxCars), "", userID); err != nil {
			return persistence("lưu số xe tối đa", err)
		}
		if err := syncBrands(ctx, repositories.NewBrandRepository(tx), brandNames); err != nil {
			return err
		}
		if err := syncSupplies(ctx, repositories.NewSupplyRepository(tx), req.Supplies); err != nil {
			return err
		}
		return syncWages(ctx, repositories.NewWageRepository(tx), req.Wages)
	})
	if err != nil {
		log.Printf("[Catalog] Failed to save all settings: %v", err)
		return err
	}

	s.Cache.InvalidateCatalogCaches(ctx)
	log.Printf("[Catalog] Saved settings: max cars %d, %d brands, %d supplies, %d wages",
		req.MaxCars, len(brandNames), len(req.Supplies), len(req.Wages))
	return nil
}

func syncBrands(ctx context.Context, repo *repositories.BrandRepository, names []string) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return persistence("đọc hiệu xe", err)
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	have := make(map[string]bool, len(existing))
	for _, b := range existing {
		have[b.Name] = true
		if wanted[b.Name] {
			continue
		}
		count, err := repo.CountCars(ctx, b.ID)
		if err != nil {
			return persistence("kiểm tra hiệu xe", err)
		}
		if count == 0 {
			if _, err := repo.Delete(ctx, b.ID); err != nil {
				return persistence("xóa hiệu xe", err)
			}
		}
	}
	for _, n := range names {
		if !have[n] {
			if _, err := repo.Create(ctx, n); err != nil {
				return persistence("thêm hiệu xe", err)
			}
		}
	}
	return nil
}

func syncSupplies(ctx context.Context, repo *repositories.SupplyRepository, items []models.CatalogPriceInput) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return persistence("đọc vật tư", err)
	}

	wanted := make(map[string]decimal.Decimal, len(items))
	for _, item := range items {
		wanted[strings.TrimSpace(item.Name)] = item.Price
	}
	have := make(map[string]bool, len(existing))
	for _, sp := range existing {
		have[sp.Name] = true
		price, ok := wanted[sp.Name]
		if ok {
			if !price.Equal(sp.Price) {
				if _, err := repo.Update(ctx, sp.ID, sp.Name, price); err != nil {
					return persistence("cập nhật vật tư", err)
				}
			}
			continue
		}
		repairCount, stockCount, err := repo.CountReferences(ctx, sp.ID)
		if err != nil {
			return persistence("kiểm tra vật tư", err)
		}
		if repairCount == 0 && stockCount == 0 {
			if _, err := repo.Delete(ctx, sp.ID); err != nil {
				return persistence("xóa vật tư", err)
			}
		}
	}
	for name, price := range wanted {
		if !have[name] {
			if _, err := repo.Create(ctx, name, price); err != nil {
				return persistence("thêm vật tư", err)
			}
		}
	}
	return nil
}

func syncWages(ctx context.Context, repo *repositories.WageRepository, items []models.CatalogPriceInput) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return persistence("đọc tiền công", err)
	}

	wanted := make(map[string]decimal.Decimal, len(items))
	for _, item := range items {
		wanted[strings.TrimSpace(item.Name)] = item.Price
	}
	have := make(map[string]bool, len(existing))
	for _, w := range existing {
		have[w.Name] = true
		value, ok := wanted[w.Name]
		if ok {
			if !value.Equal(w.Value) {
				if _, err := repo.Update(ctx, w.ID, w.Name, value); err != nil {
					return persistence("cập nhật tiền công", err)
				}
			}
			continue
		}
		count, err := repo.CountReferences(ctx, w.ID)
		if err != nil {
			return persistence("kiểm tra tiền công", err)
		}
		if count == 0 {
			if _, err := repo.Delete(ctx, w.ID); err != nil {
				return persistence("xóa tiền công", err)
			}
		}
	}
	for name, value := range wanted {
		if !have[name] {
			if _, err := repo.Create(ctx, name, value); err != nil {
				return persistence("thêm tiền công", err)
			}
		}
	}
	return nil
}

func validatePriced(nameLabel, priceLabel, name string, price decimal.Decimal) error {
	if name == "" {
		return invalid("name", nameLabel+" không được rỗng")
	}
	if !price.IsPositive() {
		return invalid("price", priceLabel+" phải > 0")
	}
	return nil
}

// normalizeNames trims names, drops duplicates and rejects blanks
func normalizeNames(names []string, label string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, invalid("name", label+" không được rỗng")
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, nil
}
