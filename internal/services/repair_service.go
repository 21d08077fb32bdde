package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"garage-backend/internal/cache"
	"garage-backend/internal/db"
	"garage-backend/internal/metrics"
	"garage-backend/internal/models"
	"garage-backend/internal/repositories"
	"garage-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
)

// RepairService records repair tickets against receptions
type RepairService struct {
	DB         *db.Gateway
	Cache      *cache.Cache
	Repairs    *repositories.RepairRepository
	Receptions *repositories.ReceptionRepository
	Catalog    *CatalogService
}

func NewRepairService(gw *db.Gateway, c *cache.Cache, catalog *CatalogService) *RepairService {
	return &RepairService{
		DB:         gw,
		Cache:      c,
		Repairs:    repositories.NewRepairRepository(gw.Pool),
		Receptions: repositories.NewReceptionRepository(gw.Pool),
		Catalog:    catalog,
	}
}

// CheckStock reports whether current on-hand quantity covers requested
func CheckStock(supplyName string, current, requested int) models.InventoryCheck {
	if current < requested {
		return models.InventoryCheck{
			Available:        false,
			Message:          (&InsufficientStockError{SupplyName: supplyName, Current: current, Requested: requested}).Error(),
			CurrentInventory: current,
		}
	}
	return models.InventoryCheck{Available: true, Message: "Đủ tồn kho", CurrentInventory: current}
}

// RequestedQuantities sums line quantities per supply name
func RequestedQuantities(lines []models.RepairLineInput) map[string]int {
	totals := make(map[string]int)
	for _, l := range lines {
		totals[strings.TrimSpace(l.SupplyName)] += l.Quantity
	}
	return totals
}

func hasWage(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && name != models.NoWagePlaceholder
}

func validateRepairRequest(req models.CreateRepairRequest) error {
	if req.ReceptionID <= 0 {
		return invalid("reception_id", "Vui lòng chọn phiếu tiếp nhận")
	}
	if len(req.Details) == 0 {
		return invalid("details", "Phiếu sửa chữa phải có ít nhất một dòng chi tiết")
	}
	if req.TotalMoney.IsNegative() {
		return invalid("total_money", "Tổng tiền không được âm")
	}
	for i, d := range req.Details {
		if strings.TrimSpace(d.SupplyName) == "" {
			return invalid("details", fmt.Sprintf("Dòng %d: vui lòng chọn vật tư", i+1))
		}
		if d.Quantity <= 0 {
			return invalid("details", fmt.Sprintf("Dòng %d: số lượng phải > 0", i+1))
		}
	}
	return nil
}

// CreateRepairTicket inserts the ticket and its lines, decrements inventory
// per line and adds the total to the reception's debt, all in one transaction.
// Unknown catalog names and stock shortages are detected before any write.
func (s *RepairService) CreateRepairTicket(ctx context.Context, req models.CreateRepairRequest) (*models.CreateRepairResult, error) {
	if err := validateRepairRequest(req); err != nil {
		recordRejection("create_repair", err)
		return nil, err
	}
	date, err := timeutil.ParseDate(strings.TrimSpace(req.RepairDate))
	if err != nil {
		return nil, invalid("repair_date", "Ngày sửa chữa không hợp lệ (YYYY-MM-DD)")
	}

	var repairID int
	err = s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		receptions := repositories.NewReceptionRepository(tx)
		supplies := repositories.NewSupplyRepository(tx)
		wages := repositories.NewWageRepository(tx)
		repairs := repositories.NewRepairRepository(tx)

		if _, err := receptions.Lock(ctx, req.ReceptionID); err != nil {
			if isNoRows(err) {
				return notFound("reception", strconv.Itoa(req.ReceptionID),
					fmt.Sprintf("Không tìm thấy phiếu tiếp nhận ID %d", req.ReceptionID))
			}
			return persistence("đọc phiếu tiếp nhận", err)
		}

		// Lock supplies in name order so concurrent tickets cannot deadlock
		requested := RequestedQuantities(req.Details)
		names := make([]string, 0, len(requested))
		for name := range requested {
			names = append(names, name)
		}
		sort.Strings(names)

		resolved := make(map[string]*models.Supply, len(names))
		for _, name := range names {
			supply, err := supplies.LockByName(ctx, name)
			if err != nil {
				if isNoRows(err) {
					return notFound("supply", name, "Không tìm thấy vật tư: "+name)
				}
				return persistence("tìm vật tư", err)
			}
			resolved[name] = supply
		}

		wageByName := make(map[string]*models.Wage)
		for _, d := range req.Details {
			name := strings.TrimSpace(d.WageName)
			if !hasWage(name) || wageByName[name] != nil {
				continue
			}
			wage, err := wages.GetByName(ctx, name)
			if err != nil {
				if isNoRows(err) {
					return notFound("wage", name, "Không tìm thấy tiền công: "+name)
				}
				return persistence("tìm tiền công", err)
			}
			wageByName[name] = wage
		}

		for _, name := range names {
			supply := resolved[name]
			if check := CheckStock(supply.Name, supply.InventoryNumber, requested[name]); !check.Available {
				return &InsufficientStockError{SupplyName: supply.Name, Current: supply.InventoryNumber, Requested: requested[name]}
			}
		}

		var err error
		repairID, err = repairs.Create(ctx, req.ReceptionID, date, req.TotalMoney)
		if err != nil {
			return persistence("tạo phiếu sửa chữa", err)
		}

		for _, d := range req.Details {
			supply := resolved[strings.TrimSpace(d.SupplyName)]
			detail := &models.RepairDetail{
				RepairID:     repairID,
				Content:      strings.TrimSpace(d.Content),
				SupplyID:     supply.ID,
				SupplyAmount: d.Quantity,
				SupplyPrice:  supply.Price,
			}
			if wage := wageByName[strings.TrimSpace(d.WageName)]; wage != nil {
				detail.WageID = &wage.ID
				detail.WageValue = wage.Value
			}
			if _, err := repairs.CreateDetail(ctx, detail); err != nil {
				return persistence("tạo chi tiết sửa chữa", err)
			}

			n, err := supplies.Decrement(ctx, supply.ID, d.Quantity)
			if err != nil {
				return persistence("cập nhật tồn kho", err)
			}
			if n == 0 {
				return &InsufficientStockError{SupplyName: supply.Name, Current: supply.InventoryNumber, Requested: requested[supply.Name]}
			}
		}

		if _, err := receptions.AddDebt(ctx, req.ReceptionID, req.TotalMoney); err != nil {
			return persistence("cập nhật công nợ", err)
		}
		return nil
	})
	if err != nil {
		log.Printf("[Repair] Failed to create repair ticket for reception %d: %v", req.ReceptionID, err)
		recordRejection("create_repair", err)
		return nil, err
	}

	s.Cache.InvalidateKeys(ctx, cache.SuppliesKey)
	metrics.RepairTicketsCreated.Inc()
	log.Printf("[Repair] Created repair ticket %d for reception %d, total %s",
		repairID, req.ReceptionID, req.TotalMoney.StringFixed(0))

	return &models.CreateRepairResult{RepairID: repairID}, nil
}

func (s *RepairService) GetRepair(ctx context.Context, id int) (*models.Repair, error) {
	repair, err := s.Repairs.Get(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("repair", strconv.Itoa(id), fmt.Sprintf("Không tìm thấy phiếu sửa chữa ID %d", id))
		}
		return nil, persistence("đọc phiếu sửa chữa", err)
	}
	return repair, nil
}

// GetRepairDetails returns the ticket's lines, empty on failure
func (s *RepairService) GetRepairDetails(ctx context.Context, id int) []models.RepairDetail {
	details, err := s.Repairs.ListDetails(ctx, id)
	if err != nil {
		log.Printf("[Repair] Failed to get repair details for repair %d: %v", id, err)
		return []models.RepairDetail{}
	}
	return details
}

// GetLatestReceptionByPlate returns nil when the vehicle has no reception or the lookup fails
func (s *RepairService) GetLatestReceptionByPlate(ctx context.Context, plate string) *models.CarReception {
	reception, err := s.Receptions.LatestByPlate(ctx, normalizePlate(plate))
	if err != nil {
		if !isNoRows(err) {
			log.Printf("[Repair] Failed to get latest reception for %s: %v", plate, err)
		}
		return nil
	}
	return reception
}

func (s *RepairService) ListSupplies(ctx context.Context) ([]models.Supply, error) {
	return s.Catalog.ListSupplies(ctx)
}

func (s *RepairService) ListWages(ctx context.Context) ([]models.Wage, error) {
	return s.Catalog.ListWages(ctx)
}

func (s *RepairService) GetSupplyByName(ctx context.Context, name string) *models.Supply {
	return s.Catalog.GetSupplyByName(ctx, name)
}

func (s *RepairService) GetWageByName(ctx context.Context, name string) *models.Wage {
	return s.Catalog.GetWageByName(ctx, name)
}

// CheckSupplyInventory reports whether qty units of the named supply are on hand
func (s *RepairService) CheckSupplyInventory(ctx context.Context, name string, qty int) models.InventoryCheck {
	supply, err := s.Catalog.Supplies.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if isNoRows(err) {
			return models.InventoryCheck{Available: false, Message: "Không tìm thấy vật tư: " + name}
		}
		log.Printf("[Repair] Error checking inventory for %s: %v", name, err)
		return models.InventoryCheck{Available: false, Message: fmt.Sprintf("Lỗi khi kiểm tra tồn kho: %v", err)}
	}
	return CheckStock(supply.Name, supply.InventoryNumber, qty)
}
