package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"garage-backend/internal/auth"
	"garage-backend/internal/cache"
	"garage-backend/internal/config"
	"garage-backend/internal/database"
	"garage-backend/internal/db"
	"garage-backend/internal/models"
	"garage-backend/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// garage bundles the services of one isolated schema
type garage struct {
	gw        *db.Gateway
	settings  *SystemSettingService
	catalog   *CatalogService
	reception *ReceptionService
	repair    *RepairService
	receipt   *ReceiptService
	imports   *SuppliesImportService
	revenue   *RevenueReportService
	stock     *StockReportService
	users     *UserService
}

// newGarage migrates a fresh schema on GARAGE_TEST_DATABASE_URL and drops it when the test ends
func newGarage(t *testing.T) *garage {
	t.Helper()

	url := os.Getenv("GARAGE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("GARAGE_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	schema := fmt.Sprintf("garage_test_%d", time.Now().UnixNano())
	admin, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatal(err)
	}
	poolCfg.MaxConns = 10
	poolCfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if _, err := database.NewMigratorWithFS(pool, migrations.FS).RunMigrations(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.Secret = "integration"
	cfg.JWT.ExpirationHours = 1

	gw := db.NewGateway(pool)
	c := cache.Disabled()
	g := &garage{gw: gw}
	g.settings = NewSystemSettingService(gw)
	g.catalog = NewCatalogService(gw, c)
	g.reception = NewReceptionService(gw, g.settings, g.catalog)
	g.repair = NewRepairService(gw, c, g.catalog)
	g.receipt = NewReceiptService(gw, g.settings)
	g.imports = NewSuppliesImportService(gw, c, g.catalog)
	g.revenue = NewRevenueReportService(gw, c)
	g.stock = NewStockReportService(gw, c)
	g.users = NewUserService(gw, auth.NewJWTManager(cfg))
	return g
}

// seed creates a brand, a supply with stock and a wage, and returns the supply id
func (g *garage) seed(t *testing.T, stock int) int {
	t.Helper()
	ctx := context.Background()

	if _, err := g.catalog.AddBrand(ctx, "Toyota"); err != nil {
		t.Fatalf("AddBrand: %v", err)
	}
	supplyID, err := g.catalog.AddSupply(ctx, "Nhớt", decimal.NewFromInt(100000))
	if err != nil {
		t.Fatalf("AddSupply: %v", err)
	}
	if _, err := g.catalog.AddWage(ctx, "Thay nhớt", decimal.NewFromInt(50000)); err != nil {
		t.Fatalf("AddWage: %v", err)
	}
	if stock > 0 {
		_, err := g.imports.CreateImportTicket(ctx, models.CreateImportRequest{
			ImportDate: "2024-03-01",
			Items:      []models.ImportItem{{SupplyID: supplyID, ImportQty: stock}},
		})
		if err != nil {
			t.Fatalf("CreateImportTicket: %v", err)
		}
	}
	return supplyID
}

func (g *garage) receive(t *testing.T, plate, date string) int {
	t.Helper()
	res, err := g.reception.ReceiveCar(context.Background(), models.ReceiveCarRequest{
		LicensePlate:  plate,
		BrandName:     "Toyota",
		OwnerName:     "Nguyễn Văn A",
		ReceptionDate: date,
	})
	if err != nil {
		t.Fatalf("ReceiveCar(%s): %v", plate, err)
	}
	return res.ReceptionID
}

func (g *garage) debt(t *testing.T, receptionID int) decimal.Decimal {
	t.Helper()
	r, err := g.reception.GetReception(context.Background(), receptionID)
	if err != nil {
		t.Fatalf("GetReception: %v", err)
	}
	return r.Debt
}

func (g *garage) inventory(t *testing.T, name string) int {
	t.Helper()
	s := g.catalog.GetSupplyByName(context.Background(), name)
	if s == nil {
		t.Fatalf("supply %s missing", name)
	}
	return s.InventoryNumber
}

func (g *garage) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := g.gw.Pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func repairRequest(receptionID, qty int, total int64) models.CreateRepairRequest {
	return models.CreateRepairRequest{
		ReceptionID: receptionID,
		RepairDate:  "2024-03-06",
		TotalMoney:  decimal.NewFromInt(total),
		Details: []models.RepairLineInput{
			{Content: "Thay nhớt", SupplyName: "Nhớt", Quantity: qty, WageName: "Thay nhớt"},
		},
	}
}

func TestIntegrationReceiveCar(t *testing.T) {
	g := newGarage(t)
	g.seed(t, 0)

	res, err := g.reception.ReceiveCar(context.Background(), models.ReceiveCarRequest{
		LicensePlate:  "51f-123.45",
		BrandName:     "Toyota",
		OwnerName:     "Trần B",
		ReceptionDate: "2024-03-05",
	})
	if err != nil {
		t.Fatalf("ReceiveCar: %v", err)
	}
	if res.ReceptionID <= 0 || res.LicensePlate != "51F-123.45" {
		t.Fatalf("ReceiveCar() = %+v", res)
	}
	if !g.debt(t, res.ReceptionID).IsZero() {
		t.Fatal("new reception should carry zero debt")
	}

	_, err = g.reception.ReceiveCar(context.Background(), models.ReceiveCarRequest{
		LicensePlate: "30A-000.01", BrandName: "Lamborghini", OwnerName: "C",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown brand error = %v, want ErrNotFound", err)
	}
}

func TestIntegrationDailyCapacity(t *testing.T) {
	g := newGarage(t)
	g.seed(t, 0)
	ctx := context.Background()

	if err := g.settings.SetMaxCarsPerDay(ctx, 3, 0); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 3; i++ {
		g.receive(t, fmt.Sprintf("51F-000.0%d", i), "2024-03-05")
	}

	_, err := g.reception.ReceiveCar(ctx, models.ReceiveCarRequest{
		LicensePlate: "51F-000.04", BrandName: "Toyota", OwnerName: "D", ReceptionDate: "2024-03-05",
	})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("fourth intake error = %v, want ErrCapacityExceeded", err)
	}

	// another day has its own budget
	g.receive(t, "51F-000.04", "2024-03-06")
}

func TestIntegrationDailyCapacityConcurrent(t *testing.T) {
	g := newGarage(t)
	g.seed(t, 0)
	ctx := context.Background()

	const limit = 5
	if err := g.settings.SetMaxCarsPerDay(ctx, limit, 0); err != nil {
		t.Fatal(err)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := g.reception.ReceiveCar(ctx, models.ReceiveCarRequest{
				LicensePlate:  fmt.Sprintf("60C-%03d.00", i),
				BrandName:     "Toyota",
				OwnerName:     "Khách",
				ReceptionDate: "2024-03-07",
			})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			} else if !errors.Is(err, ErrCapacityExceeded) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if accepted != limit {
		t.Fatalf("accepted %d intakes, want %d", accepted, limit)
	}
}

func TestIntegrationRepairAddsDebtAndIssuesStock(t *testing.T) {
	g := newGarage(t)
	g.seed(t, 10)
	ctx := context.Background()
	receptionID := g.receive(t, "51F-123.45", "2024-03-05")

	before := g.debt(t, receptionID)
	res, err := g.repair.CreateRepairTicket(ctx, repairRequest(receptionID, 4, 450000))
	if err != nil {
		t.Fatalf("CreateRepairTicket: %v", err)
	}

	if got, want := g.debt(t, receptionID), before.Add(decimal.NewFromInt(450000)); !got.Equal(want) {
		t.Fatalf("debt = %s, want %s", got, want)
	}
	if got := g.inventory(t, "Nhớt"); got != 6 {
		t.Fatalf("inventory = %d, want 6", got)
	}

	details := g.repair.GetRepairDetails(ctx, res.RepairID)
	if len(details) != 1 || details[0].WageID == nil || !details[0].WageValue.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("details = %+v", details)
	}
}

func TestIntegrationRepairInsufficientStockIsAtomic(t *testing.T) {
	g := newGarage(t)
	g.seed(t, 5)
	ctx := context.Background()
	receptionID := g.receive(t, "51F-123.45", "2024-03-05")

	if _, err := g.catalog.AddSupply(ctx, "Lọc gió", decimal.NewFromInt(80000)); err != nil {
		t.Fatal(err)
	}

	req := repairRequest(receptionID, 2, 300000)
	// the second line cannot be covered, so the first must not be issued either
	req.Details = append(req.Details, models.RepairLineInput{SupplyName: "Lọc gió", Quantity: 1})

	_, err := g.repair.CreateRepairTicket(ctx, req)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("error = %v, want ErrInsufficientStock", err)
	}
	if !strings.Contains(err.Error(), "Lọc gió") {
		t.Fatalf("message %q does not name the supply", err.Error())
	}

	if got := g.inventory(t, "Nhớt"); got != 5 {
		t.Fatalf("inventory changed to %d", got)
	}
	if !g.debt(t, receptionID).IsZero() {
		t.Fatal("debt changed on failed repair")
	}
	if n := g.count(t, "repairs"); n != 0 {
		t.Fatalf("repairs rows = %d, want 0", n)
	}
}

func TestIntegrationRepairConcurrentNeverOversells(t *testing.T) {
	g := newGarage(t)
	g.seed(t, 6)
	ctx := context.Background()
	receptionID := g.receive(t, "51F-123.45", "2024-03-05")

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.repair.CreateRepairTicket(ctx, repairRequest(receptionID, 2, 100000)); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if ok != 3 {
		t.Fatalf("successful tickets = %d, want 3", ok)
	}
	if got := g.inventory(t, "Nhớt"); got != 0 {
		t.Fatalf("inventory = %d, want 0", got)
	}
	if got := g.debt(t, receptionID); !got.Equal(decimal.NewFromInt(300000)) {
		t.Fatalf("debt = %s, want 300000", got)
	}
}

func TestIntegrationReceipts(t *testing.T) {
	g := newGarage(t)
	g.seed(t, 10)
	ctx := context.Background()
	receptionID := g.receive(t, "51F-123.45", "2024-03-05")
	if _, err := g.repair.CreateRepairTicket(ctx, repairRequest(receptionID, 1, 300000)); err != nil {
		t.Fatal(err)
	}

	// overpayment is refused and leaves the debt untouched
	_, err := g.receipt.CreateReceipt(ctx, models.CreateReceiptRequest{
		ReceptionID: receptionID, ReceiptDate: "2024-03-08", MoneyAmount: decimal.NewFromInt(500000),
	})
	if !errors.Is(err, ErrOverpayment) || !strings.Contains(err.Error(), "vượt quá") {
		t.Fatalf("overpayment error = %v", err)
	}
	if got := g.debt(t, receptionID); !got.Equal(decimal.NewFromInt(300000)) {
		t.Fatalf("debt after refused receipt = %s", got)
	}

	res, err := g.receipt.CreateReceipt(ctx, models.CreateReceiptRequest{
		ReceptionID: receptionID, ReceiptDate: "2024-03-08", MoneyAmount: decimal.NewFromInt(120000),
	})
	if err != nil {
		t.Fatalf("partial receipt: %v", err)
	}
	if !res.RemainingDebt.Equal(decimal.NewFromInt(180000)) || res.Settled {
		t.Fatalf("partial receipt result = %+v", res)
	}

	res, err = g.receipt.CreateReceipt(ctx, models.CreateReceiptRequest{
		ReceptionID: receptionID, ReceiptDate: "2024-03-09", MoneyAmount: decimal.NewFromInt(180000),
	})
	if err != nil {
		t.Fatalf("settling receipt: %v", err)
	}
	if !res.RemainingDebt.IsZero() || !res.Settled {
		t.Fatalf("settling receipt result = %+v", res)
	}

	_, err = g.receipt.CreateReceipt(ctx, models.CreateReceiptRequest{
		ReceptionID: receptionID, MoneyAmount: decimal.NewFromInt(1),
	})
	if !errors.Is(err, ErrNoDebt) {
		t.Fatalf("receipt on settled reception error = %v, want ErrNoDebt", err)
	}
}

func TestIntegrationOverpayAllowedFloorsAtZero(t *testing.T) {
	g := newGarage(t)
	g.seed(t, 10)
	ctx := context.Background()
	receptionID := g.receive(t, "51F-123.45", "2024-03-05")
	if _, err := g.repair.CreateRepairTicket(ctx, repairRequest(receptionID, 1, 200000)); err != nil {
		t.Fatal(err)
	}
	if err := g.settings.SetIsOverPay(ctx, true, 0); err != nil {
		t.Fatal(err)
	}

	res, err := g.receipt.CreateReceipt(ctx, models.CreateReceiptRequest{
		ReceptionID: receptionID, MoneyAmount: decimal.NewFromInt(250000),
	})
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}
	if !res.RemainingDebt.IsZero() {
		t.Fatalf("remaining debt = %s, want 0", res.RemainingDebt)
	}
	if !g.debt(t, receptionID).IsZero() {
		t.Fatal("debt went below zero or was not cleared")
	}
}

func TestIntegrationRevenueReportIdempotent(t *testing.T) {
	g := newGarage(t)
	g.seed(t, 10)
	ctx := context.Background()
	receptionID := g.receive(t, "51F-123.45", "2024-03-05")
	if _, err := g.repair.CreateRepairTicket(ctx, repairRequest(receptionID, 1, 250000)); err != nil {
		t.Fatal(err)
	}

	first, err := g.revenue.GetOrCreateMonthlyReport(ctx, 3, 2024)
	if err != nil {
		t.Fatalf("first GetOrCreateMonthlyReport: %v", err)
	}
	second, err := g.revenue.GetOrCreateMonthlyReport(ctx, 3, 2024)
	if err != nil {
		t.Fatalf("second GetOrCreateMonthlyReport: %v", err)
	}

	if first.ReportID != second.ReportID || !first.TotalRevenue.Equal(second.TotalRevenue) {
		t.Fatalf("reports differ: %+v vs %+v", first, second)
	}
	if !first.TotalRevenue.Equal(decimal.NewFromInt(250000)) {
		t.Fatalf("total = %s, want 250000", first.TotalRevenue)
	}
	if len(first.Details) != 1 || !first.Details[0].Rate.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("details = %+v", first.Details)
	}
	if n := g.count(t, "revenue_reports"); n != 1 {
		t.Fatalf("revenue_reports rows = %d, want 1", n)
	}

	deleted, err := g.revenue.DeleteReport(ctx, 3, 2024)
	if err != nil || !deleted {
		t.Fatalf("DeleteReport() = %v, %v", deleted, err)
	}
}

func TestIntegrationRevenueReportConcurrentFirstRequest(t *testing.T) {
	g := newGarage(t)
	g.seed(t, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]int, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := g.revenue.GetOrCreateMonthlyReport(ctx, 4, 2024)
			if err != nil {
				t.Errorf("GetOrCreateMonthlyReport: %v", err)
				return
			}
			ids[i] = r.ReportID
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("report ids differ: %v", ids)
		}
	}
	if n := g.count(t, "revenue_reports"); n != 1 {
		t.Fatalf("revenue_reports rows = %d, want 1", n)
	}
}

func TestIntegrationStockReport(t *testing.T) {
	g := newGarage(t)
	g.seed(t, 10)
	ctx := context.Background()
	receptionID := g.receive(t, "51F-123.45", "2024-03-05")
	if _, err := g.repair.CreateRepairTicket(ctx, repairRequest(receptionID, 3, 300000)); err != nil {
		t.Fatal(err)
	}

	march, err := g.stock.GetOrCreateMonthlyReport(ctx, 3, 2024)
	if err != nil {
		t.Fatalf("GetOrCreateMonthlyReport(3/2024): %v", err)
	}
	if len(march.Details) != 1 {
		t.Fatalf("details = %+v", march.Details)
	}
	d := march.Details[0]
	if d.BeginQty != 0 || d.ImportQty != 10 || d.IssueQty != 3 || d.EndQty != 7 {
		t.Fatalf("march line = %+v", d)
	}

	april, err := g.stock.GetOrCreateMonthlyReport(ctx, 4, 2024)
	if err != nil {
		t.Fatalf("GetOrCreateMonthlyReport(4/2024): %v", err)
	}
	if got := april.Details[0].BeginQty; got != 7 {
		t.Fatalf("april opening = %d, want march closing 7", got)
	}
	if n := g.count(t, "stock_reports"); n != 2 {
		t.Fatalf("stock_reports rows = %d, want 2", n)
	}

	again, err := g.stock.GetOrCreateMonthlyReport(ctx, 3, 2024)
	if err != nil {
		t.Fatalf("repeat GetOrCreateMonthlyReport(3/2024): %v", err)
	}
	if again.ReportID != march.ReportID || again.Details[0].EndQty != d.EndQty {
		t.Fatalf("repeat report = %+v, want report %d", again, march.ReportID)
	}
	if n := g.count(t, "stock_reports"); n != 2 {
		t.Fatalf("stock_reports rows after repeat = %d, want 2", n)
	}

	deleted, err := g.stock.DeleteReport(ctx, 4, 2024)
	if err != nil || !deleted {
		t.Fatalf("DeleteReport(4/2024) = %v, %v", deleted, err)
	}
	if n := g.count(t, "stock_reports"); n != 1 {
		t.Fatalf("stock_reports rows after delete = %d, want 1", n)
	}

	regenerated, err := g.stock.GetOrCreateMonthlyReport(ctx, 4, 2024)
	if err != nil {
		t.Fatalf("regenerate GetOrCreateMonthlyReport(4/2024): %v", err)
	}
	if regenerated.ReportID == april.ReportID || regenerated.Details[0].BeginQty != 7 {
		t.Fatalf("regenerated report = %+v", regenerated)
	}
}

func TestIntegrationImportRejectsUnknownSupply(t *testing.T) {
	g := newGarage(t)
	supplyID := g.seed(t, 0)
	ctx := context.Background()

	_, err := g.imports.CreateImportTicket(ctx, models.CreateImportRequest{
		Items: []models.ImportItem{{SupplyID: supplyID, ImportQty: 4}, {SupplyID: supplyID + 1000, ImportQty: 1}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if got := g.inventory(t, "Nhớt"); got != 0 {
		t.Fatalf("inventory = %d after failed import, want 0", got)
	}
}

func TestIntegrationCatalogDeleteInUse(t *testing.T) {
	g := newGarage(t)
	supplyID := g.seed(t, 10)
	ctx := context.Background()
	receptionID := g.receive(t, "51F-123.45", "2024-03-05")
	if _, err := g.repair.CreateRepairTicket(ctx, repairRequest(receptionID, 1, 100000)); err != nil {
		t.Fatal(err)
	}

	if err := g.catalog.DeleteSupply(ctx, supplyID); !errors.Is(err, ErrInUse) {
		t.Fatalf("DeleteSupply() error = %v, want ErrInUse", err)
	}
	if _, err := g.catalog.AddBrand(ctx, "Toyota"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate AddBrand() error = %v, want ErrDuplicate", err)
	}
}

func TestIntegrationDefaultUsersAndLogin(t *testing.T) {
	g := newGarage(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := g.users.EnsureDefaultUsers(ctx); err != nil {
			t.Fatalf("EnsureDefaultUsers: %v", err)
		}
	}
	users, err := g.users.ListUsers(ctx)
	if err != nil || len(users) != 2 {
		t.Fatalf("ListUsers() = %d users, %v", len(users), err)
	}

	resp, session, err := g.users.Authenticate(ctx, models.LoginRequest{Username: "staff", Password: "staff"}, "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if resp.Token == "" || session.Role != models.RoleStaff || len(resp.Pages) != 4 {
		t.Fatalf("Authenticate() = %+v, %+v", resp, session)
	}
	g.users.Logout(ctx, session)

	if logs := g.users.ListLoginLogs(ctx, 10); len(logs) != 1 {
		t.Fatalf("login logs = %d, want 1", len(logs))
	}

	_, _, err = g.users.Authenticate(ctx, models.LoginRequest{Username: "staff", Password: "wrong"}, "", "")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("wrong password error = %v", err)
	}
}
