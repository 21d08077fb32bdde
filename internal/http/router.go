package http

import (
	"net/http"

	"garage-backend/internal/handlers"
	"garage-backend/internal/middleware"
	"garage-backend/internal/permissions"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Auth      *handlers.AuthHandler
	Reception *handlers.ReceptionHandler
	Repair    *handlers.RepairHandler
	Receipt   *handlers.ReceiptHandler
	Vehicle   *handlers.VehicleHandler
	Catalog   *handlers.CatalogHandler
	Settings  *handlers.SystemSettingHandler
	Imports   *handlers.SuppliesImportHandler
	Reports   *handlers.ReportHandler
	Users     *handlers.UserHandler
	Health    *handlers.HealthHandler
}

func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware, loginLimit func(http.Handler) http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Health and metrics (no auth)
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API routes - Authentication
	r.Handle("/auth/login", loginLimit(http.HandlerFunc(h.Auth.Login))).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.HandleFunc("/navigation", h.Auth.Navigation).Methods("GET")
	api.HandleFunc("/logout", h.Auth.Logout).Methods("POST")

	// Vehicle intake
	receptions := api.PathPrefix("/receptions").Subrouter()
	receptions.Use(middleware.RequirePage(permissions.PageReception))
	receptions.HandleFunc("", h.Reception.ReceiveCar).Methods("POST")
	receptions.HandleFunc("", h.Reception.ListOnDate).Methods("GET")
	receptions.HandleFunc("/today", h.Reception.Today).Methods("GET")
	receptions.HandleFunc("/capacity", h.Reception.Capacity).Methods("GET")
	receptions.HandleFunc("/brands", h.Reception.Brands).Methods("GET")
	receptions.HandleFunc("/cars/{plate}", h.Reception.Car).Methods("GET")
	receptions.HandleFunc("/{id:[0-9]+}", h.Reception.Get).Methods("GET")

	// Repair tickets
	repairs := api.PathPrefix("/repairs").Subrouter()
	repairs.Use(middleware.RequirePage(permissions.PageRepair))
	repairs.HandleFunc("", h.Repair.CreateTicket).Methods("POST")
	repairs.HandleFunc("/supplies", h.Repair.Supplies).Methods("GET")
	repairs.HandleFunc("/wages", h.Repair.Wages).Methods("GET")
	repairs.HandleFunc("/inventory-check", h.Repair.InventoryCheck).Methods("GET")
	repairs.HandleFunc("/receptions/{plate}", h.Repair.LatestReception).Methods("GET")
	repairs.HandleFunc("/{id:[0-9]+}", h.Repair.Get).Methods("GET")

	// Receipts
	receipts := api.PathPrefix("/receipts").Subrouter()
	receipts.Use(middleware.RequirePage(permissions.PageReceipt))
	receipts.HandleFunc("", h.Receipt.CreateReceipt).Methods("POST")
	receipts.HandleFunc("", h.Receipt.List).Methods("GET")
	receipts.HandleFunc("/check", h.Receipt.CheckPayment).Methods("POST")
	receipts.HandleFunc("/debt/{plate}", h.Receipt.Debt).Methods("GET")
	receipts.HandleFunc("/{id:[0-9]+}", h.Receipt.Get).Methods("GET")

	// Vehicle lookup
	vehicles := api.PathPrefix("/vehicles").Subrouter()
	vehicles.Use(middleware.RequirePage(permissions.PageVehicleLookup))
	vehicles.HandleFunc("", h.Vehicle.List).Methods("GET")
	vehicles.HandleFunc("/{plate}", h.Vehicle.Detail).Methods("GET")
	vehicles.HandleFunc("/{plate}/receptions", h.Vehicle.Receptions).Methods("GET")
	vehicles.HandleFunc("/{plate}/repairs", h.Vehicle.Repairs).Methods("GET")

	// Catalog: reads for the forms that pick from it, writes for the catalog page
	catalogRead := middleware.RequireAnyPage(permissions.PageCatalog, permissions.PageReception,
		permissions.PageRepair, permissions.PageSuppliesImport)
	catalogWrite := middleware.RequirePage(permissions.PageCatalog)
	catalog := api.PathPrefix("/catalog").Subrouter()
	catalog.Handle("", catalogRead(http.HandlerFunc(h.Catalog.Overview))).Methods("GET")
	catalog.Handle("", catalogWrite(http.HandlerFunc(h.Catalog.SaveAll))).Methods("PUT")
	catalog.Handle("/brands", catalogRead(http.HandlerFunc(h.Catalog.ListBrands))).Methods("GET")
	catalog.Handle("/brands", catalogWrite(http.HandlerFunc(h.Catalog.AddBrand))).Methods("POST")
	catalog.Handle("/brands/{id:[0-9]+}", catalogWrite(http.HandlerFunc(h.Catalog.UpdateBrand))).Methods("PUT")
	catalog.Handle("/brands/{id:[0-9]+}", catalogWrite(http.HandlerFunc(h.Catalog.DeleteBrand))).Methods("DELETE")
	catalog.Handle("/supplies", catalogRead(http.HandlerFunc(h.Catalog.ListSupplies))).Methods("GET")
	catalog.Handle("/supplies", catalogWrite(http.HandlerFunc(h.Catalog.AddSupply))).Methods("POST")
	catalog.Handle("/supplies/{id:[0-9]+}", catalogWrite(http.HandlerFunc(h.Catalog.UpdateSupply))).Methods("PUT")
	catalog.Handle("/supplies/{id:[0-9]+}", catalogWrite(http.HandlerFunc(h.Catalog.DeleteSupply))).Methods("DELETE")
	catalog.Handle("/wages", catalogRead(http.HandlerFunc(h.Catalog.ListWages))).Methods("GET")
	catalog.Handle("/wages", catalogWrite(http.HandlerFunc(h.Catalog.AddWage))).Methods("POST")
	catalog.Handle("/wages/{id:[0-9]+}", catalogWrite(http.HandlerFunc(h.Catalog.UpdateWage))).Methods("PUT")
	catalog.Handle("/wages/{id:[0-9]+}", catalogWrite(http.HandlerFunc(h.Catalog.DeleteWage))).Methods("DELETE")

	// System parameters
	settings := api.PathPrefix("/settings").Subrouter()
	settings.Use(middleware.RequirePage(permissions.PageSettings))
	settings.HandleFunc("", h.Settings.ListSettings).Methods("GET")
	settings.HandleFunc("/max-cars", h.Settings.GetMaxCars).Methods("GET")
	settings.HandleFunc("/max-cars", h.Settings.SetMaxCars).Methods("PUT")
	settings.HandleFunc("/overpay", h.Settings.GetOverPay).Methods("GET")
	settings.HandleFunc("/overpay", h.Settings.SetOverPay).Methods("PUT")
	settings.HandleFunc("/{key}", h.Settings.GetSetting).Methods("GET")
	settings.HandleFunc("/{key}", h.Settings.UpdateSetting).Methods("PUT")

	// Supplies import
	imports := api.PathPrefix("/imports").Subrouter()
	imports.Use(middleware.RequirePage(permissions.PageSuppliesImport))
	imports.HandleFunc("", h.Imports.History).Methods("GET")
	imports.HandleFunc("", h.Imports.Create).Methods("POST")
	imports.HandleFunc("/supplies", h.Imports.Supplies).Methods("GET")

	// Monthly reports
	revenue := api.PathPrefix("/reports/revenue").Subrouter()
	revenue.Use(middleware.RequirePage(permissions.PageRevenueReport))
	revenue.HandleFunc("", h.Reports.ListRevenue).Methods("GET")
	revenue.HandleFunc("/{year:[0-9]+}/{month:[0-9]+}", h.Reports.GetRevenue).Methods("GET")
	revenue.HandleFunc("/{year:[0-9]+}/{month:[0-9]+}", h.Reports.DeleteRevenue).Methods("DELETE")
	revenue.HandleFunc("/{year:[0-9]+}/{month:[0-9]+}/export", h.Reports.ExportRevenue).Methods("GET")

	stock := api.PathPrefix("/reports/stock").Subrouter()
	stock.Use(middleware.RequirePage(permissions.PageStockReport))
	stock.HandleFunc("", h.Reports.ListStock).Methods("GET")
	stock.HandleFunc("/{year:[0-9]+}/{month:[0-9]+}", h.Reports.GetStock).Methods("GET")
	stock.HandleFunc("/{year:[0-9]+}/{month:[0-9]+}", h.Reports.DeleteStock).Methods("DELETE")
	stock.HandleFunc("/{year:[0-9]+}/{month:[0-9]+}/export", h.Reports.ExportStock).Methods("GET")

	// User management
	users := api.PathPrefix("/users").Subrouter()
	users.Use(middleware.RequirePage(permissions.PageUsers))
	users.HandleFunc("", h.Users.ListUsers).Methods("GET")
	users.HandleFunc("", h.Users.CreateUser).Methods("POST")
	users.HandleFunc("/login-logs", h.Users.LoginLogs).Methods("GET")
	users.HandleFunc("/{id:[0-9]+}", h.Users.GetUser).Methods("GET")
	users.HandleFunc("/{id:[0-9]+}", h.Users.UpdateUser).Methods("PUT")
	users.HandleFunc("/{id:[0-9]+}", h.Users.DeleteUser).Methods("DELETE")

	return r
}
