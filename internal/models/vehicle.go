package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type VehicleSummary struct {
	LicensePlate string          `json:"license_plate"`
	BrandName    string          `json:"brand_name"`
	OwnerName    string          `json:"owner_name"`
	PhoneNumber  string          `json:"phone_number"`
	TotalDebt    decimal.Decimal `json:"total_debt"`
}

type VehicleDetail struct {
	LicensePlate string          `json:"license_plate"`
	BrandName    string          `json:"brand_name"`
	OwnerName    string          `json:"owner_name"`
	PhoneNumber  string          `json:"phone_number"`
	Address      string          `json:"address"`
	Email        string          `json:"email"`
	TotalDebt    decimal.Decimal `json:"total_debt"`
}

type ReceptionHistoryEntry struct {
	ReceptionID      int             `json:"reception_id"`
	ReceptionDate    time.Time       `json:"reception_date"`
	Debt             decimal.Decimal `json:"debt"`
	RepairCount      int             `json:"repair_count"`
	TotalRepairMoney decimal.Decimal `json:"total_repair_money"`
}

type RepairHistoryEntry struct {
	RepairID      int             `json:"repair_id"`
	RepairDate    time.Time       `json:"repair_date"`
	RepairMoney   decimal.Decimal `json:"repair_money"`
	ReceptionID   int             `json:"reception_id"`
	ReceptionDate time.Time       `json:"reception_date"`
}

// VehicleSearch filters vehicles; empty fields are ignored
type VehicleSearch struct {
	LicensePlate string
	OwnerName    string
	BrandName    string
}
