package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoWagePlaceholder is the label the wage picker shows when no labor is selected
const NoWagePlaceholder = "-- Chọn tiền công --"

type Repair struct {
	ID           int             `json:"id"`
	ReceptionID  int             `json:"reception_id"`
	RepairDate   time.Time       `json:"repair_date"`
	RepairMoney  decimal.Decimal `json:"repair_money"`
	LicensePlate string          `json:"license_plate,omitempty"`
	OwnerName    string          `json:"owner_name,omitempty"`
}

type RepairDetail struct {
	ID           int             `json:"id"`
	RepairID     int             `json:"repair_id"`
	Content      string          `json:"content"`
	SupplyID     int             `json:"supply_id"`
	SupplyName   string          `json:"supply_name"`
	SupplyAmount int             `json:"supply_amount"`
	SupplyPrice  decimal.Decimal `json:"supply_price"`
	WageID       *int            `json:"wage_id,omitempty"`
	WageName     string          `json:"wage_name,omitempty"`
	WageValue    decimal.Decimal `json:"wage_value"`
}

type RepairLineInput struct {
	Content    string `json:"content" validate:"max=255"`
	SupplyName string `json:"supply_name" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
	WageName   string `json:"wage_name"`
}

type CreateRepairRequest struct {
	ReceptionID int               `json:"reception_id" validate:"gt=0"`
	RepairDate  string            `json:"repair_date" validate:"omitempty,datetime=2006-01-02"`
	TotalMoney  decimal.Decimal   `json:"total_money"`
	Details     []RepairLineInput `json:"details" validate:"required,min=1,dive"`
}

type CreateRepairResult struct {
	RepairID int `json:"repair_id"`
}
