package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SuppliesImport struct {
	ID          int             `json:"id"`
	SupplyID    int             `json:"supply_id"`
	SupplyName  string          `json:"supply_name"`
	ImportDate  time.Time       `json:"import_date"`
	ImportQty   int             `json:"import_qty"`
	ImportPrice decimal.Decimal `json:"import_price"`
	TotalMoney  decimal.Decimal `json:"total_money"`
}

type ImportItem struct {
	SupplyID  int `json:"supply_id" validate:"gt=0"`
	ImportQty int `json:"import_qty" validate:"gt=0"`
}

type CreateImportRequest struct {
	ImportDate string       `json:"import_date" validate:"omitempty,datetime=2006-01-02"`
	Items      []ImportItem `json:"items" validate:"required,min=1,dive"`
}

type CreateImportResult struct {
	TotalItems  int             `json:"total_items"`
	TotalMoney  decimal.Decimal `json:"total_money"`
	ImportedIDs []int           `json:"imported_ids"`
}
