package models

import "github.com/shopspring/decimal"

type CarBrand struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Supply struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	InventoryNumber int             `json:"inventory_number"`
}

type Wage struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type BrandRequest struct {
	Name string `json:"name" validate:"required"`
}

type SupplyRequest struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

type WageRequest struct {
	Name  string          `json:"name" validate:"required"`
	Value decimal.Decimal `json:"value"`
}

// InventoryCheck is the outcome of a stock sufficiency check
type InventoryCheck struct {
	Available        bool   `json:"available"`
	Message          string `json:"message"`
	CurrentInventory int    `json:"current_inventory"`
}
