package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Setting keys read by the intake and receipt workflows
const (
	SettingMaxCarReception = "MaxCarReception"
	SettingIsOverPay       = "IsOverPay"
)

// DefaultMaxCarReception applies when the setting is missing or unreadable
const DefaultMaxCarReception = 30

type SystemSetting struct {
	ID              int       `json:"id"`
	SettingKey      string    `json:"setting_key"`
	SettingValue    string    `json:"setting_value"`
	Description     string    `json:"description"`
	UpdatedAt       time.Time `json:"updated_at"`
	UpdatedByUserID int       `json:"updated_by_user_id"`
}

type UpdateSettingRequest struct {
	SettingValue string `json:"setting_value" validate:"required"`
}

type SetMaxCarsRequest struct {
	Value int `json:"value" validate:"gt=0"`
}

type SetOverPayRequest struct {
	Allowed bool `json:"allowed"`
}

// SaveAllSettingsRequest replaces the catalog with the submitted lists in one batch
type SaveAllSettingsRequest struct {
	MaxCars  int                 `json:"max_cars" validate:"gt=0"`
	Brands   []string            `json:"brands" validate:"dive,required"`
	Supplies []CatalogPriceInput `json:"supplies" validate:"dive"`
	Wages    []CatalogPriceInput `json:"wages" validate:"dive"`
}

// CatalogPriceInput is a named priced entry (supply price or wage value)
type CatalogPriceInput struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}
