package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Car struct {
	LicensePlate string `json:"license_plate"`
	BrandID      int    `json:"brand_id"`
	BrandName    string `json:"brand_name"`
	OwnerName    string `json:"owner_name"`
	PhoneNumber  string `json:"phone_number"`
	Address      string `json:"address"`
	Email        string `json:"email"`
}

type CarReception struct {
	ID            int             `json:"id"`
	LicensePlate  string          `json:"license_plate"`
	ReceptionDate time.Time       `json:"reception_date"`
	Debt          decimal.Decimal `json:"debt"`
	OwnerName     string          `json:"owner_name,omitempty"`
	BrandName     string          `json:"brand_name,omitempty"`
	PhoneNumber   string          `json:"phone_number,omitempty"`
}

type ReceiveCarRequest struct {
	LicensePlate  string `json:"license_plate" validate:"required,max=20"`
	BrandName     string `json:"brand_name" validate:"required"`
	OwnerName     string `json:"owner_name" validate:"required,max=100"`
	PhoneNumber   string `json:"phone_number" validate:"omitempty,max=20"`
	Address       string `json:"address" validate:"omitempty,max=255"`
	Email         string `json:"email" validate:"omitempty,email"`
	ReceptionDate string `json:"reception_date" validate:"omitempty,datetime=2006-01-02"`
}

type ReceiveCarResult struct {
	ReceptionID   int    `json:"reception_id"`
	LicensePlate  string `json:"license_plate"`
	OwnerName     string `json:"owner_name"`
	BrandName     string `json:"brand_name"`
	ReceptionDate string `json:"reception_date"`
}

// DailyCapacity reports how many receptions a date already holds against the limit
type DailyCapacity struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Limit int    `json:"limit"`
}
