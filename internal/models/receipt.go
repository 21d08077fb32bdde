package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Receipt struct {
	ID            int             `json:"id"`
	ReceptionID   int             `json:"reception_id"`
	ReceiptDate   time.Time       `json:"receipt_date"`
	MoneyAmount   decimal.Decimal `json:"money_amount"`
	LicensePlate  string          `json:"license_plate,omitempty"`
	OwnerName     string          `json:"owner_name,omitempty"`
	PhoneNumber   string          `json:"phone_number,omitempty"`
	Email         string          `json:"email,omitempty"`
	ReceptionDate *time.Time      `json:"reception_date,omitempty"`
}

type CreateReceiptRequest struct {
	ReceptionID int             `json:"reception_id" validate:"gt=0"`
	ReceiptDate string          `json:"receipt_date" validate:"omitempty,datetime=2006-01-02"`
	MoneyAmount decimal.Decimal `json:"money_amount"`
}

type CreateReceiptResult struct {
	ReceiptID     int             `json:"receipt_id"`
	RemainingDebt decimal.Decimal `json:"remaining_debt"`
	LicensePlate  string          `json:"license_plate"`
	Settled       bool            `json:"settled"`
}

// VehicleDebt aggregates the outstanding debt of one vehicle across its receptions
type VehicleDebt struct {
	LicensePlate string          `json:"license_plate"`
	OwnerName    string          `json:"owner_name"`
	PhoneNumber  string          `json:"phone_number"`
	Email        string          `json:"email"`
	TotalDebt    decimal.Decimal `json:"total_debt"`
}

// PaymentCheck is the outcome of the overpayment policy check
type PaymentCheck struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message"`
}
