package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportKind names a monthly report family
type ReportKind string

const (
	ReportRevenue ReportKind = "revenue"
	ReportStock   ReportKind = "stock"
)

type RevenueReport struct {
	ReportID     int                   `json:"report_id"`
	Month        int                   `json:"month"`
	Year         int                   `json:"year"`
	TotalRevenue decimal.Decimal       `json:"total_revenue"`
	CreatedAt    time.Time             `json:"created_at"`
	Details      []RevenueReportDetail `json:"details"`
}

type RevenueReportDetail struct {
	BrandID     int             `json:"brand_id"`
	BrandName   string          `json:"brand_name"`
	RepairCount int             `json:"repair_count"`
	TotalMoney  decimal.Decimal `json:"total_money"`
	Rate        decimal.Decimal `json:"rate"`
}

type StockReport struct {
	ReportID  int                 `json:"report_id"`
	Month     int                 `json:"month"`
	Year      int                 `json:"year"`
	CreatedAt time.Time           `json:"created_at"`
	Details   []StockReportDetail `json:"details"`
}

type StockReportDetail struct {
	SupplyID   int    `json:"supply_id"`
	SupplyName string `json:"supply_name"`
	BeginQty   int    `json:"begin_qty"`
	ImportQty  int    `json:"import_qty"`
	IssueQty   int    `json:"issue_qty"`
	EndQty     int    `json:"end_qty"`
}
