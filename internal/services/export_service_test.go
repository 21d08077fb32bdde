package services

import (
	"bytes"
	"context"
	"testing"

	"garage-backend/internal/models"

	"github.com/shopspring/decimal"
)

func sampleRevenue() *models.RevenueReport {
	return &models.RevenueReport{
		Month:        3,
		Year:         2024,
		TotalRevenue: decimal.NewFromInt(1500000),
		Details: []models.RevenueReportDetail{
			{BrandName: "Toyota", RepairCount: 2, TotalMoney: decimal.NewFromInt(1000000), Rate: decimal.RequireFromString("66.67")},
			{BrandName: "Huyndai Đà Nẵng", RepairCount: 1, TotalMoney: decimal.NewFromInt(500000), Rate: decimal.RequireFromString("33.33")},
		},
	}
}

func sampleStock() *models.StockReport {
	return &models.StockReport{
		Month: 3,
		Year:  2024,
		Details: []models.StockReportDetail{
			{SupplyName: "Nhớt động cơ", BeginQty: 10, ImportQty: 5, IssueQty: 3, EndQty: 12},
		},
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportFormat
		wantErr bool
	}{
		{"", FormatPDF, false},
		{"pdf", FormatPDF, false},
		{" XLSX ", FormatXLSX, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		got, err := ParseExportFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseExportFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFoldVietnamese(t *testing.T) {
	tests := map[string]string{
		"Báo cáo doanh số": "Bao cao doanh so",
		"Đà Nẵng":          "Da Nang",
		"Tồn cuối":         "Ton cuoi",
		"Toyota":           "Toyota",
	}

	for in, want := range tests {
		if got := foldVietnamese(in); got != want {
			t.Errorf("foldVietnamese(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderPDF(t *testing.T) {
	revenue, err := RenderRevenuePDF(sampleRevenue())
	if err != nil {
		t.Fatalf("RenderRevenuePDF() error: %v", err)
	}
	if !bytes.HasPrefix(revenue, []byte("%PDF")) {
		t.Fatal("revenue export is not a PDF")
	}

	stock, err := RenderStockPDF(sampleStock())
	if err != nil {
		t.Fatalf("RenderStockPDF() error: %v", err)
	}
	if !bytes.HasPrefix(stock, []byte("%PDF")) {
		t.Fatal("stock export is not a PDF")
	}
}

func TestRenderXLSX(t *testing.T) {
	revenue, err := RenderRevenueXLSX(sampleRevenue())
	if err != nil {
		t.Fatalf("RenderRevenueXLSX() error: %v", err)
	}
	// xlsx is a zip container
	if !bytes.HasPrefix(revenue, []byte("PK")) {
		t.Fatal("revenue export is not a zip container")
	}

	stock, err := RenderStockXLSX(&models.StockReport{Month: 1, Year: 2024})
	if err != nil {
		t.Fatalf("RenderStockXLSX() with no rows error: %v", err)
	}
	if len(stock) == 0 {
		t.Fatal("empty stock workbook")
	}
}

func TestExportRejectsUnknownKind(t *testing.T) {
	s := &ExportService{}
	if _, err := s.Export(context.Background(), models.ReportKind("payroll"), 1, 2024, FormatPDF); err == nil {
		t.Fatal("unknown report kind accepted")
	}
}

func TestExportFormatContentType(t *testing.T) {
	if FormatPDF.ContentType() != "application/pdf" {
		t.Errorf("pdf content type = %q", FormatPDF.ContentType())
	}
	if FormatXLSX.ContentType() != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("xlsx content type = %q", FormatXLSX.ContentType())
	}
}
