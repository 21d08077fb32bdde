package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"

	"garage-backend/internal/models"
	"garage-backend/internal/storage"
	"garage-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatXLSX ExportFormat = "xlsx"
)

// ContentType returns the MIME type of the rendered file
func (f ExportFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// ReportFile is a rendered report ready to download
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders monthly reports and archives the rendered files
type ExportService struct {
	Revenue  *RevenueReportService
	Stock    *StockReportService
	Archiver *storage.Archiver
}

func NewExportService(revenue *RevenueReportService, stock *StockReportService, archiver *storage.Archiver) *ExportService {
	return &ExportService{
		Revenue:  revenue,
		Stock:    stock,
		Archiver: archiver,
	}
}

func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", invalid("format", "Định dạng xuất phải là pdf hoặc xlsx")
}

// Export gets or creates the report, renders it and archives a copy.
// Archive failures are logged and do not fail the export.
func (s *ExportService) Export(ctx context.Context, kind models.ReportKind, month, year int, format ExportFormat) (*ReportFile, error) {
	var (
		data []byte
		err  error
	)

	switch kind {
	case models.ReportRevenue:
		report, gerr := s.Revenue.GetOrCreateMonthlyReport(ctx, month, year)
		if gerr != nil {
			return nil, gerr
		}
		if format == FormatXLSX {
			data, err = RenderRevenueXLSX(report)
		} else {
			data, err = RenderRevenuePDF(report)
		}
	case models.ReportStock:
		report, gerr := s.Stock.GetOrCreateMonthlyReport(ctx, month, year)
		if gerr != nil {
			return nil, gerr
		}
		if format == FormatXLSX {
			data, err = RenderStockXLSX(report)
		} else {
			data, err = RenderStockPDF(report)
		}
	default:
		return nil, invalid("kind", "Loại báo cáo không hợp lệ")
	}
	if err != nil {
		log.Printf("[Export] Failed to render %s report %02d/%d as %s: %v", kind, month, year, format, err)
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	file := &ReportFile{
		Filename:    fmt.Sprintf("bao_cao_%s_%04d_%02d.%s", kind, year, month, format),
		ContentType: format.ContentType(),
		Data:        data,
	}

	key := storage.ReportKey(string(kind), month, year, string(format))
	if err := s.Archiver.Upload(ctx, key, data, file.ContentType); err != nil {
		log.Printf("[Export] Archive upload failed: %v", err)
	}
	return file, nil
}

// ==================== PDF ====================

var diacriticFolder = strings.NewReplacer("đ", "d", "Đ", "D")

// foldVietnamese strips diacritics so text renders with the PDF core fonts
func foldVietnamese(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, diacriticFolder.Replace(s))
	if err != nil {
		return s
	}
	return out
}

func newReportPDF(title string, month, year int) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, foldVietnamese(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(190, 7, foldVietnamese(fmt.Sprintf("Tháng %02d/%d", month, year)), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout+" 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	return pdf
}

func pdfHeaderRow(pdf *gofpdf.Fpdf, widths []float64, headers []string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, foldVietnamese(h), "1", ln, "C", true, 0, "")
	}
	pdf.SetFont("Arial", "", 10)
}

func pdfBytes(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func RenderRevenuePDF(r *models.RevenueReport) ([]byte, error) {
	pdf := newReportPDF("Báo cáo doanh số", r.Month, r.Year)

	widths := []float64{15, 65, 30, 50, 30}
	pdfHeaderRow(pdf, widths, []string{"STT", "Hiệu xe", "Số lượt sửa", "Thành tiền", "Tỉ lệ (%)"})
	for i, d := range r.Details {
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, foldVietnamese(d.BrandName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", d.RepairCount), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, FormatMoney(d.TotalMoney), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, d.Rate.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 9, foldVietnamese("Tổng doanh thu: "+FormatMoney(r.TotalRevenue)), "1", 1, "R", true, 0, "")

	return pdfBytes(pdf)
}

func RenderStockPDF(r *models.StockReport) ([]byte, error) {
	pdf := newReportPDF("Báo cáo tồn vật tư", r.Month, r.Year)

	widths := []float64{15, 63, 28, 28, 28, 28}
	pdfHeaderRow(pdf, widths, []string{"STT", "Vật tư", "Tồn đầu", "Nhập", "Xuất", "Tồn cuối"})
	for i, d := range r.Details {
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, foldVietnamese(d.SupplyName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", d.BeginQty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%d", d.ImportQty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%d", d.IssueQty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, fmt.Sprintf("%d", d.EndQty), "1", 1, "R", false, 0, "")
	}

	return pdfBytes(pdf)
}

// ==================== XLSX ====================

func writeSheet(sheet string, headers []string, rows [][]interface{}, footer []interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if f.GetSheetName(0) != sheet {
		f.DeleteSheet("Sheet1")
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
	})
	if err == nil {
		f.SetRowStyle(sheet, 1, 1, headerStyle)
	}

	for r, values := range rows {
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	if footer != nil {
		for c, v := range footer {
			cell, _ := excelize.CoordinatesToCellName(c+1, len(rows)+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	last, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheet, "A", last, 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func RenderRevenueXLSX(r *models.RevenueReport) ([]byte, error) {
	rows := make([][]interface{}, 0, len(r.Details))
	for i, d := range r.Details {
		rows = append(rows, []interface{}{
			i + 1,
			d.BrandName,
			d.RepairCount,
			d.TotalMoney.InexactFloat64(),
			d.Rate.InexactFloat64(),
		})
	}
	footer := []interface{}{"", "Tổng doanh thu", "", r.TotalRevenue.InexactFloat64(), ""}
	return writeSheet(fmt.Sprintf("DoanhSo_%02d_%d", r.Month, r.Year),
		[]string{"STT", "Hiệu xe", "Số lượt sửa", "Thành tiền", "Tỉ lệ (%)"}, rows, footer)
}

func RenderStockXLSX(r *models.StockReport) ([]byte, error) {
	rows := make([][]interface{}, 0, len(r.Details))
	for i, d := range r.Details {
		rows = append(rows, []interface{}{i + 1, d.SupplyName, d.BeginQty, d.ImportQty, d.IssueQty, d.EndQty})
	}
	return writeSheet(fmt.Sprintf("Ton_%02d_%d", r.Month, r.Year),
		[]string{"STT", "Vật tư", "Tồn đầu", "Nhập", "Xuất", "Tồn cuối"}, rows, nil)
}
