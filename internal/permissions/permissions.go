// Package permissions maps roles to the pages they may open.
package permissions

import "garage-backend/internal/models"

// Page identifiers
const (
	PageReception      = "tiep_nhan_xe"
	PageRepair         = "phieu_sua_chua"
	PageVehicleLookup  = "tra_cuu_xe"
	PageReceipt        = "phieu_thu"
	PageRevenueReport  = "bao_cao_doanh_so"
	PageStockReport    = "bao_cao_ton"
	PageCatalog        = "quan_ly_danh_muc"
	PageSettings       = "thay_doi_quy_dinh"
	PageUsers          = "quan_ly_user"
	PageSuppliesImport = "nhap_vat_tu"
)

// Page describes one navigation entry
type Page struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// AllPages lists every page in navigation order
var AllPages = []Page{
	{PageReception, "Tiếp nhận xe"},
	{PageRepair, "Phiếu sửa chữa"},
	{PageVehicleLookup, "Tra cứu xe"},
	{PageReceipt, "Phiếu thu tiền"},
	{PageRevenueReport, "Báo cáo doanh số"},
	{PageStockReport, "Báo cáo tồn"},
	{PageCatalog, "Quản lý danh mục"},
	{PageSettings, "Thay đổi quy định"},
	{PageUsers, "Quản lý người dùng"},
	{PageSuppliesImport, "Nhập vật tư"},
}

var rolePages = map[string]map[string]bool{
	models.RoleAdmin: pageSet(
		PageReception, PageRepair, PageVehicleLookup, PageReceipt, PageRevenueReport,
		PageStockReport, PageCatalog, PageSettings, PageUsers, PageSuppliesImport,
	),
	models.RoleStaff: pageSet(PageReception, PageRepair, PageVehicleLookup, PageReceipt),
}

func pageSet(ids ...string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// CanAccess reports whether role may open page. Unknown roles get nothing.
func CanAccess(role, page string) bool {
	return rolePages[role][page]
}

// AccessiblePages returns the pages role may open, in navigation order
func AccessiblePages(role string) []Page {
	pages := []Page{}
	for _, p := range AllPages {
		if CanAccess(role, p.ID) {
			pages = append(pages, p)
		}
	}
	return pages
}

// PageIDs returns the ids of AccessiblePages(role)
func PageIDs(role string) []string {
	pages := AccessiblePages(role)
	ids := make([]string, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
	}
	return ids
}
