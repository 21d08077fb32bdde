package permissions

import (
	"testing"

	"garage-backend/internal/models"
)

func TestAdminSeesEveryPage(t *testing.T) {
	pages := AccessiblePages(models.RoleAdmin)
	if len(pages) != len(AllPages) {
		t.Fatalf("admin pages = %d, want %d", len(pages), len(AllPages))
	}
	for _, p := range AllPages {
		if !CanAccess(models.RoleAdmin, p.ID) {
			t.Errorf("admin cannot access %s", p.ID)
		}
	}
}

func TestStaffPages(t *testing.T) {
	want := []string{PageReception, PageRepair, PageVehicleLookup, PageReceipt}
	got := PageIDs(models.RoleStaff)
	if len(got) != len(want) {
		t.Fatalf("staff pages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("staff page %d = %s, want %s", i, got[i], want[i])
		}
	}

	for _, denied := range []string{PageRevenueReport, PageStockReport, PageCatalog, PageSettings, PageUsers, PageSuppliesImport} {
		if CanAccess(models.RoleStaff, denied) {
			t.Errorf("staff can access %s", denied)
		}
	}
}

func TestUnknownRole(t *testing.T) {
	if CanAccess("GUEST", PageReception) {
		t.Error("unknown role granted access")
	}
	if len(AccessiblePages("")) != 0 {
		t.Error("empty role has pages")
	}
}
