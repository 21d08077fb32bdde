package cache

import (
	"context"
	"testing"
	"time"
)

func TestReportKey(t *testing.T) {
	if got := ReportKey("revenue", 3, 2024); got != "reports:revenue:2024-03" {
		t.Fatalf("ReportKey() = %q", got)
	}
}

func TestDisabledCacheDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	c := Disabled()

	if c.Enabled() {
		t.Fatal("Disabled() cache reports enabled")
	}

	c.SetCached(ctx, BrandsKey, []byte(`["Toyota"]`), time.Minute)
	if _, ok := c.GetCached(ctx, BrandsKey); ok {
		t.Fatal("disabled cache returned a hit")
	}

	var dest []string
	c.SetJSON(ctx, SuppliesKey, []string{"Lốp"}, time.Minute)
	if c.GetJSON(ctx, SuppliesKey, &dest) {
		t.Fatal("disabled cache decoded a value")
	}

	c.InvalidateCatalogCaches(ctx)
	c.InvalidatePattern(ctx, "reports:*")
	if c.IsHealthy(ctx) {
		t.Fatal("disabled cache reports healthy")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	if c.Enabled() {
		t.Fatal("nil cache reports enabled")
	}
	if _, ok := c.GetCached(context.Background(), WagesKey); ok {
		t.Fatal("nil cache returned a hit")
	}
}

func TestNewWithoutAddressIsDisabled(t *testing.T) {
	c, err := New("", "", 0)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if c.Enabled() {
		t.Fatal("cache without address should be disabled")
	}
}
