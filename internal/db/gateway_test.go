package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// testGateway opens a gateway on a throwaway schema of GARAGE_TEST_DATABASE_URL
func testGateway(t *testing.T) *Gateway {
	t.Helper()

	url := os.Getenv("GARAGE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("GARAGE_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatal(err)
	}
	schema := fmt.Sprintf("gateway_test_%d", time.Now().UnixNano())
	poolCfg.ConnConfig.RuntimeParams["search_path"] = schema

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		t.Fatal(err)
	}
	gw := NewGateway(pool)
	t.Cleanup(func() {
		gw.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		gw.Close()
	})

	if _, err := gw.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if _, err := gw.Exec(ctx, "CREATE TABLE car_brands (id SERIAL PRIMARY KEY, brand_name TEXT NOT NULL UNIQUE)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return gw
}

func brandNames(t *testing.T, gw *Gateway) []string {
	t.Helper()
	rows, err := gw.Query(context.Background(), "SELECT brand_name FROM car_brands ORDER BY id")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	return names
}

func TestGatewayInsertQueryExec(t *testing.T) {
	gw := testGateway(t)
	ctx := context.Background()

	first, err := gw.Insert(ctx, "INSERT INTO car_brands (brand_name) VALUES ($1) RETURNING id", "Toyota")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	second, err := gw.Insert(ctx, "INSERT INTO car_brands (brand_name) VALUES ($1) RETURNING id", "Honda")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if second <= first {
		t.Fatalf("ids = %d, %d; want increasing", first, second)
	}

	if got := brandNames(t, gw); len(got) != 2 || got[0] != "Toyota" || got[1] != "Honda" {
		t.Fatalf("brands = %v", got)
	}

	n, err := gw.Exec(ctx, "UPDATE car_brands SET brand_name = brand_name || ' VN'")
	if err != nil || n != 2 {
		t.Fatalf("Exec() = %d, %v; want 2 rows", n, err)
	}
	n, err = gw.Exec(ctx, "DELETE FROM car_brands WHERE id = $1", first+1000)
	if err != nil || n != 0 {
		t.Fatalf("Exec() on missing row = %d, %v", n, err)
	}
}

func TestGatewayWithTx(t *testing.T) {
	gw := testGateway(t)
	ctx := context.Background()

	err := gw.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, "INSERT INTO car_brands (brand_name) VALUES ('Kia')")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx commit: %v", err)
	}

	boom := errors.New("boom")
	err = gw.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "INSERT INTO car_brands (brand_name) VALUES ('Ford')"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx error = %v, want boom", err)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic was swallowed")
			}
		}()
		gw.WithTx(ctx, func(tx pgx.Tx) error {
			tx.Exec(ctx, "INSERT INTO car_brands (brand_name) VALUES ('Mazda')")
			panic("fail")
		})
	}()

	if got := brandNames(t, gw); len(got) != 1 || got[0] != "Kia" {
		t.Fatalf("brands = %v, want only the committed row", got)
	}
	if err := gw.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
