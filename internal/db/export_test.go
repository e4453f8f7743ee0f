package db

import (
	"context"
	"testing"
	"time"

	"github.com/shoplens/delivery-facts/internal/testutil"
	"github.com/shoplens/delivery-facts/internal/transform"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
func str(v string) *string   { return &v }
func boolp(v bool) *bool     { return &v }

func TestExportFactOrders(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)
	connStr, dbName := testutil.CreateTestDB(t, baseConnStr)
	defer testutil.DropTestDB(t, baseConnStr, dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := Connect(ctx, connStr)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer pool.Close()

	if err := CreateFactTable(ctx, pool, "fact_orders"); err != nil {
		t.Fatalf("CreateFactTable failed: %v", err)
	}

	purchased := time.Date(2017, 5, 1, 10, 30, 0, 0, time.UTC)
	facts := []transform.FactOrder{
		{
			OrderID: "o1", CustomerID: "c1", Status: "delivered",
			PurchasedAt: &purchased,
			State:       str("SP"), MeanLat: f64(-23.55), MeanLng: f64(-46.64),
			PaymentTypeMode: str("credit_card"), PaymentValueSum: f64(80),
			FreightValueSum: f64(13.29), CategoryMode: str("bed_bath_table"),
			DelayDays: i64(-2), OnTime: boolp(true),
		},
		{
			// Null optional fields become SQL NULLs.
			OrderID: "o2", CustomerID: "c2", Status: "canceled",
		},
	}

	copied, err := ExportFactOrders(ctx, pool, "fact_orders", facts)
	if err != nil {
		t.Fatalf("ExportFactOrders failed: %v", err)
	}
	if copied != 2 {
		t.Errorf("Expected 2 copied rows, got %d", copied)
	}

	var total int
	err = pool.QueryRow(ctx, "SELECT count(*) FROM fact_orders").Scan(&total)
	if err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if total != 2 {
		t.Errorf("Expected 2 rows in table, got %d", total)
	}

	var delay *int64
	var onTime *bool
	err = pool.QueryRow(ctx,
		"SELECT delay_days, on_time FROM fact_orders WHERE order_id = 'o2'").
		Scan(&delay, &onTime)
	if err != nil {
		t.Fatalf("Null row query failed: %v", err)
	}
	if delay != nil || onTime != nil {
		t.Errorf("Expected NULL delay/on_time for o2, got %v / %v", delay, onTime)
	}
}

func TestCreateFactTableReplaces(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)
	connStr, dbName := testutil.CreateTestDB(t, baseConnStr)
	defer testutil.DropTestDB(t, baseConnStr, dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := Connect(ctx, connStr)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer pool.Close()

	if err := CreateFactTable(ctx, pool, "fact_orders"); err != nil {
		t.Fatalf("First CreateFactTable failed: %v", err)
	}
	if _, err := ExportFactOrders(ctx, pool, "fact_orders", []transform.FactOrder{
		{OrderID: "o1", CustomerID: "c1", Status: "shipped"},
	}); err != nil {
		t.Fatalf("ExportFactOrders failed: %v", err)
	}

	// Re-creating drops prior contents.
	if err := CreateFactTable(ctx, pool, "fact_orders"); err != nil {
		t.Fatalf("Second CreateFactTable failed: %v", err)
	}
	var total int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM fact_orders").Scan(&total); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if total != 0 {
		t.Errorf("Expected empty table after recreate, got %d rows", total)
	}
}
