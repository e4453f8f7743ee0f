package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoplens/delivery-facts/internal/logging"
	"github.com/shoplens/delivery-facts/internal/transform"
)

// factColumns is the destination column list, in fact table field order.
var factColumns = []string{
	"order_id", "customer_id", "order_status",
	"order_purchase_timestamp", "order_estimated_delivery_date",
	"order_delivered_customer_date",
	"customer_zip_code_prefix", "customer_city", "customer_state",
	"mean_lat", "mean_lng",
	"payment_type_mode", "payment_value_sum",
	"freight_value_sum", "product_category_mode",
	"delay_days", "on_time",
}

// CreateFactTable drops and recreates the destination table. Export always
// replaces: the fact table is rebuilt wholesale, never appended to.
func CreateFactTable(ctx context.Context, pool *pgxpool.Pool, table string) error {
	ident := pgx.Identifier{table}.Sanitize()
	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", ident)); err != nil {
		return fmt.Errorf("dropping %s: %w", table, err)
	}

	ddl := fmt.Sprintf(`
        CREATE TABLE %s (
            order_id                      TEXT PRIMARY KEY,
            customer_id                   TEXT NOT NULL,
            order_status                  TEXT NOT NULL,
            order_purchase_timestamp      TIMESTAMP,
            order_estimated_delivery_date TIMESTAMP,
            order_delivered_customer_date TIMESTAMP,
            customer_zip_code_prefix      TEXT,
            customer_city                 TEXT,
            customer_state                TEXT,
            mean_lat                      DOUBLE PRECISION,
            mean_lng                      DOUBLE PRECISION,
            payment_type_mode             TEXT,
            payment_value_sum             DOUBLE PRECISION,
            freight_value_sum             DOUBLE PRECISION,
            product_category_mode         TEXT,
            delay_days                    BIGINT,
            on_time                       BOOLEAN
        )
    `, ident)
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating %s: %w", table, err)
	}
	return nil
}

// ExportFactOrders bulk-loads the fact table into the destination table
// via COPY. Nil pointer fields become SQL NULLs.
func ExportFactOrders(
	ctx context.Context,
	pool *pgxpool.Pool,
	table string,
	facts []transform.FactOrder,
) (int64, error) {
	rows := pgx.CopyFromSlice(len(facts), func(i int) ([]any, error) {
		f := facts[i]
		return []any{
			f.OrderID, f.CustomerID, f.Status,
			f.PurchasedAt, f.EstimatedAt, f.DeliveredAt,
			f.ZipPrefix, f.City, f.State,
			f.MeanLat, f.MeanLng,
			f.PaymentTypeMode, f.PaymentValueSum,
			f.FreightValueSum, f.CategoryMode,
			f.DelayDays, f.OnTime,
		}, nil
	})

	copied, err := pool.CopyFrom(ctx, pgx.Identifier{table}, factColumns, rows)
	if err != nil {
		return 0, fmt.Errorf("copying fact rows into %s: %w", table, err)
	}

	logging.Info().
		Str("table", table).
		Int64("rows", copied).
		Msg("Exported fact table")

	return copied, nil
}
