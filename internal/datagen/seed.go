package datagen

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shoplens/delivery-facts/internal/logging"
	"github.com/shoplens/delivery-facts/internal/source"
)

const timestampLayout = "2006-01-02 15:04:05"

// GenerateConfig controls synthetic dataset generation.
type GenerateConfig struct {
	// OutDir is the directory the seven CSV files are written to.
	OutDir string

	// Orders is the number of orders to generate.
	Orders int

	// Seed makes generation reproducible when non-zero.
	Seed uint64
}

// Generate writes a synthetic raw dataset (all seven CSV tables) to
// cfg.OutDir in the layout the source loader expects. Roughly 2% of
// delivered orders get an unparseable delivery date and a few categories
// have no English translation, so downstream null handling sees realistic
// input.
func Generate(cfg GenerateConfig) error {
	f := NewFaker()
	if cfg.Seed != 0 {
		f = NewFakerWithSeed(cfg.Seed)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	// Shared pools so join keys actually match across tables.
	zipPrefixes := make([]string, 60)
	zipStates := make([]string, len(zipPrefixes))
	for i := range zipPrefixes {
		zipPrefixes[i] = f.ZipPrefix()
		zipStates[i] = f.State()
	}

	productCount := max(20, cfg.Orders/10)
	productIDs := make([]string, productCount)
	productCategories := make([]string, productCount)
	for i := range productIDs {
		productIDs[i] = f.ID()
		// A sliver of products carry no category at all.
		if f.Chance(0.03) {
			productCategories[i] = ""
		} else {
			productCategories[i] = f.Category()
		}
	}

	if err := writeGeolocation(cfg.OutDir, f, zipPrefixes, zipStates); err != nil {
		return err
	}
	if err := writeProducts(cfg.OutDir, productIDs, productCategories); err != nil {
		return err
	}
	if err := writeTranslations(cfg.OutDir); err != nil {
		return err
	}

	ordersRows := [][]string{{
		"order_id", "customer_id", "order_status",
		"order_purchase_timestamp", "order_approved_at",
		"order_delivered_carrier_date", "order_delivered_customer_date",
		"order_estimated_delivery_date",
	}}
	customersRows := [][]string{{
		"customer_id", "customer_unique_id", "customer_zip_code_prefix",
		"customer_city", "customer_state",
	}}
	itemsRows := [][]string{{
		"order_id", "order_item_id", "product_id", "seller_id",
		"shipping_limit_date", "price", "freight_value",
	}}
	paymentsRows := [][]string{{
		"order_id", "payment_sequential", "payment_type",
		"payment_installments", "payment_value",
	}}

	windowEnd := time.Date(2018, 8, 31, 0, 0, 0, 0, time.UTC)
	windowStart := windowEnd.AddDate(-2, 0, 0)

	for i := 0; i < cfg.Orders; i++ {
		orderID := f.ID()
		customerID := f.ID()
		status := f.OrderStatus()
		zipIdx := f.Int(0, len(zipPrefixes)-1)

		purchased := f.DateBetween(windowStart, windowEnd)
		estimated := purchased.AddDate(0, 0, f.Int(10, 30))

		deliveredStr := ""
		if status == source.StatusDelivered {
			// Mostly on time, sometimes late, rarely unparseable.
			delivered := estimated.AddDate(0, 0, f.Int(-8, 4))
			deliveredStr = delivered.Format(timestampLayout)
			if f.Chance(0.02) {
				deliveredStr = "not-a-date"
			}
		}

		ordersRows = append(ordersRows, []string{
			orderID, customerID, status,
			purchased.Format(timestampLayout), "",
			"", deliveredStr,
			estimated.Format(timestampLayout),
		})
		customersRows = append(customersRows, []string{
			customerID, f.ID(), zipPrefixes[zipIdx],
			f.City(), zipStates[zipIdx],
		})

		for item := 1; item <= f.Int(1, 3); item++ {
			itemsRows = append(itemsRows, []string{
				orderID, strconv.Itoa(item),
				productIDs[f.Int(0, len(productIDs)-1)], f.ID(),
				purchased.AddDate(0, 0, 5).Format(timestampLayout),
				formatFloat(f.Price()), formatFloat(f.Freight()),
			})
		}
		for seq := 1; seq <= f.Int(1, 2); seq++ {
			paymentsRows = append(paymentsRows, []string{
				orderID, strconv.Itoa(seq), f.PaymentType(),
				strconv.Itoa(f.Int(1, 10)), formatFloat(f.Price()),
			})
		}
	}

	files := []struct {
		name string
		rows [][]string
	}{
		{source.OrdersFile, ordersRows},
		{source.CustomersFile, customersRows},
		{source.OrderItemsFile, itemsRows},
		{source.PaymentsFile, paymentsRows},
	}
	for _, fl := range files {
		if err := writeCSV(filepath.Join(cfg.OutDir, fl.name), fl.rows); err != nil {
			return err
		}
	}

	logging.Info().
		Str("out_dir", cfg.OutDir).
		Int("orders", cfg.Orders).
		Int("items", len(itemsRows)-1).
		Int("payments", len(paymentsRows)-1).
		Msg("Generated synthetic raw dataset")

	return nil
}

func writeGeolocation(outDir string, f *Faker, prefixes, states []string) error {
	rows := [][]string{{
		"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng",
		"geolocation_city", "geolocation_state",
	}}
	for i, prefix := range prefixes {
		for s := 0; s < f.Int(1, 5); s++ {
			lat, lng := f.LatLng(states[i])
			rows = append(rows, []string{
				prefix, formatFloat(lat), formatFloat(lng),
				f.City(), states[i],
			})
		}
	}
	return writeCSV(filepath.Join(outDir, source.GeolocationFile), rows)
}

func writeProducts(outDir string, ids, categories []string) error {
	rows := [][]string{{"product_id", "product_category_name"}}
	for i, id := range ids {
		rows = append(rows, []string{id, categories[i]})
	}
	return writeCSV(filepath.Join(outDir, source.ProductsFile), rows)
}

func writeTranslations(outDir string) error {
	rows := [][]string{{"product_category_name", "product_category_name_english"}}
	for _, name := range categories {
		if english, ok := CategoryTranslations[name]; ok {
			rows = append(rows, []string{name, english})
		}
	}
	return writeCSV(filepath.Join(outDir, source.TranslationFile), rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
