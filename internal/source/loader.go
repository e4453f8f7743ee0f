package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shoplens/delivery-facts/internal/logging"
)

// ErrSourceUnavailable is returned when one or more required raw CSV files
// are missing. This is the only fault the loader raises; malformed values
// inside a present file coerce to null instead.
var ErrSourceUnavailable = errors.New("source data unavailable")

// Timestamp layouts accepted by the raw tables.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadRequired loads all seven raw tables from rawDir. Every missing file
// is reported in a single error wrapping ErrSourceUnavailable.
func LoadRequired(rawDir string) (*RawData, error) {
	var missing []string
	for _, name := range RequiredFiles {
		if _, err := os.Stat(filepath.Join(rawDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s in %s",
			ErrSourceUnavailable, strings.Join(missing, ", "), rawDir)
	}

	data := &RawData{}
	loaders := []struct {
		file string
		load func(header []string, rows [][]string)
	}{
		{OrdersFile, data.loadOrders},
		{CustomersFile, data.loadCustomers},
		{OrderItemsFile, data.loadItems},
		{PaymentsFile, data.loadPayments},
		{ProductsFile, data.loadProducts},
		{TranslationFile, data.loadTranslations},
		{GeolocationFile, data.loadGeolocation},
	}
	for _, l := range loaders {
		header, rows, err := readCSV(filepath.Join(rawDir, l.file))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, l.file, err)
		}
		l.load(header, rows)
	}

	logging.Debug().
		Int("orders", len(data.Orders)).
		Int("customers", len(data.Customers)).
		Int("items", len(data.Items)).
		Int("payments", len(data.Payments)).
		Int("geolocation", len(data.Geolocation)).
		Str("raw_dir", rawDir).
		Msg("Loaded raw tables")

	return data, nil
}

// readCSV returns the header row and data rows of a CSV file. Rows may be
// ragged; short rows read as empty fields downstream.
func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

func (d *RawData) loadOrders(header []string, rows [][]string) {
	idx := newIndex(header)
	d.Orders = make([]Order, 0, len(rows))
	for _, row := range rows {
		d.Orders = append(d.Orders, Order{
			OrderID:     idx.str(row, "order_id"),
			CustomerID:  idx.str(row, "customer_id"),
			Status:      idx.str(row, "order_status"),
			PurchasedAt: idx.time(row, "order_purchase_timestamp"),
			DeliveredAt: idx.time(row, "order_delivered_customer_date"),
			EstimatedAt: idx.time(row, "order_estimated_delivery_date"),
		})
	}
}

func (d *RawData) loadCustomers(header []string, rows [][]string) {
	idx := newIndex(header)
	d.Customers = make([]Customer, 0, len(rows))
	for _, row := range rows {
		d.Customers = append(d.Customers, Customer{
			CustomerID: idx.str(row, "customer_id"),
			ZipPrefix:  idx.str(row, "customer_zip_code_prefix"),
			City:       idx.str(row, "customer_city"),
			State:      idx.str(row, "customer_state"),
		})
	}
}

func (d *RawData) loadItems(header []string, rows [][]string) {
	idx := newIndex(header)
	d.Items = make([]OrderItem, 0, len(rows))
	for _, row := range rows {
		d.Items = append(d.Items, OrderItem{
			OrderID:      idx.str(row, "order_id"),
			ProductID:    idx.str(row, "product_id"),
			Price:        idx.float(row, "price"),
			FreightValue: idx.float(row, "freight_value"),
		})
	}
}

func (d *RawData) loadPayments(header []string, rows [][]string) {
	idx := newIndex(header)
	d.Payments = make([]Payment, 0, len(rows))
	for _, row := range rows {
		d.Payments = append(d.Payments, Payment{
			OrderID: idx.str(row, "order_id"),
			Type:    idx.str(row, "payment_type"),
			Value:   idx.float(row, "payment_value"),
		})
	}
}

func (d *RawData) loadProducts(header []string, rows [][]string) {
	idx := newIndex(header)
	d.Products = make([]Product, 0, len(rows))
	for _, row := range rows {
		d.Products = append(d.Products, Product{
			ProductID:    idx.str(row, "product_id"),
			CategoryName: idx.str(row, "product_category_name"),
		})
	}
}

func (d *RawData) loadTranslations(header []string, rows [][]string) {
	idx := newIndex(header)
	d.Translations = make([]CategoryTranslation, 0, len(rows))
	for _, row := range rows {
		d.Translations = append(d.Translations, CategoryTranslation{
			CategoryName: idx.str(row, "product_category_name"),
			English:      idx.str(row, "product_category_name_english"),
		})
	}
}

func (d *RawData) loadGeolocation(header []string, rows [][]string) {
	idx := newIndex(header)
	d.Geolocation = make([]GeoSample, 0, len(rows))
	for _, row := range rows {
		d.Geolocation = append(d.Geolocation, GeoSample{
			ZipPrefix: idx.str(row, "geolocation_zip_code_prefix"),
			Lat:       idx.float(row, "geolocation_lat"),
			Lng:       idx.float(row, "geolocation_lng"),
		})
	}
}

// index maps column names to positions within a table's rows.
type index map[string]int

func newIndex(header []string) index {
	idx := make(index, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

func (idx index) str(row []string, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (idx index) float(row []string, col string) *float64 {
	s := idx.str(row, col)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (idx index) time(row []string, col string) *time.Time {
	s := idx.str(row, col)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
