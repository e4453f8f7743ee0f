package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeRawDataset writes a minimal but complete raw dataset into dir.
// Individual files can be overridden by passing replacement content.
func writeRawDataset(t *testing.T, dir string, overrides map[string]string) {
	t.Helper()

	files := map[string]string{
		OrdersFile: strings.Join([]string{
			"order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date,order_estimated_delivery_date",
			"o1,c1,delivered,2017-05-01 10:30:00,2017-05-10 18:00:00,2017-05-12 00:00:00",
			"o2,c2,shipped,2017-06-01 09:00:00,,2017-06-20 00:00:00",
			"o3,c3,delivered,bogus,also-bogus,2017-07-01 00:00:00",
		}, "\n"),
		CustomersFile: strings.Join([]string{
			"customer_id,customer_zip_code_prefix,customer_city,customer_state",
			"c1,01037,sao paulo,SP",
			"c2,20040,rio de janeiro,RJ",
		}, "\n"),
		OrderItemsFile: strings.Join([]string{
			"order_id,order_item_id,product_id,price,freight_value",
			"o1,1,p1,58.90,13.29",
			"o1,2,p1,58.90,not-a-number",
		}, "\n"),
		PaymentsFile: strings.Join([]string{
			"order_id,payment_type,payment_value",
			"o1,credit_card,99.33",
			"o1,voucher,",
		}, "\n"),
		ProductsFile: strings.Join([]string{
			"product_id,product_category_name",
			"p1,cama_mesa_banho",
		}, "\n"),
		TranslationFile: strings.Join([]string{
			"product_category_name,product_category_name_english",
			"cama_mesa_banho,bed_bath_table",
		}, "\n"),
		GeolocationFile: strings.Join([]string{
			"geolocation_zip_code_prefix,geolocation_lat,geolocation_lng",
			"01037,-23.54,-46.63",
			"01037,-23.56,-46.64",
		}, "\n"),
	}
	for name, content := range overrides {
		files[name] = content
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func TestLoadRequired(t *testing.T) {
	dir := t.TempDir()
	writeRawDataset(t, dir, nil)

	data, err := LoadRequired(dir)
	if err != nil {
		t.Fatalf("LoadRequired failed: %v", err)
	}

	if len(data.Orders) != 3 {
		t.Fatalf("Expected 3 orders, got %d", len(data.Orders))
	}
	if len(data.Customers) != 2 {
		t.Errorf("Expected 2 customers, got %d", len(data.Customers))
	}
	if len(data.Items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(data.Items))
	}
	if len(data.Geolocation) != 2 {
		t.Errorf("Expected 2 geolocation samples, got %d", len(data.Geolocation))
	}

	o1 := data.Orders[0]
	if o1.OrderID != "o1" || o1.Status != "delivered" {
		t.Errorf("Unexpected first order: %+v", o1)
	}
	if o1.PurchasedAt == nil {
		t.Fatal("Expected o1 purchase timestamp to parse")
	}
	want := time.Date(2017, 5, 1, 10, 30, 0, 0, time.UTC)
	if !o1.PurchasedAt.Equal(want) {
		t.Errorf("Expected purchase %v, got %v", want, o1.PurchasedAt)
	}
}

func TestLoadRequiredCoercesToNull(t *testing.T) {
	dir := t.TempDir()
	writeRawDataset(t, dir, nil)

	data, err := LoadRequired(dir)
	if err != nil {
		t.Fatalf("LoadRequired failed: %v", err)
	}

	// o2 has an empty delivered date; o3 has unparseable timestamps.
	if data.Orders[1].DeliveredAt != nil {
		t.Error("Expected nil DeliveredAt for empty value")
	}
	if data.Orders[2].PurchasedAt != nil {
		t.Error("Expected nil PurchasedAt for unparseable value")
	}
	if data.Orders[2].DeliveredAt != nil {
		t.Error("Expected nil DeliveredAt for unparseable value")
	}

	// Second item row has an unparseable freight value.
	if data.Items[1].FreightValue != nil {
		t.Error("Expected nil FreightValue for unparseable value")
	}
	if data.Items[0].FreightValue == nil || *data.Items[0].FreightValue != 13.29 {
		t.Errorf("Expected FreightValue 13.29, got %v", data.Items[0].FreightValue)
	}

	// Second payment row has an empty value.
	if data.Payments[1].Value != nil {
		t.Error("Expected nil payment Value for empty value")
	}
}

func TestLoadRequiredDateOnlyLayout(t *testing.T) {
	dir := t.TempDir()
	writeRawDataset(t, dir, map[string]string{
		OrdersFile: strings.Join([]string{
			"order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date,order_estimated_delivery_date",
			"o1,c1,delivered,2017-05-01,2017-05-10,2017-05-12",
		}, "\n"),
	})

	data, err := LoadRequired(dir)
	if err != nil {
		t.Fatalf("LoadRequired failed: %v", err)
	}
	if data.Orders[0].EstimatedAt == nil {
		t.Fatal("Expected date-only estimated date to parse")
	}
	want := time.Date(2017, 5, 12, 0, 0, 0, 0, time.UTC)
	if !data.Orders[0].EstimatedAt.Equal(want) {
		t.Errorf("Expected estimated %v, got %v", want, data.Orders[0].EstimatedAt)
	}
}

func TestLoadRequiredMissingFiles(t *testing.T) {
	dir := t.TempDir()
	writeRawDataset(t, dir, nil)
	if err := os.Remove(filepath.Join(dir, OrdersFile)); err != nil {
		t.Fatalf("Failed to remove orders file: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, GeolocationFile)); err != nil {
		t.Fatalf("Failed to remove geolocation file: %v", err)
	}

	_, err := LoadRequired(dir)
	if err == nil {
		t.Fatal("Expected error for missing files, got nil")
	}
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Expected ErrSourceUnavailable, got: %v", err)
	}
	// Every missing file should be named in one error.
	if !strings.Contains(err.Error(), OrdersFile) {
		t.Errorf("Expected error to name %s: %v", OrdersFile, err)
	}
	if !strings.Contains(err.Error(), GeolocationFile) {
		t.Errorf("Expected error to name %s: %v", GeolocationFile, err)
	}
}

func TestLoadRequiredEmptyDir(t *testing.T) {
	_, err := LoadRequired(t.TempDir())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Expected ErrSourceUnavailable, got: %v", err)
	}
}
