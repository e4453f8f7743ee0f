package datagen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shoplens/delivery-facts/internal/source"
)

func TestGenerateWritesAllTables(t *testing.T) {
	dir := t.TempDir()
	err := Generate(GenerateConfig{OutDir: dir, Orders: 50, Seed: 42})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, name := range source.RequiredFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

func TestGenerateLoadsThroughSourceLoader(t *testing.T) {
	dir := t.TempDir()
	if err := Generate(GenerateConfig{OutDir: dir, Orders: 40, Seed: 1}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	data, err := source.LoadRequired(dir)
	if err != nil {
		t.Fatalf("LoadRequired failed: %v", err)
	}

	if len(data.Orders) != 40 {
		t.Errorf("Expected 40 orders, got %d", len(data.Orders))
	}
	if len(data.Customers) != 40 {
		t.Errorf("Expected 40 customers, got %d", len(data.Customers))
	}
	if len(data.Items) < 40 {
		t.Errorf("Expected at least one item per order, got %d", len(data.Items))
	}
	if len(data.Payments) < 40 {
		t.Errorf("Expected at least one payment per order, got %d", len(data.Payments))
	}
	if len(data.Geolocation) == 0 {
		t.Error("Expected geolocation samples")
	}

	// Join keys line up: every order's customer exists.
	customers := make(map[string]bool)
	for _, c := range data.Customers {
		customers[c.CustomerID] = true
	}
	for _, o := range data.Orders {
		if !customers[o.CustomerID] {
			t.Errorf("Order %s references unknown customer %s", o.OrderID, o.CustomerID)
		}
	}

	// Non-delivered orders never carry a delivery date.
	for _, o := range data.Orders {
		if o.Status != source.StatusDelivered && o.DeliveredAt != nil {
			t.Errorf("Order %s has status %s but a delivery date", o.OrderID, o.Status)
		}
	}
}

func TestGenerateReproducible(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	if err := Generate(GenerateConfig{OutDir: dirA, Orders: 20, Seed: 99}); err != nil {
		t.Fatalf("Generate A failed: %v", err)
	}
	if err := Generate(GenerateConfig{OutDir: dirB, Orders: 20, Seed: 99}); err != nil {
		t.Fatalf("Generate B failed: %v", err)
	}

	for _, name := range source.RequiredFiles {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		b, err := os.ReadFile(filepath.Join(dirB, name))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		if string(a) != string(b) {
			t.Errorf("File %s differs between identical seeds", name)
		}
	}
}

func TestGenerateTranslationsPartial(t *testing.T) {
	dir := t.TempDir()
	if err := Generate(GenerateConfig{OutDir: dir, Orders: 5, Seed: 3}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	data, err := source.LoadRequired(dir)
	if err != nil {
		t.Fatalf("LoadRequired failed: %v", err)
	}

	// The translation table deliberately leaves some categories out so
	// the per-row fallback path stays reachable.
	if len(data.Translations) >= len(categories) {
		t.Errorf("Expected fewer translations (%d) than categories (%d)",
			len(data.Translations), len(categories))
	}
}
