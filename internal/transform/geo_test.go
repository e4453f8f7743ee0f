package transform

import (
	"math"
	"testing"

	"github.com/shoplens/delivery-facts/internal/source"
)

func f64(v float64) *float64 { return &v }

func TestBuildGeoLookup(t *testing.T) {
	samples := []source.GeoSample{
		{ZipPrefix: "01037", Lat: f64(-23.54), Lng: f64(-46.63)},
		{ZipPrefix: "01037", Lat: f64(-23.56), Lng: f64(-46.65)},
		{ZipPrefix: "20040", Lat: f64(-22.90), Lng: f64(-43.18)},
	}

	lookup := BuildGeoLookup(samples)

	if len(lookup) != 2 {
		t.Fatalf("Expected 2 prefixes, got %d", len(lookup))
	}

	p := lookup["01037"]
	if p.Lat == nil || math.Abs(*p.Lat-(-23.55)) > 1e-9 {
		t.Errorf("Expected mean lat -23.55, got %v", p.Lat)
	}
	if p.Lng == nil || math.Abs(*p.Lng-(-46.64)) > 1e-9 {
		t.Errorf("Expected mean lng -46.64, got %v", p.Lng)
	}

	if _, ok := lookup["99999"]; ok {
		t.Error("Expected no entry for a prefix without samples")
	}
}

func TestBuildGeoLookupNullCoordinates(t *testing.T) {
	samples := []source.GeoSample{
		// Lat never parses for this prefix, lng does once.
		{ZipPrefix: "30130", Lat: nil, Lng: f64(-43.94)},
		{ZipPrefix: "30130", Lat: nil, Lng: nil},
	}

	lookup := BuildGeoLookup(samples)

	p, ok := lookup["30130"]
	if !ok {
		t.Fatal("Expected an entry for prefix with samples")
	}
	if p.Lat != nil {
		t.Errorf("Expected nil mean lat, got %v", *p.Lat)
	}
	if p.Lng == nil || *p.Lng != -43.94 {
		t.Errorf("Expected mean lng -43.94, got %v", p.Lng)
	}
}

func TestBuildGeoLookupEmpty(t *testing.T) {
	if got := BuildGeoLookup(nil); len(got) != 0 {
		t.Errorf("Expected empty lookup, got %d entries", len(got))
	}
}
