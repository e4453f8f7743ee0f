//-------------------------------------------------------------------------
//
// delivery-facts
//
// Copyright (c) 2025 - 2026, ShopLens Analytics
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package transform builds the denormalized fact_orders table: one row per
// order joining customers, geolocation centroids, and the per-order payment
// and item aggregates, with delivery delay derived for delivered orders.
package transform

import (
	"math"
	"sync"
	"time"

	"github.com/shoplens/delivery-facts/internal/logging"
	"github.com/shoplens/delivery-facts/internal/source"
)

// FactOrder is one row of the fact table. Pointer fields are null when the
// corresponding source value was missing or an optional join found no match.
type FactOrder struct {
	OrderID     string
	CustomerID  string
	Status      string
	PurchasedAt *time.Time
	EstimatedAt *time.Time
	DeliveredAt *time.Time

	ZipPrefix *string
	City      *string
	State     *string

	MeanLat *float64
	MeanLng *float64

	PaymentTypeMode *string
	PaymentValueSum *float64

	FreightValueSum *float64
	CategoryMode    *string

	// DelayDays and OnTime are defined only for delivered orders whose
	// delivered and estimated dates both parsed. The gate is the order
	// status, not date presence.
	DelayDays *int64
	OnTime    *bool
}

// BuildFactOrders assembles the fact table from the raw tables. The output
// preserves the orders table's row order and contains exactly one row per
// order row. The geo lookup and the two per-order aggregates are data
// independent and computed concurrently; the join chain itself is
// sequential.
func BuildFactOrders(data *source.RawData) []FactOrder {
	var (
		geoLookup map[string]GeoPoint
		payAgg    map[string]PaymentAggregate
		itemAgg   map[string]ItemAggregate
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		geoLookup = BuildGeoLookup(data.Geolocation)
	}()
	go func() {
		defer wg.Done()
		payAgg = AggregatePayments(data.Payments)
	}()
	go func() {
		defer wg.Done()
		itemAgg = AggregateItems(data.Items, data.Products, data.Translations)
	}()
	wg.Wait()

	customers := make(map[string]source.Customer, len(data.Customers))
	for _, c := range data.Customers {
		customers[c.CustomerID] = c
	}

	facts := make([]FactOrder, 0, len(data.Orders))
	for _, o := range data.Orders {
		f := FactOrder{
			OrderID:     o.OrderID,
			CustomerID:  o.CustomerID,
			Status:      o.Status,
			PurchasedAt: o.PurchasedAt,
			EstimatedAt: o.EstimatedAt,
			DeliveredAt: o.DeliveredAt,
		}

		if c, ok := customers[o.CustomerID]; ok {
			f.ZipPrefix = strPtr(c.ZipPrefix)
			f.City = strPtr(c.City)
			f.State = strPtr(c.State)
			if p, ok := geoLookup[c.ZipPrefix]; ok {
				f.MeanLat = p.Lat
				f.MeanLng = p.Lng
			}
		}

		if a, ok := payAgg[o.OrderID]; ok {
			f.PaymentTypeMode = strPtr(a.TypeMode)
			sum := a.ValueSum
			f.PaymentValueSum = &sum
		}

		if a, ok := itemAgg[o.OrderID]; ok {
			f.CategoryMode = strPtr(a.CategoryMode)
			sum := a.FreightSum
			f.FreightValueSum = &sum
		}

		if o.Status == source.StatusDelivered &&
			o.DeliveredAt != nil && o.EstimatedAt != nil {
			days := delayDays(*o.DeliveredAt, *o.EstimatedAt)
			onTime := days <= 0
			f.DelayDays = &days
			f.OnTime = &onTime
		}

		facts = append(facts, f)
	}

	logging.Debug().
		Int("orders", len(data.Orders)).
		Int("facts", len(facts)).
		Msg("Assembled fact table")

	return facts
}

// delayDays is the delivered-minus-estimated interval in whole days,
// floored toward negative infinity (-1d12h counts as -2 days). Negative
// means early.
func delayDays(delivered, estimated time.Time) int64 {
	d := delivered.Sub(estimated)
	return int64(math.Floor(d.Hours() / 24))
}

// strPtr returns nil for the empty string, modeling missing text values.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
