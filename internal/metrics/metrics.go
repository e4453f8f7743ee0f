//-------------------------------------------------------------------------
//
// delivery-facts
//
// Copyright (c) 2025 - 2026, ShopLens Analytics
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package metrics is the consumption contract over the fact table:
// filtering by the five filter dimensions, scalar KPIs, and the per-state
// geographic rollup. Every function degrades to zero/empty output on empty
// or degenerate input instead of failing.
package metrics

import (
	"sort"
	"time"

	"github.com/shoplens/delivery-facts/internal/source"
	"github.com/shoplens/delivery-facts/internal/transform"
)

// Filters selects a subset of fact rows. A nil date bound means unbounded;
// an empty slice means no restriction on that dimension. Active filters
// combine with AND; membership within one filter is OR. A row with a null
// value on a filtered field fails that filter.
type Filters struct {
	StartDate     *time.Time
	EndDate       *time.Time
	States        []string
	Categories    []string
	PaymentTypes  []string
	DeliveredOnly bool
}

// Apply returns the fact rows satisfying every active filter. The result
// preserves input order; an empty input yields an empty result.
func Apply(rows []transform.FactOrder, f Filters) []transform.FactOrder {
	states := toSet(f.States)
	categories := toSet(f.Categories)
	payments := toSet(f.PaymentTypes)

	out := make([]transform.FactOrder, 0, len(rows))
	for _, r := range rows {
		if f.StartDate != nil &&
			(r.PurchasedAt == nil || r.PurchasedAt.Before(*f.StartDate)) {
			continue
		}
		if f.EndDate != nil &&
			(r.PurchasedAt == nil || r.PurchasedAt.After(*f.EndDate)) {
			continue
		}
		if !memberOf(states, r.State) {
			continue
		}
		if !memberOf(categories, r.CategoryMode) {
			continue
		}
		if !memberOf(payments, r.PaymentTypeMode) {
			continue
		}
		if f.DeliveredOnly && r.Status != source.StatusDelivered {
			continue
		}
		out = append(out, r)
	}
	return out
}

// KPIs holds the scalar summary of a fact table subset.
type KPIs struct {
	TotalOrders       int
	DeliveredOrders   int
	OnTimeCount       int
	OnTimeRate        float64
	AvgDelayDays      float64
	TotalPaymentValue float64
	TotalFreightValue float64
}

// ComputeKPIs summarizes a fact subset. On-time rate uses the delivered
// count as denominator with null on_time rows excluded from the numerator;
// average delay covers delivered rows with non-null delay. Rates and means
// are 0.0 on empty or all-null input, never a division fault.
func ComputeKPIs(rows []transform.FactOrder) KPIs {
	var k KPIs
	k.TotalOrders = len(rows)

	var delaySum float64
	var delayCount int
	for _, r := range rows {
		if r.PaymentValueSum != nil {
			k.TotalPaymentValue += *r.PaymentValueSum
		}
		if r.FreightValueSum != nil {
			k.TotalFreightValue += *r.FreightValueSum
		}
		if r.Status != source.StatusDelivered {
			continue
		}
		k.DeliveredOrders++
		if r.OnTime != nil && *r.OnTime {
			k.OnTimeCount++
		}
		if r.DelayDays != nil {
			delaySum += float64(*r.DelayDays)
			delayCount++
		}
	}

	if k.DeliveredOrders > 0 {
		k.OnTimeRate = float64(k.OnTimeCount) / float64(k.DeliveredOrders)
	}
	if delayCount > 0 {
		k.AvgDelayDays = delaySum / float64(delayCount)
	}
	return k
}

// StateRollup is the per-state geographic aggregate used for map display.
type StateRollup struct {
	State          string
	MeanLat        float64
	MeanLng        float64
	OrderCount     int
	DeliveredCount int
	OnTimeCount    int
	OnTimeRate     float64
	AvgDelayDays   float64
}

// GroupGeo aggregates fact rows by customer state for map display. Rows
// with null coordinates or a null state are dropped first; the remaining
// rows contribute their centroid means, distinct order count, and delivery
// outcome counts. States are emitted in ascending order. Empty or all-null
// input yields an empty (but typed) slice.
func GroupGeo(rows []transform.FactOrder) []StateRollup {
	type acc struct {
		latSum, lngSum float64
		orderIDs       map[string]struct{}
		rowCount       int
		delivered      map[string]struct{}
		onTime         int
		delaySum       float64
		delayCount     int
	}

	accs := make(map[string]*acc)
	for _, r := range rows {
		if r.MeanLat == nil || r.MeanLng == nil || r.State == nil {
			continue
		}
		a := accs[*r.State]
		if a == nil {
			a = &acc{
				orderIDs:  make(map[string]struct{}),
				delivered: make(map[string]struct{}),
			}
			accs[*r.State] = a
		}
		a.latSum += *r.MeanLat
		a.lngSum += *r.MeanLng
		a.rowCount++
		a.orderIDs[r.OrderID] = struct{}{}
		if r.Status != source.StatusDelivered {
			continue
		}
		a.delivered[r.OrderID] = struct{}{}
		if r.OnTime != nil && *r.OnTime {
			a.onTime++
		}
		if r.DelayDays != nil {
			a.delaySum += float64(*r.DelayDays)
			a.delayCount++
		}
	}

	states := make([]string, 0, len(accs))
	for s := range accs {
		states = append(states, s)
	}
	sort.Strings(states)

	out := make([]StateRollup, 0, len(states))
	for _, s := range states {
		a := accs[s]
		r := StateRollup{
			State:          s,
			MeanLat:        a.latSum / float64(a.rowCount),
			MeanLng:        a.lngSum / float64(a.rowCount),
			OrderCount:     len(a.orderIDs),
			DeliveredCount: len(a.delivered),
			OnTimeCount:    a.onTime,
		}
		if r.DeliveredCount > 0 {
			r.OnTimeRate = float64(r.OnTimeCount) / float64(r.DeliveredCount)
		}
		if a.delayCount > 0 {
			r.AvgDelayDays = a.delaySum / float64(a.delayCount)
		}
		out = append(out, r)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// memberOf reports whether v passes a membership filter. A nil set means
// the filter is inactive; a null value fails an active filter.
func memberOf(set map[string]struct{}, v *string) bool {
	if set == nil {
		return true
	}
	if v == nil {
		return false
	}
	_, ok := set[*v]
	return ok
}
