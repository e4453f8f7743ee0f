package transform

import "github.com/shoplens/delivery-facts/internal/source"

// PaymentAggregate is the per-order reduction of payment installments.
type PaymentAggregate struct {
	TypeMode string
	ValueSum float64
}

// ItemAggregate is the per-order reduction of line items joined to
// products and the category translation table. CategoryMode is empty when
// every contributing category was null.
type ItemAggregate struct {
	FreightSum   float64
	CategoryMode string
}

// modeCounter computes the most frequent non-empty value in a group.
// Ties go to the value encountered first in original row order, which
// keeps the aggregation deterministic for a fixed input ordering.
type modeCounter struct {
	counts map[string]int
	order  []string
}

func newModeCounter() *modeCounter {
	return &modeCounter{counts: make(map[string]int)}
}

func (m *modeCounter) add(v string) {
	if v == "" {
		return
	}
	if m.counts[v] == 0 {
		m.order = append(m.order, v)
	}
	m.counts[v]++
}

func (m *modeCounter) mode() string {
	best, bestCount := "", 0
	for _, v := range m.order {
		if m.counts[v] > bestCount {
			best, bestCount = v, m.counts[v]
		}
	}
	return best
}

// AggregatePayments groups payment rows by order id, computing the mode of
// payment type and the sum of payment value (nulls as zero). Orders with
// no payment rows are absent from the result.
func AggregatePayments(payments []source.Payment) map[string]PaymentAggregate {
	type acc struct {
		types *modeCounter
		sum   float64
	}
	accs := make(map[string]*acc)
	for _, p := range payments {
		if p.OrderID == "" {
			continue
		}
		a := accs[p.OrderID]
		if a == nil {
			a = &acc{types: newModeCounter()}
			accs[p.OrderID] = a
		}
		a.types.add(p.Type)
		if p.Value != nil {
			a.sum += *p.Value
		}
	}

	out := make(map[string]PaymentAggregate, len(accs))
	for orderID, a := range accs {
		out[orderID] = PaymentAggregate{
			TypeMode: a.types.mode(),
			ValueSum: a.sum,
		}
	}
	return out
}

// AggregateItems groups line items by order id after joining each item to
// its product category and the category's English translation. The
// translation fallback is per item row: an untranslated category
// contributes its original name to the mode. Orders with no item rows are
// absent from the result.
func AggregateItems(
	items []source.OrderItem,
	products []source.Product,
	translations []source.CategoryTranslation,
) map[string]ItemAggregate {
	categoryByProduct := make(map[string]string, len(products))
	for _, p := range products {
		categoryByProduct[p.ProductID] = p.CategoryName
	}
	english := make(map[string]string, len(translations))
	for _, t := range translations {
		if t.English != "" {
			english[t.CategoryName] = t.English
		}
	}

	type acc struct {
		categories *modeCounter
		freight    float64
	}
	accs := make(map[string]*acc)
	for _, it := range items {
		if it.OrderID == "" {
			continue
		}
		a := accs[it.OrderID]
		if a == nil {
			a = &acc{categories: newModeCounter()}
			accs[it.OrderID] = a
		}
		if it.FreightValue != nil {
			a.freight += *it.FreightValue
		}
		category := categoryByProduct[it.ProductID]
		if translated, ok := english[category]; ok {
			category = translated
		}
		a.categories.add(category)
	}

	out := make(map[string]ItemAggregate, len(accs))
	for orderID, a := range accs {
		out[orderID] = ItemAggregate{
			FreightSum:   a.freight,
			CategoryMode: a.categories.mode(),
		}
	}
	return out
}
