package split

import "github.com/adhami/splitscan/internal/receipt/money"

// lineItemsTotal sums quantity × unit price over all line items.
func lineItemsTotal(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum = money.Add(sum, item.Cost())
	}
	return sum
}

// surchargesTotal applies all surcharges against base. Every percentage
// surcharge is computed off the same base rather than a running total, so
// percentage surcharges never compound on each other.
func surchargesTotal(base float64, surcharges []Surcharge) float64 {
	var fixed, percent float64
	for _, s := range surcharges {
		switch s.Type {
		case KindFixed:
			fixed += s.Value
		case KindPercentage:
			percent += s.Value
		}
	}
	return money.Add(fixed, money.Mul(base, percent/100))
}

// chargeTotal resolves an optional fixed-or-percentage charge against base.
func chargeTotal(base float64, c *Charge) float64 {
	if c == nil {
		return 0
	}
	switch c.Type {
	case KindFixed:
		return c.Value
	case KindPercentage:
		return money.Mul(base, c.Value/100)
	}
	return 0
}

// CalculateTotal computes the receipt's grand total: line items, then
// surcharges (percentages off the pre-surcharge item total), then tax and
// tip, both off the same post-surcharge taxable total. Returns 0 when the
// receipt has no line items.
func CalculateTotal(r Receipt) float64 {
	if len(r.LineItems) == 0 {
		return 0
	}
	items := lineItemsTotal(r.LineItems)
	surcharges := surchargesTotal(items, r.Surcharges)
	taxable := money.Add(items, surcharges)
	tax := chargeTotal(taxable, r.Tax)
	tip := chargeTotal(taxable, r.Tip)
	return money.Add(taxable, money.Add(tax, tip))
}
