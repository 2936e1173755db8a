package split

import "github.com/adhami/splitscan/internal/receipt/money"

// Advanced attributes each line item's cost to its assigned participants,
// prorates surcharges, tax, and tip by each participant's subtotal share,
// then spreads non-payers' totals evenly across payers as treats.
//
// Items with no assignees belong to the owner. Assignee names absent from
// the participant list are dropped, not reassigned; that share of the item
// simply never enters anyone's subtotal. This lenient policy keeps the
// engine total over inputs whose item assignments have drifted from the
// participant list (e.g. a participant was removed after items were
// assigned to them).
//
// The result runs in two passes: a first pass computing every participant's
// cost as if all were paying, and a second pass that zeroes non-payers'
// breakdowns (recording their first-pass total as Treat) and redistributes
// that pool onto payers' totals via money.Distribute, so final totals still
// sum exactly to the first-pass sum.
func Advanced(r Receipt) []ParticipantShare {
	participants := r.Participants

	subtotals := make(map[string]float64, len(participants))
	for _, p := range participants {
		subtotals[p.Name] = 0
	}

	for _, item := range r.LineItems {
		assigned := item.AssignedTo
		if len(assigned) == 0 {
			assigned = []string{Owner}
		}
		shares := money.Distribute(item.Cost(), len(assigned))
		for i, name := range assigned {
			if _, ok := subtotals[name]; ok {
				subtotals[name] = money.Add(subtotals[name], shares[i])
			}
		}
	}

	var totalSubtotal float64
	for _, p := range participants {
		totalSubtotal = money.Add(totalSubtotal, subtotals[p.Name])
	}

	surcharges := surchargesTotal(totalSubtotal, r.Surcharges)
	taxable := money.Add(totalSubtotal, surcharges)
	tax := chargeTotal(taxable, r.Tax)
	tip := chargeTotal(taxable, r.Tip)

	out := make([]ParticipantShare, len(participants))
	var treatPool float64
	payerCount := 0
	for i, p := range participants {
		sub := subtotals[p.Name]
		var pct float64
		if totalSubtotal > 0 {
			pct = sub / totalSubtotal
		}
		b := Breakdown{
			Subtotal:  sub,
			Surcharge: money.Mul(surcharges, pct),
			Tax:       money.Mul(tax, pct),
			Tip:       money.Mul(tip, pct),
		}
		b.Total = money.Add(b.Subtotal, money.Add(b.Surcharge, money.Add(b.Tax, b.Tip)))
		out[i] = ParticipantShare{Name: p.Name, Breakdown: b}

		if p.IsPaying {
			payerCount++
		} else {
			treatPool = money.Add(treatPool, b.Total)
		}
	}

	treatShares := money.Distribute(treatPool, payerCount)
	next := 0
	for i, p := range participants {
		if p.IsPaying {
			treat := treatShares[next]
			next++
			out[i].Breakdown.Total = money.Add(out[i].Breakdown.Total, treat)
			out[i].Breakdown.Treat = treat
		} else {
			out[i].Breakdown = Breakdown{Treat: out[i].Breakdown.Total}
		}
	}
	return out
}
