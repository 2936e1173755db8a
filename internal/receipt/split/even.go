package split

import "github.com/adhami/splitscan/internal/receipt/money"

// Evenly distributes the grand total uniformly among paying participants.
//
// Each payer's Total is its exact share from money.Distribute, so payer
// totals always sum to the grand total. The component fields are the
// receipt-level totals scaled by the payer's share of the grand total.
// Treat is the amount a payer effectively covers for non-payers
// (grand/payers − grand/everyone); it is display-only and already included
// in the distributed totals. Non-paying participants get an all-zero
// breakdown.
func Evenly(r Receipt) []ParticipantShare {
	participants := r.Participants
	payers := make([]Participant, 0, len(participants))
	for _, p := range participants {
		if p.IsPaying {
			payers = append(payers, p)
		}
	}

	items := lineItemsTotal(r.LineItems)
	surcharges := surchargesTotal(items, r.Surcharges)
	taxable := money.Add(items, surcharges)
	tax := chargeTotal(taxable, r.Tax)
	tip := chargeTotal(taxable, r.Tip)
	grand := CalculateTotal(r)

	shares := money.Distribute(grand, len(payers))
	payerIdx := make(map[string]int, len(payers))
	for i, p := range payers {
		payerIdx[p.Name] = i
	}

	var treat float64
	if len(payers) > 0 && len(participants) > 0 {
		treat = money.Round(grand/float64(len(payers)) - grand/float64(len(participants)))
	}

	out := make([]ParticipantShare, len(participants))
	for i, p := range participants {
		if !p.IsPaying {
			out[i] = ParticipantShare{Name: p.Name}
			continue
		}

		total := shares[payerIdx[p.Name]]
		var percent float64
		if grand != 0 {
			percent = total / grand
		}
		out[i] = ParticipantShare{
			Name: p.Name,
			Breakdown: Breakdown{
				Subtotal:  money.Mul(items, percent),
				Surcharge: money.Mul(surcharges, percent),
				Tax:       money.Mul(tax, percent),
				Tip:       money.Mul(tip, percent),
				Total:     total,
				Treat:     treat,
			},
		}
	}
	return out
}
