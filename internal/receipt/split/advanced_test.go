package split

import (
	"math"
	"testing"
)

func TestAdvanced(t *testing.T) {
	tests := []struct {
		name     string
		receipt  Receipt
		validate func(t *testing.T, shares []ParticipantShare)
	}{
		{
			name: "items go to their assignees",
			receipt: Receipt{
				LineItems: []LineItem{
					item("Pizza", 1, 20.00, Owner),
					item("Soda", 1, 4.00, "Bob"),
				},
				Participants: []Participant{
					{Name: Owner, IsPaying: true},
					{Name: "Bob", IsPaying: true},
				},
			},
			validate: func(t *testing.T, shares []ParticipantShare) {
				me := shareByName(t, shares, Owner).Breakdown
				bob := shareByName(t, shares, "Bob").Breakdown
				if me.Total != 20.00 || me.Treat != 0 {
					t.Errorf("owner breakdown = %+v, want total 20.00 treat 0", me)
				}
				if bob.Total != 4.00 || bob.Treat != 0 {
					t.Errorf("Bob breakdown = %+v, want total 4.00 treat 0", bob)
				}
			},
		},
		{
			name: "unassigned items default to the owner",
			receipt: Receipt{
				LineItems: []LineItem{
					item("Dessert", 1, 6.50),
					item("Soda", 1, 4.00, "Bob"),
				},
				Participants: []Participant{
					{Name: Owner, IsPaying: true},
					{Name: "Bob", IsPaying: true},
				},
			},
			validate: func(t *testing.T, shares []ParticipantShare) {
				if got := shareByName(t, shares, Owner).Breakdown.Subtotal; got != 6.50 {
					t.Errorf("owner subtotal = %v, want 6.50", got)
				}
			},
		},
		{
			name: "shared item cost splits exactly with the odd cent up front",
			receipt: Receipt{
				LineItems: []LineItem{item("Platter", 1, 10.01, Owner, "Bob")},
				Participants: []Participant{
					{Name: Owner, IsPaying: true},
					{Name: "Bob", IsPaying: true},
				},
			},
			validate: func(t *testing.T, shares []ParticipantShare) {
				if got := shareByName(t, shares, Owner).Breakdown.Subtotal; got != 5.01 {
					t.Errorf("owner subtotal = %v, want 5.01", got)
				}
				if got := shareByName(t, shares, "Bob").Breakdown.Subtotal; got != 5.00 {
					t.Errorf("Bob subtotal = %v, want 5.00", got)
				}
			},
		},
		{
			name: "unknown assignees are dropped not reassigned",
			receipt: Receipt{
				LineItems: []LineItem{
					item("Wine", 1, 30.00, "Ghost"),
					item("Bread", 1, 5.00, Owner),
				},
				Participants: []Participant{
					{Name: Owner, IsPaying: true},
					{Name: "Bob", IsPaying: true},
				},
			},
			validate: func(t *testing.T, shares []ParticipantShare) {
				if got := shareByName(t, shares, Owner).Breakdown.Total; got != 5.00 {
					t.Errorf("owner total = %v, want 5.00", got)
				}
				if got := shareByName(t, shares, "Bob").Breakdown.Total; got != 0 {
					t.Errorf("Bob total = %v, want 0", got)
				}
			},
		},
		{
			name: "non-payer cost becomes a treat spread across payers",
			receipt: Receipt{
				LineItems: []LineItem{
					item("Pizza", 1, 20.00, Owner),
					item("Soda", 1, 4.00, "Bob"),
				},
				Tax: &Charge{Type: KindPercentage, Value: 10},
				Participants: []Participant{
					{Name: Owner, IsPaying: true},
					{Name: "Bob", IsPaying: false},
				},
			},
			validate: func(t *testing.T, shares []ParticipantShare) {
				// First pass: owner 20 + 2.00 tax, Bob 4 + 0.40 tax.
				me := shareByName(t, shares, Owner).Breakdown
				if me.Total != 26.40 {
					t.Errorf("owner total = %v, want 26.40", me.Total)
				}
				if me.Treat != 4.40 {
					t.Errorf("owner treat = %v, want 4.40", me.Treat)
				}

				bob := shareByName(t, shares, "Bob").Breakdown
				if bob.Subtotal != 0 || bob.Tax != 0 || bob.Total != 0 {
					t.Errorf("non-payer breakdown = %+v, want zeroed", bob)
				}
				if bob.Treat != 4.40 {
					t.Errorf("non-payer treat = %v, want its first-pass total 4.40", bob.Treat)
				}
			},
		},
		{
			name: "surcharge tax and tip prorate by subtotal share",
			receipt: Receipt{
				LineItems: []LineItem{
					item("Steak", 1, 30.00, Owner),
					item("Salad", 1, 10.00, "Ana"),
				},
				Surcharges: []Surcharge{{Description: "Service", Type: KindPercentage, Value: 10}},
				Tax:        &Charge{Type: KindPercentage, Value: 5},
				Tip:        &Charge{Type: KindFixed, Value: 8},
				Participants: []Participant{
					{Name: Owner, IsPaying: true},
					{Name: "Ana", IsPaying: true},
				},
			},
			validate: func(t *testing.T, shares []ParticipantShare) {
				// subtotal 40, surcharge 4, taxable 44, tax 2.20, tip 8
				me := shareByName(t, shares, Owner).Breakdown
				if me.Surcharge != 3.00 || me.Tax != 1.65 || me.Tip != 6.00 {
					t.Errorf("owner components = %+v, want surcharge 3.00 tax 1.65 tip 6.00", me)
				}
				if me.Total != 40.65 {
					t.Errorf("owner total = %v, want 40.65", me.Total)
				}

				ana := shareByName(t, shares, "Ana").Breakdown
				if ana.Surcharge != 1.00 || ana.Tax != 0.55 || ana.Tip != 2.00 {
					t.Errorf("Ana components = %+v, want surcharge 1.00 tax 0.55 tip 2.00", ana)
				}
				if ana.Total != 13.55 {
					t.Errorf("Ana total = %v, want 13.55", ana.Total)
				}
			},
		},
		{
			name: "zero attributed subtotal zeroes all proration",
			receipt: Receipt{
				LineItems:  []LineItem{item("Wine", 1, 30.00, "Ghost")},
				Surcharges: []Surcharge{{Description: "Service", Type: KindPercentage, Value: 10}},
				Tax:        &Charge{Type: KindPercentage, Value: 5},
				Participants: []Participant{
					{Name: Owner, IsPaying: true},
					{Name: "Bob", IsPaying: false},
				},
			},
			validate: func(t *testing.T, shares []ParticipantShare) {
				for _, s := range shares {
					if s.Breakdown != (Breakdown{}) {
						t.Errorf("%s breakdown = %+v, want all zero", s.Name, s.Breakdown)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := Advanced(tt.receipt)
			if len(shares) != len(tt.receipt.Participants) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.receipt.Participants))
			}
			tt.validate(t, shares)
		})
	}
}

func TestAdvancedTotalsSumToGrandTotal(t *testing.T) {
	r := Receipt{
		LineItems: []LineItem{
			item("Pizza", 1, 20.00, Owner),
			item("Soda", 1, 4.00, "Bob"),
			item("Dessert", 1, 7.00, Owner, "Bob", "Ana"),
		},
		Tax: &Charge{Type: KindPercentage, Value: 10},
		Participants: []Participant{
			{Name: Owner, IsPaying: true},
			{Name: "Bob", IsPaying: true},
			{Name: "Ana", IsPaying: false},
		},
	}

	// Treat redistribution preserves the first-pass sum exactly; the
	// first-pass sum itself can differ from the grand total by at most one
	// cent of prorated component rounding.
	grand := CalculateTotal(r)
	if got := sumTotals(Advanced(r)); math.Abs(got-grand) > 0.01 {
		t.Errorf("final totals sum to %v, want %v within one cent", got, grand)
	}
}

func TestAdvancedIdempotent(t *testing.T) {
	r := Receipt{
		LineItems: []LineItem{
			item("Pizza", 1, 20.00, Owner),
			item("Soda", 1, 4.00, "Bob"),
		},
		Tip: &Charge{Type: KindPercentage, Value: 15},
		Participants: []Participant{
			{Name: Owner, IsPaying: true},
			{Name: "Bob", IsPaying: false},
		},
	}
	first := Advanced(r)
	second := Advanced(r)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("share %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
