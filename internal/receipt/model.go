package receipt

import (
	"time"

	"github.com/adhami/splitscan/internal/receipt/split"
)

// LineItem is a single purchased item on a receipt.
type LineItem struct {
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	UnitPrice  float64  `json:"unit_price"`
	AssignedTo []string `json:"assigned_to,omitempty"`
}

// Surcharge is a receipt-level extra charge or discount.
type Surcharge struct {
	Description string  `json:"description"`
	Type        string  `json:"type"` // fixed or percentage
	Value       float64 `json:"value"`
}

// Participant is one person sharing the receipt. The receipt owner is never
// stored here; it is injected as the implicit always-paying "Me" participant
// when splits are computed.
type Participant struct {
	Name     string `json:"name"`
	IsPaying bool   `json:"is_paying"`
	Paid     bool   `json:"paid"`
}

// Receipt represents a stored receipt. Nested collections are owned
// exclusively by the receipt and replaced wholesale on update.
type Receipt struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Merchant   string        `json:"merchant"`
	Date       time.Time     `json:"date"`
	Category   string        `json:"category"`
	LineItems  []LineItem    `json:"line_items"`
	Surcharges []Surcharge   `json:"surcharges,omitempty"`
	TaxType    *string       `json:"tax_type,omitempty"`
	TaxValue   *float64      `json:"tax_value,omitempty"`
	TipType    *string       `json:"tip_type,omitempty"`
	TipValue   *float64      `json:"tip_value,omitempty"`
	SplitMode  *string       `json:"split_mode,omitempty"`
	Splits     []Participant `json:"splits,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Mode returns the receipt's split mode, defaulting to simple.
func (r *Receipt) Mode() split.Mode {
	if r.SplitMode != nil && split.Mode(*r.SplitMode) == split.ModeAdvanced {
		return split.ModeAdvanced
	}
	return split.ModeSimple
}

// SplitInput converts the receipt to the split package's input form. The
// owner is prepended as an always-paying participant ahead of the stored
// splits, so the allocators themselves stay agnostic of who owns the
// receipt.
func (r *Receipt) SplitInput() split.Receipt {
	in := split.Receipt{
		LineItems:  make([]split.LineItem, len(r.LineItems)),
		Surcharges: make([]split.Surcharge, len(r.Surcharges)),
	}
	for i, item := range r.LineItems {
		in.LineItems[i] = split.LineItem{
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			AssignedTo: item.AssignedTo,
		}
	}
	for i, s := range r.Surcharges {
		in.Surcharges[i] = split.Surcharge{
			Description: s.Description,
			Type:        split.Kind(s.Type),
			Value:       s.Value,
		}
	}
	in.Tax = chargeOf(r.TaxType, r.TaxValue)
	in.Tip = chargeOf(r.TipType, r.TipValue)

	in.Participants = make([]split.Participant, 0, len(r.Splits)+1)
	in.Participants = append(in.Participants, split.Participant{
		Name:     split.Owner,
		IsPaying: true,
		Paid:     true,
	})
	for _, s := range r.Splits {
		in.Participants = append(in.Participants, split.Participant{
			Name:     s.Name,
			IsPaying: s.IsPaying,
			Paid:     s.Paid,
		})
	}
	return in
}

// Total computes the receipt's grand total.
func (r *Receipt) Total() float64 {
	return split.CalculateTotal(r.SplitInput())
}

// chargeOf builds an optional charge from a stored type/value pair. A set
// type with a missing value is treated as zero, matching how extraction
// output can arrive.
func chargeOf(kind *string, value *float64) *split.Charge {
	if kind == nil {
		return nil
	}
	c := &split.Charge{Type: split.Kind(*kind)}
	if value != nil {
		c.Value = *value
	}
	return c
}
