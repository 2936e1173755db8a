// Package split implements the receipt cost allocation engine: the grand
// total calculation and the two allocation strategies ("evenly" for simple
// mode, "advanced" for itemized mode).
//
// The package owns its input types; callers convert their models before
// invoking it. All functions are pure and never fail: degenerate inputs
// (no line items, no payers, zero proration base) produce zeroed results
// rather than errors, and malformed values are the caller's validation
// responsibility.
package split

import "github.com/adhami/splitscan/internal/receipt/money"

// Kind discriminates how a surcharge, tax, or tip value is applied.
type Kind string

const (
	KindFixed      Kind = "fixed"
	KindPercentage Kind = "percentage"
)

// Mode selects the allocation strategy for a receipt.
type Mode string

const (
	ModeSimple   Mode = "simple"
	ModeAdvanced Mode = "advanced"
)

// Owner is the name of the implicit receipt-owner participant. The owner is
// always present and always paying; callers prepend it to the participant
// list before invoking the allocators. Within this package it is only used
// as the default assignee for unassigned line items.
const Owner = "Me"

// LineItem is a single purchased item.
type LineItem struct {
	Name       string
	Quantity   int
	UnitPrice  float64
	AssignedTo []string // participant names; empty means the owner
}

// Cost returns quantity × unit price at currency precision.
func (li LineItem) Cost() float64 {
	return money.Mul(li.UnitPrice, float64(li.Quantity))
}

// Surcharge is a receipt-level extra charge or discount. A fixed surcharge
// contributes Value directly; a percentage surcharge contributes
// base × Value/100. Negative values are discounts.
type Surcharge struct {
	Description string
	Type        Kind
	Value       float64
}

// Charge is an optional tax or tip, applied against the taxable total.
type Charge struct {
	Type  Kind
	Value float64
}

// Participant is one person sharing the receipt.
type Participant struct {
	Name     string
	IsPaying bool
	Paid     bool
}

// Receipt is the normalized input to the engine.
type Receipt struct {
	LineItems    []LineItem
	Surcharges   []Surcharge
	Tax          *Charge
	Tip          *Charge
	Participants []Participant
}

// Breakdown is one participant's share of each cost component. Total is
// authoritative; the component fields are proportional approximations for
// display and do not necessarily sum to Total cent for cent.
type Breakdown struct {
	Subtotal  float64 `json:"subtotal"`
	Surcharge float64 `json:"surcharge"`
	Tax       float64 `json:"tax"`
	Tip       float64 `json:"tip"`
	Total     float64 `json:"total"`
	Treat     float64 `json:"treat"`
}

// ParticipantShare pairs a participant with their computed breakdown.
type ParticipantShare struct {
	Name      string    `json:"name"`
	Breakdown Breakdown `json:"breakdown"`
}
