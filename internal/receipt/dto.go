package receipt

import (
	"fmt"
	"time"

	"github.com/adhami/splitscan/internal/receipt/split"
)

// Schema bounds for receipt payloads. Extraction output and manual entry
// both pass through these checks before a receipt reaches the computation
// engine or storage.
const (
	MaxLineItems    = 500
	MaxSurcharges   = 5
	MaxParticipants = 20
	MaxQuantity     = 1000
	MinUnitPrice    = 0.01
	MaxUnitPrice    = 10000
	MaxChargeValue  = 10000
)

// CreateReceiptRequest represents the request to create a receipt, from
// manual entry or reviewed extraction output.
type CreateReceiptRequest struct {
	Merchant   string        `json:"merchant" validate:"required,min=1,max=50"`
	Date       string        `json:"date" validate:"required"`
	Category   string        `json:"category" validate:"max=50"`
	LineItems  []LineItem    `json:"line_items" validate:"required,min=1,max=500"`
	Surcharges []Surcharge   `json:"surcharges,omitempty" validate:"max=5"`
	TaxType    *string       `json:"tax_type,omitempty" validate:"omitempty,oneof=fixed percentage"`
	TaxValue   *float64      `json:"tax_value,omitempty" validate:"omitempty,gte=0,lte=10000"`
	TipType    *string       `json:"tip_type,omitempty" validate:"omitempty,oneof=fixed percentage"`
	TipValue   *float64      `json:"tip_value,omitempty" validate:"omitempty,gte=0,lte=10000"`
	SplitMode  *string       `json:"split_mode,omitempty" validate:"omitempty,oneof=simple advanced"`
	Splits     []Participant `json:"splits,omitempty" validate:"max=20"`
}

// UpdateReceiptRequest represents a partial update. Nil fields are left
// unchanged; non-nil collections replace the stored ones wholesale.
type UpdateReceiptRequest struct {
	Merchant   *string        `json:"merchant,omitempty" validate:"omitempty,min=1,max=50"`
	Date       *string        `json:"date,omitempty"`
	Category   *string        `json:"category,omitempty" validate:"omitempty,max=50"`
	LineItems  *[]LineItem    `json:"line_items,omitempty" validate:"omitempty,min=1,max=500"`
	Surcharges *[]Surcharge   `json:"surcharges,omitempty" validate:"omitempty,max=5"`
	TaxType    *string        `json:"tax_type,omitempty" validate:"omitempty,oneof=fixed percentage"`
	TaxValue   *float64       `json:"tax_value,omitempty" validate:"omitempty,gte=0,lte=10000"`
	TipType    *string        `json:"tip_type,omitempty" validate:"omitempty,oneof=fixed percentage"`
	TipValue   *float64       `json:"tip_value,omitempty" validate:"omitempty,gte=0,lte=10000"`
	SplitMode  *string        `json:"split_mode,omitempty" validate:"omitempty,oneof=simple advanced"`
	Splits     *[]Participant `json:"splits,omitempty" validate:"omitempty,max=20"`
}

// ReceiptResponse represents a receipt as returned by the API, annotated
// with the computed grand total.
type ReceiptResponse struct {
	ID         string        `json:"id"`
	Merchant   string        `json:"merchant"`
	Date       string        `json:"date"`
	Category   string        `json:"category"`
	LineItems  []LineItem    `json:"line_items"`
	Surcharges []Surcharge   `json:"surcharges,omitempty"`
	TaxType    *string       `json:"tax_type,omitempty"`
	TaxValue   *float64      `json:"tax_value,omitempty"`
	TipType    *string       `json:"tip_type,omitempty"`
	TipValue   *float64      `json:"tip_value,omitempty"`
	SplitMode  *string       `json:"split_mode,omitempty"`
	Splits     []Participant `json:"splits,omitempty"`
	Total      float64       `json:"total"`
	CreatedAt  string        `json:"created_at"`
	UpdatedAt  string        `json:"updated_at"`
}

// SplitResponse represents the computed per-participant breakdown for a
// receipt under its split mode.
type SplitResponse struct {
	Mode   string                   `json:"mode"`
	Total  float64                  `json:"total"`
	Shares []split.ParticipantShare `json:"shares"`
}

// ToResponse converts a Receipt model to a ReceiptResponse DTO.
func (r *Receipt) ToResponse() *ReceiptResponse {
	return &ReceiptResponse{
		ID:         r.ID,
		Merchant:   r.Merchant,
		Date:       r.Date.Format("2006-01-02"),
		Category:   r.Category,
		LineItems:  r.LineItems,
		Surcharges: r.Surcharges,
		TaxType:    r.TaxType,
		TaxValue:   r.TaxValue,
		TipType:    r.TipType,
		TipValue:   r.TipValue,
		SplitMode:  r.SplitMode,
		Splits:     r.Splits,
		Total:      r.Total(),
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  r.UpdatedAt.Format(time.RFC3339),
	}
}

// Validate checks the create request against the receipt schema bounds.
func (req *CreateReceiptRequest) Validate() error {
	if req.Merchant == "" || len(req.Merchant) > 50 {
		return fmt.Errorf("%w: merchant must be 1-50 characters", ErrInvalidReceipt)
	}
	if _, err := ParseDate(req.Date); err != nil {
		return err
	}
	if len(req.Category) > 50 {
		return fmt.Errorf("%w: category must be at most 50 characters", ErrInvalidReceipt)
	}
	if err := validateLineItems(req.LineItems); err != nil {
		return err
	}
	if err := validateSurcharges(req.Surcharges); err != nil {
		return err
	}
	if err := validateCharge("tax", req.TaxType, req.TaxValue); err != nil {
		return err
	}
	if err := validateCharge("tip", req.TipType, req.TipValue); err != nil {
		return err
	}
	if err := validateSplitMode(req.SplitMode); err != nil {
		return err
	}
	return validateSplits(req.Splits)
}

// Validate checks only the fields present in the partial update.
func (req *UpdateReceiptRequest) Validate() error {
	if req.Merchant != nil && (*req.Merchant == "" || len(*req.Merchant) > 50) {
		return fmt.Errorf("%w: merchant must be 1-50 characters", ErrInvalidReceipt)
	}
	if req.Date != nil {
		if _, err := ParseDate(*req.Date); err != nil {
			return err
		}
	}
	if req.Category != nil && len(*req.Category) > 50 {
		return fmt.Errorf("%w: category must be at most 50 characters", ErrInvalidReceipt)
	}
	if req.LineItems != nil {
		if err := validateLineItems(*req.LineItems); err != nil {
			return err
		}
	}
	if req.Surcharges != nil {
		if err := validateSurcharges(*req.Surcharges); err != nil {
			return err
		}
	}
	if err := validateCharge("tax", req.TaxType, req.TaxValue); err != nil {
		return err
	}
	if err := validateCharge("tip", req.TipType, req.TipValue); err != nil {
		return err
	}
	if err := validateSplitMode(req.SplitMode); err != nil {
		return err
	}
	if req.Splits != nil {
		return validateSplits(*req.Splits)
	}
	return nil
}

// ParseDate accepts a plain date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD or RFC 3339", ErrInvalidReceipt)
}

func validKind(k string) bool {
	return k == string(split.KindFixed) || k == string(split.KindPercentage)
}

func validateLineItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrNoLineItems
	}
	if len(items) > MaxLineItems {
		return fmt.Errorf("%w: at most %d line items", ErrInvalidReceipt, MaxLineItems)
	}
	for i, item := range items {
		if item.Name == "" || len(item.Name) > 100 {
			return fmt.Errorf("%w: line item %d name must be 1-100 characters", ErrInvalidReceipt, i)
		}
		if item.Quantity < 1 || item.Quantity > MaxQuantity {
			return fmt.Errorf("%w: line item %d quantity must be 1-%d", ErrInvalidReceipt, i, MaxQuantity)
		}
		if item.UnitPrice < MinUnitPrice || item.UnitPrice > MaxUnitPrice {
			return fmt.Errorf("%w: line item %d unit price must be %.2f-%d", ErrInvalidReceipt, i, MinUnitPrice, MaxUnitPrice)
		}
	}
	return nil
}

func validateSurcharges(surcharges []Surcharge) error {
	if len(surcharges) > MaxSurcharges {
		return fmt.Errorf("%w: at most %d surcharges", ErrInvalidReceipt, MaxSurcharges)
	}
	for i, s := range surcharges {
		if s.Description == "" || len(s.Description) > 100 {
			return fmt.Errorf("%w: surcharge %d description must be 1-100 characters", ErrInvalidReceipt, i)
		}
		if !validKind(s.Type) {
			return fmt.Errorf("%w: surcharge %d type must be fixed or percentage", ErrInvalidReceipt, i)
		}
		if s.Value < -MaxChargeValue || s.Value > MaxChargeValue {
			return fmt.Errorf("%w: surcharge %d value out of range", ErrInvalidReceipt, i)
		}
	}
	return nil
}

func validateCharge(field string, kind *string, value *float64) error {
	if kind != nil && !validKind(*kind) {
		return fmt.Errorf("%w: %s type must be fixed or percentage", ErrInvalidReceipt, field)
	}
	if value != nil && (*value < 0 || *value > MaxChargeValue) {
		return fmt.Errorf("%w: %s value must be 0-%d", ErrInvalidReceipt, field, MaxChargeValue)
	}
	return nil
}

func validateSplitMode(mode *string) error {
	if mode == nil {
		return nil
	}
	switch split.Mode(*mode) {
	case split.ModeSimple, split.ModeAdvanced:
		return nil
	}
	return fmt.Errorf("%w: split mode must be simple or advanced", ErrInvalidReceipt)
}

func validateSplits(splits []Participant) error {
	if len(splits) > MaxParticipants {
		return fmt.Errorf("%w: at most %d participants", ErrInvalidReceipt, MaxParticipants)
	}
	seen := make(map[string]bool, len(splits))
	for _, p := range splits {
		if p.Name == "" || len(p.Name) > 50 {
			return fmt.Errorf("%w: participant names must be 1-50 characters", ErrInvalidReceipt)
		}
		if p.Name == split.Owner {
			return ErrReservedParticipant
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateParticipant, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
