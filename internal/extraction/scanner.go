// Package extraction turns receipt photos into structured receipt
// candidates via a vision model. Candidates are returned to the client for
// review; nothing here writes to storage, and the computation engine never
// sees extraction output until the caller validates and uploads it.
package extraction

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrNoReceiptsFound = errors.New("no receipts detected in image")
	ErrInvalidDataURI  = errors.New("photo must be a base64 data URI")
)

// MaxReceipts caps how many receipts a single image may yield.
const MaxReceipts = 5

// LineItemData is an extracted line item candidate.
type LineItemData struct {
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	UnitPrice  float64  `json:"unit_price"`
	AssignedTo []string `json:"assigned_to,omitempty"`
}

// SurchargeData is an extracted surcharge candidate. Discounts carry
// negative values.
type SurchargeData struct {
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
}

// ReceiptData is one extracted receipt candidate, shaped to match the
// receipt creation payload.
type ReceiptData struct {
	Merchant   string          `json:"merchant"`
	Date       string          `json:"date"` // YYYY-MM-DD
	Category   string          `json:"category"`
	LineItems  []LineItemData  `json:"line_items"`
	Surcharges []SurchargeData `json:"surcharges,omitempty"`
	TaxType    string          `json:"tax_type,omitempty"`
	TaxValue   float64         `json:"tax_value,omitempty"`
	TipType    string          `json:"tip_type,omitempty"`
	TipValue   float64         `json:"tip_value,omitempty"`
}

// Scanner defines the interface for receipt extraction backends.
type Scanner interface {
	// ScanReceipts analyzes a receipt image and extracts up to MaxReceipts
	// candidates. Returns ErrNoReceiptsFound when the image contains none.
	ScanReceipts(ctx context.Context, imageData []byte, mimeType string) ([]ReceiptData, error)
	// Close releases the backend's resources.
	Close() error
}
