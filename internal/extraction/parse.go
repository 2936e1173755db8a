package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/adhami/splitscan/internal/receipt"
	"github.com/adhami/splitscan/internal/receipt/money"
)

// parseReceiptsJSON parses the model's response into receipt candidates.
// The model is asked for a bare JSON array but occasionally wraps it in
// markdown fences or returns a single object; both are tolerated.
func parseReceiptsJSON(text string) ([]ReceiptData, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")

	var receipts []ReceiptData
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &receipts); err != nil {
			return nil, fmt.Errorf("unmarshaling json array: %w", err)
		}
	} else {
		// Fall back to a single receipt object.
		start = strings.Index(text, "{")
		end = strings.LastIndex(text, "}")
		if start == -1 || end < start {
			return nil, fmt.Errorf("no JSON found in response")
		}
		var one ReceiptData
		if err := json.Unmarshal([]byte(text[start:end+1]), &one); err != nil {
			return nil, fmt.Errorf("unmarshaling json object: %w", err)
		}
		receipts = []ReceiptData{one}
	}

	if len(receipts) > MaxReceipts {
		receipts = receipts[:MaxReceipts]
	}
	for i := range receipts {
		normalize(&receipts[i])
	}
	return receipts, nil
}

// normalize coerces extracted values into the receipt schema bounds so a
// candidate the user accepts unchanged passes creation validation. Model
// output is best-effort; clamping beats rejecting a whole scan over one
// stray field.
func normalize(r *ReceiptData) {
	r.Merchant = clampString(r.Merchant, 50)
	if r.Merchant == "" {
		r.Merchant = "Unknown"
	}
	r.Category = clampString(r.Category, 50)
	r.Date = normalizeDate(r.Date)

	if len(r.LineItems) > receipt.MaxLineItems {
		r.LineItems = r.LineItems[:receipt.MaxLineItems]
	}
	for i := range r.LineItems {
		item := &r.LineItems[i]
		item.Name = clampString(item.Name, 100)
		if item.Name == "" {
			item.Name = "Item"
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if item.Quantity > receipt.MaxQuantity {
			item.Quantity = receipt.MaxQuantity
		}
		item.UnitPrice = money.Round(item.UnitPrice)
		if item.UnitPrice < receipt.MinUnitPrice {
			item.UnitPrice = receipt.MinUnitPrice
		}
		if item.UnitPrice > receipt.MaxUnitPrice {
			item.UnitPrice = receipt.MaxUnitPrice
		}
	}

	if len(r.Surcharges) > receipt.MaxSurcharges {
		r.Surcharges = r.Surcharges[:receipt.MaxSurcharges]
	}
	kept := r.Surcharges[:0]
	for _, s := range r.Surcharges {
		if s.Type != "fixed" && s.Type != "percentage" {
			continue
		}
		s.Description = clampString(s.Description, 100)
		if s.Description == "" {
			s.Description = "Surcharge"
		}
		s.Value = clampValue(money.Round(s.Value), -receipt.MaxChargeValue, receipt.MaxChargeValue)
		kept = append(kept, s)
	}
	r.Surcharges = kept

	r.TaxType, r.TaxValue = normalizeCharge(r.TaxType, r.TaxValue)
	r.TipType, r.TipValue = normalizeCharge(r.TipType, r.TipValue)
}

func normalizeCharge(kind string, value float64) (string, float64) {
	if kind != "fixed" && kind != "percentage" {
		return "", 0
	}
	return kind, clampValue(money.Round(value), 0, receipt.MaxChargeValue)
}

func normalizeDate(s string) string {
	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"02-01-2006",
		time.RFC3339,
	}
	for _, format := range formats {
		if d, err := time.Parse(format, s); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return time.Now().Format("2006-01-02")
}

func clampString(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max]
	}
	return s
}

func clampValue(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
