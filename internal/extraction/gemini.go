package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const receiptScanPrompt = `
You are extracting structured data from receipt images. The image may contain
zero, one, or multiple receipts, in any language.

Return ONLY a JSON array. If no receipts are detected, return []. If multiple
receipts are found, return one object per receipt, at most 5.

Each receipt object has these fields:
- "merchant": the vendor name on the receipt.
- "date": the receipt date as YYYY-MM-DD.
- "category": the best-fitting expense category, e.g. "Food & Drink",
  "Shopping", "Transport", or "Miscellaneous".
- "line_items": array of {"name", "quantity", "unit_price", "assigned_to"}.
  unit_price is the price of a single unit rounded to two decimals;
  assigned_to is always an empty array.
- "surcharges": array of {"description", "type", "value"} for receipt-level
  charges or discounts such as bag fees, service charges, or coupons.
  type is "fixed" or "percentage". Discounts must have negative values.
- "tax_type"/"tax_value" and "tip_type"/"tip_value": the receipt's tax and
  tip if printed, with type "fixed" or "percentage". Omit when absent.

Do not invent values that are not on the receipt. Respond with the JSON array
only, no prose and no markdown fences.
`

const scanTimeout = 30 * time.Second

// Gemini implements Scanner using Google Gemini.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini-backed scanner.
func NewGemini(apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// ScanReceipts analyzes a receipt image and extracts receipt candidates.
func (g *Gemini) ScanReceipts(ctx context.Context, imageData []byte, mimeType string) ([]ReceiptData, error) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	// genai.ImageData expects the format suffix ("png"), not the full MIME
	// type ("image/png").
	format := strings.TrimPrefix(mimeType, "image/")
	parts := []genai.Part{
		genai.ImageData(format, imageData),
		genai.Text(receiptScanPrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	receipts, err := parseReceiptsJSON(responseText.String())
	if err != nil {
		return nil, fmt.Errorf("parsing receipt data: %w", err)
	}
	if len(receipts) == 0 {
		return nil, ErrNoReceiptsFound
	}
	return receipts, nil
}

// Close closes the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
