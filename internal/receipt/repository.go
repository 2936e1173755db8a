package receipt

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Repository handles receipt persistence. A receipt is one row; its nested
// collections are stored as JSONB documents and replaced wholesale on
// update, mirroring their lack of independent lifecycle.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new receipt repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

// Create inserts a new receipt.
func (r *Repository) Create(ctx context.Context, rec *Receipt) error {
	lineItems, surcharges, splits, err := marshalNested(rec)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO receipts (id, user_id, merchant, date, category, line_items, surcharges,
			tax_type, tax_value, tip_type, tip_value, split_mode, splits, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.Merchant, rec.Date, rec.Category,
		lineItems, surcharges,
		rec.TaxType, rec.TaxValue, rec.TipType, rec.TipValue,
		rec.SplitMode, splits, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}
	return nil
}

// GetByID retrieves a receipt by ID, scoped to its owner. Returns nil when
// no such receipt exists for that user.
func (r *Repository) GetByID(ctx context.Context, userID, id string) (*Receipt, error) {
	query := `
		SELECT id, user_id, merchant, date, category, line_items, surcharges,
			tax_type, tax_value, tip_type, tip_value, split_mode, splits, created_at, updated_at
		FROM receipts
		WHERE id = $1 AND user_id = $2
	`
	rec, err := scanReceipt(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return rec, nil
}

// List retrieves a user's receipts, newest date first. limit 0 means all.
func (r *Repository) List(ctx context.Context, userID string, limit int) ([]*Receipt, error) {
	query := `
		SELECT id, user_id, merchant, date, category, line_items, surcharges,
			tax_type, tax_value, tip_type, tip_value, split_mode, splits, created_at, updated_at
		FROM receipts
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
	`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	receipts := make([]*Receipt, 0)
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, rec)
	}
	return receipts, rows.Err()
}

// Update replaces a stored receipt's content, scoped to its owner.
func (r *Repository) Update(ctx context.Context, rec *Receipt) error {
	lineItems, surcharges, splits, err := marshalNested(rec)
	if err != nil {
		return err
	}

	query := `
		UPDATE receipts
		SET merchant = $3, date = $4, category = $5, line_items = $6, surcharges = $7,
			tax_type = $8, tax_value = $9, tip_type = $10, tip_value = $11,
			split_mode = $12, splits = $13, updated_at = $14
		WHERE id = $1 AND user_id = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.Merchant, rec.Date, rec.Category,
		lineItems, surcharges,
		rec.TaxType, rec.TaxValue, rec.TipType, rec.TipValue,
		rec.SplitMode, splits, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update receipt: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrReceiptNotFound
	}
	return nil
}

// Delete removes a receipt, scoped to its owner.
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM receipts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrReceiptNotFound
	}
	return nil
}

// DeleteAll removes every receipt owned by userID, returning the count.
func (r *Repository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM receipts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete receipts: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted receipts: %w", err)
	}
	return n, nil
}

func marshalNested(rec *Receipt) (lineItems, surcharges, splits []byte, err error) {
	if lineItems, err = json.Marshal(rec.LineItems); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal line items: %w", err)
	}
	if surcharges, err = json.Marshal(rec.Surcharges); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal surcharges: %w", err)
	}
	if splits, err = json.Marshal(rec.Splits); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal splits: %w", err)
	}
	return lineItems, surcharges, splits, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReceipt(row rowScanner) (*Receipt, error) {
	rec := &Receipt{}
	var lineItems, surcharges, splits []byte
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Merchant, &rec.Date, &rec.Category,
		&lineItems, &surcharges,
		&rec.TaxType, &rec.TaxValue, &rec.TipType, &rec.TipValue,
		&rec.SplitMode, &splits, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(lineItems, &rec.LineItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal line items: %w", err)
	}
	if len(surcharges) > 0 {
		if err := json.Unmarshal(surcharges, &rec.Surcharges); err != nil {
			return nil, fmt.Errorf("failed to unmarshal surcharges: %w", err)
		}
	}
	if len(splits) > 0 {
		if err := json.Unmarshal(splits, &rec.Splits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal splits: %w", err)
		}
	}
	return rec, nil
}
