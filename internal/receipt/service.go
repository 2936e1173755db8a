package receipt

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/adhami/splitscan/internal/metrics"
	"github.com/adhami/splitscan/internal/receipt/split"
)

// Common errors
var (
	ErrReceiptNotFound      = errors.New("receipt not found")
	ErrInvalidReceipt       = errors.New("invalid receipt")
	ErrNoLineItems          = errors.New("at least one line item is required")
	ErrReservedParticipant  = errors.New(`participant name "Me" is reserved for the receipt owner`)
	ErrDuplicateParticipant = errors.New("participant names must be unique")
)

// Store is the persistence dependency of the receipt service.
type Store interface {
	Create(ctx context.Context, r *Receipt) error
	GetByID(ctx context.Context, userID, id string) (*Receipt, error)
	List(ctx context.Context, userID string, limit int) ([]*Receipt, error)
	Update(ctx context.Context, r *Receipt) error
	Delete(ctx context.Context, userID, id string) error
	DeleteAll(ctx context.Context, userID string) (int64, error)
}

// Service handles receipt business logic. Every operation is scoped to the
// authenticated owner; receipts belonging to other users are reported as
// not found.
type Service struct {
	store Store
}

// NewService creates a new receipt service with its store injected.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates and persists a new receipt for userID.
func (s *Service) Create(ctx context.Context, userID string, req *CreateReceiptRequest) (*Receipt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &Receipt{
		ID:         uuid.NewString(),
		UserID:     userID,
		Merchant:   req.Merchant,
		Date:       date,
		Category:   req.Category,
		LineItems:  req.LineItems,
		Surcharges: req.Surcharges,
		TaxType:    req.TaxType,
		TaxValue:   req.TaxValue,
		TipType:    req.TipType,
		TipValue:   req.TipValue,
		SplitMode:  req.SplitMode,
		Splits:     req.Splits,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}

	metrics.ReceiptsCreated.Inc()
	slog.Info("receipt created", "receipt_id", r.ID, "merchant", r.Merchant, "items", len(r.LineItems))
	return r, nil
}

// Get retrieves a receipt owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Receipt, error) {
	r, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrReceiptNotFound
	}
	return r, nil
}

// List retrieves userID's receipts, newest date first. limit <= 0 means no
// limit; the cap mirrors the schema's own bounds, not pagination.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]*Receipt, error) {
	if limit < 0 {
		limit = 0
	}
	if limit > 100 {
		limit = 100
	}
	return s.store.List(ctx, userID, limit)
}

// Update applies a partial update to a receipt owned by userID. Collections
// in the request replace the stored ones wholesale; nested entities have no
// lifecycle of their own.
func (s *Service) Update(ctx context.Context, userID, id string, req *UpdateReceiptRequest) (*Receipt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Merchant != nil {
		r.Merchant = *req.Merchant
	}
	if req.Date != nil {
		date, err := ParseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		r.Date = date
	}
	if req.Category != nil {
		r.Category = *req.Category
	}
	if req.LineItems != nil {
		r.LineItems = *req.LineItems
	}
	if req.Surcharges != nil {
		r.Surcharges = *req.Surcharges
	}
	if req.TaxType != nil {
		r.TaxType = req.TaxType
	}
	if req.TaxValue != nil {
		r.TaxValue = req.TaxValue
	}
	if req.TipType != nil {
		r.TipType = req.TipType
	}
	if req.TipValue != nil {
		r.TipValue = req.TipValue
	}
	if req.SplitMode != nil {
		r.SplitMode = req.SplitMode
	}
	if req.Splits != nil {
		r.Splits = *req.Splits
	}
	r.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes a receipt owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return err
	}
	metrics.ReceiptsDeleted.Inc()
	return nil
}

// DeleteAll removes every receipt owned by userID and returns the count.
func (s *Service) DeleteAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.DeleteAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	metrics.ReceiptsDeleted.Add(float64(n))
	slog.Info("receipts bulk deleted", "user_id", userID, "count", n)
	return n, nil
}

// Split computes the per-participant breakdown for a receipt under its
// split mode. Breakdowns are never persisted; callers recompute on demand.
func (s *Service) Split(ctx context.Context, userID, id string) (*SplitResponse, error) {
	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	in := r.SplitInput()
	mode := r.Mode()

	var shares []split.ParticipantShare
	if mode == split.ModeAdvanced {
		shares = split.Advanced(in)
	} else {
		shares = split.Evenly(in)
	}
	metrics.SplitsComputed.WithLabelValues(string(mode)).Inc()

	return &SplitResponse{
		Mode:   string(mode),
		Total:  split.CalculateTotal(in),
		Shares: shares,
	}, nil
}
