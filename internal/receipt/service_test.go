package receipt

import (
	"context"
	"errors"
	"sort"
	"testing"
)

// stubStore is an in-memory Store for service tests.
type stubStore struct {
	receipts map[string]*Receipt
}

func newStubStore() *stubStore {
	return &stubStore{receipts: make(map[string]*Receipt)}
}

func (s *stubStore) Create(_ context.Context, r *Receipt) error {
	cp := *r
	s.receipts[r.ID] = &cp
	return nil
}

func (s *stubStore) GetByID(_ context.Context, userID, id string) (*Receipt, error) {
	r, ok := s.receipts[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *stubStore) List(_ context.Context, userID string, limit int) ([]*Receipt, error) {
	var out []*Receipt
	for _, r := range s.receipts {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubStore) Update(_ context.Context, r *Receipt) error {
	stored, ok := s.receipts[r.ID]
	if !ok || stored.UserID != r.UserID {
		return ErrReceiptNotFound
	}
	cp := *r
	s.receipts[r.ID] = &cp
	return nil
}

func (s *stubStore) Delete(_ context.Context, userID, id string) error {
	r, ok := s.receipts[id]
	if !ok || r.UserID != userID {
		return ErrReceiptNotFound
	}
	delete(s.receipts, id)
	return nil
}

func (s *stubStore) DeleteAll(_ context.Context, userID string) (int64, error) {
	var n int64
	for id, r := range s.receipts {
		if r.UserID == userID {
			delete(s.receipts, id)
			n++
		}
	}
	return n, nil
}

func pizzaRequest() *CreateReceiptRequest {
	taxType, taxValue := "percentage", 10.0
	tipType, tipValue := "fixed", 2.0
	return &CreateReceiptRequest{
		Merchant: "Luigi's",
		Date:     "2026-08-30",
		Category: "Food & Drink",
		LineItems: []LineItem{
			{Name: "Pizza", Quantity: 1, UnitPrice: 20.00},
		},
		TaxType:  &taxType,
		TaxValue: &taxValue,
		TipType:  &tipType,
		TipValue: &tipValue,
		Splits:   []Participant{{Name: "Bob", IsPaying: true}},
	}
}

func TestServiceCreateAndGet(t *testing.T) {
	svc := NewService(newStubStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", pizzaRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if got := created.Total(); got != 24.00 {
		t.Errorf("Total() = %v, want 24.00", got)
	}

	got, err := svc.Get(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Merchant != "Luigi's" {
		t.Errorf("Get() merchant = %q, want Luigi's", got.Merchant)
	}
}

func TestServiceCreateRejectsInvalid(t *testing.T) {
	svc := NewService(newStubStore())

	req := pizzaRequest()
	req.Splits = append(req.Splits, Participant{Name: "Me", IsPaying: true})

	if _, err := svc.Create(context.Background(), "user-1", req); !errors.Is(err, ErrReservedParticipant) {
		t.Errorf("Create() error = %v, want %v", err, ErrReservedParticipant)
	}
}

func TestServiceOwnerScoping(t *testing.T) {
	svc := NewService(newStubStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", pizzaRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Get(ctx, "user-2", created.ID); !errors.Is(err, ErrReceiptNotFound) {
		t.Errorf("Get() as other user error = %v, want %v", err, ErrReceiptNotFound)
	}
	if err := svc.Delete(ctx, "user-2", created.ID); !errors.Is(err, ErrReceiptNotFound) {
		t.Errorf("Delete() as other user error = %v, want %v", err, ErrReceiptNotFound)
	}
	if _, err := svc.Get(ctx, "user-1", created.ID); err != nil {
		t.Errorf("Get() as owner error = %v", err)
	}
}

func TestServiceUpdateReplacesCollectionsWholesale(t *testing.T) {
	svc := NewService(newStubStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", pizzaRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newItems := []LineItem{
		{Name: "Calzone", Quantity: 2, UnitPrice: 11.00},
	}
	newSplits := []Participant{
		{Name: "Ana", IsPaying: true},
		{Name: "Ben", IsPaying: false},
	}
	mode := "advanced"
	updated, err := svc.Update(ctx, "user-1", created.ID, &UpdateReceiptRequest{
		LineItems: &newItems,
		Splits:    &newSplits,
		SplitMode: &mode,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(updated.LineItems) != 1 || updated.LineItems[0].Name != "Calzone" {
		t.Errorf("line items = %+v, want wholesale replacement with Calzone", updated.LineItems)
	}
	if len(updated.Splits) != 2 {
		t.Errorf("splits = %+v, want wholesale replacement with Ana and Ben", updated.Splits)
	}
	if updated.Merchant != "Luigi's" {
		t.Errorf("merchant = %q, want untouched Luigi's", updated.Merchant)
	}
	// 22 line items + 10% tax + 2 tip
	if got := updated.Total(); got != 26.20 {
		t.Errorf("Total() after update = %v, want 26.20", got)
	}
}

func TestServiceSplit(t *testing.T) {
	svc := NewService(newStubStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", pizzaRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	result, err := svc.Split(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if result.Mode != "simple" {
		t.Errorf("mode = %q, want simple (default)", result.Mode)
	}
	if result.Total != 24.00 {
		t.Errorf("total = %v, want 24.00", result.Total)
	}
	// Owner plus the one stored participant.
	if len(result.Shares) != 2 {
		t.Fatalf("got %d shares, want 2", len(result.Shares))
	}
	if result.Shares[0].Name != "Me" {
		t.Errorf("first share = %q, want the injected owner", result.Shares[0].Name)
	}
	for _, share := range result.Shares {
		if share.Breakdown.Total != 12.00 {
			t.Errorf("%s total = %v, want 12.00", share.Name, share.Breakdown.Total)
		}
	}
}

func TestServiceDeleteAll(t *testing.T) {
	svc := NewService(newStubStore())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, "user-1", pizzaRequest()); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if _, err := svc.Create(ctx, "user-2", pizzaRequest()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	n, err := svc.DeleteAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if n != 3 {
		t.Errorf("DeleteAll() = %d, want 3", n)
	}

	left, err := svc.List(ctx, "user-2", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(left) != 1 {
		t.Errorf("other user has %d receipts, want 1 untouched", len(left))
	}
}
