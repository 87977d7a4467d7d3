package store

import (
	"context"

	"github.com/swapmarket/swapmarket-backend/internal/model"
)

// PurchaseStore holds append-only order records, newest first.
type PurchaseStore interface {
	All(ctx context.Context) ([]model.Purchase, error)
	ListFor(ctx context.Context, email string) ([]model.Purchase, error)
	Add(ctx context.Context, p model.Purchase) error
}

type purchaseStore struct {
	coll *Collections
}

func NewPurchaseStore(coll *Collections) PurchaseStore {
	return &purchaseStore{coll: coll}
}

func (s *purchaseStore) All(ctx context.Context) ([]model.Purchase, error) {
	var purchases []model.Purchase
	if err := s.coll.load(ctx, collPurchases, &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

func (s *purchaseStore) ListFor(ctx context.Context, email string) ([]model.Purchase, error) {
	purchases, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var mine []model.Purchase
	for _, p := range purchases {
		if p.UserEmail == email {
			mine = append(mine, p)
		}
	}
	return mine, nil
}

func (s *purchaseStore) Add(ctx context.Context, p model.Purchase) error {
	purchases, err := s.All(ctx)
	if err != nil {
		return err
	}
	purchases = append([]model.Purchase{p}, purchases...)
	return s.coll.save(ctx, collPurchases, purchases)
}
