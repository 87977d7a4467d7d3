package store

import (
	"context"
)

// WishlistStore persists per-user wishlists as sets of product ids, keyed by
// email. Wishlists survive across sessions.
type WishlistStore interface {
	For(ctx context.Context, email string) ([]uint64, error)
	// Toggle adds the product when absent and removes it when present,
	// reporting whether it ended up in the list.
	Toggle(ctx context.Context, email string, productID uint64) (bool, error)
	Remove(ctx context.Context, email string, productID uint64) error
	// RemoveProduct drops the product from every user's wishlist. Used when
	// a listing is deleted.
	RemoveProduct(ctx context.Context, productID uint64) error
}

type wishlistStore struct {
	coll *Collections
}

func NewWishlistStore(coll *Collections) WishlistStore {
	return &wishlistStore{coll: coll}
}

func (s *wishlistStore) load(ctx context.Context) (map[string][]uint64, error) {
	lists := map[string][]uint64{}
	if err := s.coll.load(ctx, collWishlist, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (s *wishlistStore) For(ctx context.Context, email string) ([]uint64, error) {
	lists, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return lists[email], nil
}

func (s *wishlistStore) Toggle(ctx context.Context, email string, productID uint64) (bool, error) {
	lists, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	ids := lists[email]
	for i, id := range ids {
		if id == productID {
			lists[email] = append(ids[:i], ids[i+1:]...)
			return false, s.coll.save(ctx, collWishlist, lists)
		}
	}
	lists[email] = append(ids, productID)
	return true, s.coll.save(ctx, collWishlist, lists)
}

func (s *wishlistStore) Remove(ctx context.Context, email string, productID uint64) error {
	lists, err := s.load(ctx)
	if err != nil {
		return err
	}
	ids := lists[email]
	for i, id := range ids {
		if id == productID {
			lists[email] = append(ids[:i], ids[i+1:]...)
			return s.coll.save(ctx, collWishlist, lists)
		}
	}
	return nil
}

func (s *wishlistStore) RemoveProduct(ctx context.Context, productID uint64) error {
	lists, err := s.load(ctx)
	if err != nil {
		return err
	}
	changed := false
	for email, ids := range lists {
		kept := ids[:0]
		for _, id := range ids {
			if id != productID {
				kept = append(kept, id)
			}
		}
		if len(kept) != len(ids) {
			lists[email] = kept
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.coll.save(ctx, collWishlist, lists)
}
