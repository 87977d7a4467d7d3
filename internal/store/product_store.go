package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/swapmarket/swapmarket-backend/internal/model"
)

var ErrNotFound = errors.New("not found")

// ProductStore holds the catalog. All operations rewrite the whole
// collection; identifiers are assigned as one greater than the current
// maximum.
type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint64) (*model.Product, error)
	Add(ctx context.Context, p model.Product) ([]model.Product, error)
	Update(ctx context.Context, p model.Product) ([]model.Product, error)
	Remove(ctx context.Context, id uint64) ([]model.Product, error)
}

type productStore struct {
	coll *Collections
	log  *slog.Logger
}

func NewProductStore(coll *Collections, log *slog.Logger) ProductStore {
	if log == nil {
		log = slog.Default()
	}
	return &productStore{coll: coll, log: log}
}

// List returns all listings, seeding the default catalog on first use.
func (s *productStore) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := s.coll.load(ctx, collProducts, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = DefaultCatalog()
		if err := s.coll.save(ctx, collProducts, products); err != nil {
			return nil, err
		}
		s.log.Info("seeded default catalog", "count", len(products))
	}
	return products, nil
}

func (s *productStore) FindByID(ctx context.Context, id uint64) (*model.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrNotFound
}

// Add assigns the next identifier and a zero rating, prepends the listing,
// and returns the full updated catalog.
func (s *productStore) Add(ctx context.Context, p model.Product) ([]model.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var maxID uint64
	for i := range products {
		if products[i].ID > maxID {
			maxID = products[i].ID
		}
	}
	p.ID = maxID + 1
	p.Rating = 0
	products = append([]model.Product{p}, products...)
	if err := s.coll.save(ctx, collProducts, products); err != nil {
		return nil, err
	}
	return products, nil
}

// Update replaces the entry matching the identifier; no-op when absent.
func (s *productStore) Update(ctx context.Context, p model.Product) ([]model.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = p
			if err := s.coll.save(ctx, collProducts, products); err != nil {
				return nil, err
			}
			break
		}
	}
	return products, nil
}

func (s *productStore) Remove(ctx context.Context, id uint64) ([]model.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if err := s.coll.save(ctx, collProducts, kept); err != nil {
		return nil, err
	}
	return kept, nil
}
