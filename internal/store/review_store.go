package store

import (
	"context"
	"time"

	"github.com/swapmarket/swapmarket-backend/internal/model"
)

// ReviewStore holds append-only reviews, newest first, seeding a handful of
// defaults on first use.
type ReviewStore interface {
	All(ctx context.Context) ([]model.Review, error)
	ForProduct(ctx context.Context, productID uint64) ([]model.Review, error)
	Add(ctx context.Context, r model.Review) ([]model.Review, error)
}

type reviewStore struct {
	coll *Collections
	now  func() time.Time
}

func NewReviewStore(coll *Collections) ReviewStore {
	return &reviewStore{coll: coll, now: time.Now}
}

func (s *reviewStore) All(ctx context.Context) ([]model.Review, error) {
	var reviews []model.Review
	if err := s.coll.load(ctx, collReviews, &reviews); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = DefaultReviews(s.now())
		if err := s.coll.save(ctx, collReviews, reviews); err != nil {
			return nil, err
		}
	}
	return reviews, nil
}

func (s *reviewStore) ForProduct(ctx context.Context, productID uint64) ([]model.Review, error) {
	reviews, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var matched []model.Review
	for _, r := range reviews {
		if r.ProductID == productID {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (s *reviewStore) Add(ctx context.Context, r model.Review) ([]model.Review, error) {
	reviews, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	reviews = append([]model.Review{r}, reviews...)
	if err := s.coll.save(ctx, collReviews, reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
