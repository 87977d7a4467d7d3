package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/swapmarket/swapmarket-backend/internal/model"
	"github.com/swapmarket/swapmarket-backend/internal/store"
)

type ReviewService interface {
	ListFor(ctx context.Context, productID uint64) ([]model.Review, error)
	// Add appends a review and recomputes the product's rating. It returns
	// the review and the new rating.
	Add(ctx context.Context, productID uint64, rating int, comment string, reviewer *model.User) (*model.Review, float64, error)
}

type reviewService struct {
	reviews  store.ReviewStore
	products store.ProductStore
	now      func() time.Time
	newID    func() string
}

func NewReviewService(reviews store.ReviewStore, products store.ProductStore) ReviewService {
	return &reviewService{
		reviews:  reviews,
		products: products,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *reviewService) ListFor(ctx context.Context, productID uint64) ([]model.Review, error) {
	return s.reviews.ForProduct(ctx, productID)
}

func (s *reviewService) Add(ctx context.Context, productID uint64, rating int, comment string, reviewer *model.User) (*model.Review, float64, error) {
	if rating < 1 || rating > 5 {
		return nil, 0, errors.New("rating must be between 1 and 5")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	review := model.Review{
		ID:        s.newID(),
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
		Date:      s.now(),
	}
	if reviewer != nil {
		review.UserName = reviewer.Name
		review.UserAvatar = reviewer.Avatar
	} else {
		review.UserName = "Guest User"
		review.UserAvatar = avatarFor(review.ID)
	}

	if _, err := s.reviews.Add(ctx, review); err != nil {
		return nil, 0, err
	}

	productReviews, err := s.reviews.ForProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	ratings := make([]int, 0, len(productReviews))
	for _, r := range productReviews {
		ratings = append(ratings, r.Rating)
	}
	newRating := AverageRating(ratings)

	product.Rating = newRating
	if _, err := s.products.Update(ctx, *product); err != nil {
		return nil, 0, err
	}
	return &review, newRating, nil
}

// AverageRating is the arithmetic mean rounded to one decimal place, with 0
// defined for an empty set.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int
	for _, r := range ratings {
		sum += r
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}
