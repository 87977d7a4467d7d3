package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/swapmarket/swapmarket-backend/internal/logger"
	"github.com/swapmarket/swapmarket-backend/internal/model"
	"github.com/swapmarket/swapmarket-backend/internal/store"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

type SortOption string

const (
	SortFeatured  SortOption = "featured"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortRating    SortOption = "rating"
	SortName      SortOption = "name"
)

// CatalogQuery selects and orders listings. A non-empty Query bypasses the
// listing-type partition entirely; search results are shown unfiltered by
// type.
type CatalogQuery struct {
	Query       string
	ListingType model.ListingType
	MinRating   float64
	Sort        SortOption
}

// CatalogSearcher resolves a free-text query to product identifiers. The
// generative collaborator implements it; failures must degrade to an empty
// set.
type CatalogSearcher interface {
	SearchCatalog(ctx context.Context, query string, catalog []model.Product) ([]uint64, error)
}

type CatalogService interface {
	Browse(ctx context.Context, q CatalogQuery) ([]model.Product, error)
	Get(ctx context.Context, id uint64) (*model.Product, error)
	Create(ctx context.Context, input CreateProductInput, lister *model.Lister) (*model.Product, error)
	Update(ctx context.Context, p model.Product, actor model.User) (*model.Product, error)
	ListMine(ctx context.Context, email string) ([]model.Product, error)
}

type CreateProductInput struct {
	Name            string
	Price           float64
	Category        string
	Description     string
	Image           string
	Images          []string
	ListingType     model.ListingType
	SwapPreferences string
}

type catalogService struct {
	products store.ProductStore
	searcher CatalogSearcher
	log      *slog.Logger
}

func NewCatalogService(products store.ProductStore, searcher CatalogSearcher, log *slog.Logger) CatalogService {
	if log == nil {
		log = slog.Default()
	}
	return &catalogService{products: products, searcher: searcher, log: log}
}

func (s *catalogService) Browse(ctx context.Context, q CatalogQuery) ([]model.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	if query := strings.TrimSpace(q.Query); query != "" {
		products = s.search(ctx, query, products)
	} else if q.ListingType != "" {
		filtered := make([]model.Product, 0, len(products))
		for _, p := range products {
			if p.ListingType.Normalize() == q.ListingType.Normalize() {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	if q.MinRating > 0 {
		filtered := make([]model.Product, 0, len(products))
		for _, p := range products {
			if p.Rating >= q.MinRating {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	sortProducts(products, q.Sort)
	return products, nil
}

// search tries a local substring match first and delegates to the
// collaborator only when the local result is empty or matches the whole
// catalog (treated as not meaningfully filtering). Collaborator failure
// degrades to an empty result set.
func (s *catalogService) search(ctx context.Context, query string, catalog []model.Product) []model.Product {
	lower := strings.ToLower(query)
	var local []model.Product
	for _, p := range catalog {
		if strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(strings.ToLower(p.Category), lower) ||
			strings.Contains(strings.ToLower(p.Description), lower) {
			local = append(local, p)
		}
	}
	if len(local) > 0 && len(local) < len(catalog) {
		return local
	}

	if s.searcher == nil {
		return nil
	}
	ids, err := s.searcher.SearchCatalog(ctx, query, catalog)
	if err != nil {
		logger.WithContext(ctx, s.log).Warn("ai search failed", "query", query, "err", err)
		return nil
	}
	if len(ids) == 0 {
		return nil
	}
	wanted := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var matched []model.Product
	for _, p := range catalog {
		if _, ok := wanted[p.ID]; ok {
			matched = append(matched, p)
		}
	}
	return matched
}

func sortProducts(products []model.Product, opt SortOption) {
	switch opt {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	case SortName:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	default:
		// featured keeps the stored order
	}
}

func (s *catalogService) Get(ctx context.Context, id uint64) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *catalogService) Create(ctx context.Context, input CreateProductInput, lister *model.Lister) (*model.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	input.Description = strings.TrimSpace(input.Description)
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	if input.Category == "" {
		return nil, errors.New("category is required")
	}
	if input.Description == "" {
		return nil, errors.New("description is required")
	}
	listingType := input.ListingType.Normalize()
	if listingType == model.ListingSale && input.Price <= 0 {
		return nil, errors.New("price must be greater than zero for a sale listing")
	}
	if listingType == model.ListingSwap {
		// Price is meaningless for barter listings.
		input.Price = 0
	}
	images := input.Images
	if len(images) == 0 && input.Image != "" {
		images = []string{input.Image}
	}
	if len(images) == 0 {
		return nil, errors.New("at least one image is required")
	}

	p := model.Product{
		Name:            input.Name,
		Price:           input.Price,
		Category:        input.Category,
		Description:     input.Description,
		Image:           images[0],
		Images:          images,
		ListingType:     listingType,
		SwapPreferences: input.SwapPreferences,
		AddedBy:         lister,
	}
	updated, err := s.products.Add(ctx, p)
	if err != nil {
		return nil, err
	}
	return &updated[0], nil
}

func (s *catalogService) Update(ctx context.Context, p model.Product, actor model.User) (*model.Product, error) {
	existing, err := s.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin && !existing.OwnedBy(actor.Email) {
		return nil, fmt.Errorf("%w: only the lister or an admin can edit a listing", ErrForbidden)
	}
	// Listing type is fixed at creation, and the lister identity and derived
	// rating are not editable through this path.
	p.ListingType = existing.ListingType
	p.AddedBy = existing.AddedBy
	p.Rating = existing.Rating
	if p.ListingType.Normalize() == model.ListingSale && p.Price <= 0 {
		return nil, errors.New("price must be greater than zero for a sale listing")
	}
	if _, err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *catalogService) ListMine(ctx context.Context, email string) ([]model.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	var mine []model.Product
	for _, p := range products {
		if p.OwnedBy(email) {
			mine = append(mine, p)
		}
	}
	return mine, nil
}
