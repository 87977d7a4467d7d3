package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapmarket/swapmarket-backend/internal/model"
	"github.com/swapmarket/swapmarket-backend/internal/store"
)

type fakeSearcher struct {
	ids    []uint64
	err    error
	called bool
	query  string
}

func (f *fakeSearcher) SearchCatalog(_ context.Context, query string, _ []model.Product) ([]uint64, error) {
	f.called = true
	f.query = query
	return f.ids, f.err
}

func newProductStore(t *testing.T) store.ProductStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return store.NewProductStore(store.NewCollections(client, nil), nil)
}

func TestBrowse_PartitionsByListingType(t *testing.T) {
	products := newProductStore(t)
	svc := NewCatalogService(products, nil, nil)
	ctx := context.Background()

	sale, err := svc.Browse(ctx, CatalogQuery{ListingType: model.ListingSale})
	require.NoError(t, err)
	swap, err := svc.Browse(ctx, CatalogQuery{ListingType: model.ListingSwap})
	require.NoError(t, err)

	all, err := products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sale, len(all)-len(swap))
	for _, p := range sale {
		assert.Equal(t, model.ListingSale, p.ListingType.Normalize())
	}
	for _, p := range swap {
		assert.Equal(t, model.ListingSwap, p.ListingType)
	}
}

func TestBrowse_MissingListingTypeCountsAsSale(t *testing.T) {
	products := newProductStore(t)
	svc := NewCatalogService(products, nil, nil)
	ctx := context.Background()

	_, err := products.Add(ctx, model.Product{Name: "Untyped", Price: 5, Category: "Misc", Description: "no type", Image: "x", Images: []string{"x"}})
	require.NoError(t, err)

	sale, err := svc.Browse(ctx, CatalogQuery{ListingType: model.ListingSale})
	require.NoError(t, err)
	var found bool
	for _, p := range sale {
		if p.Name == "Untyped" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBrowse_LocalSearchSkipsCollaborator(t *testing.T) {
	products := newProductStore(t)
	searcher := &fakeSearcher{}
	svc := NewCatalogService(products, searcher, nil)

	results, err := svc.Browse(context.Background(), CatalogQuery{Query: "headphones"})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.False(t, searcher.called)
}

func TestBrowse_SearchIgnoresListingTypePartition(t *testing.T) {
	products := newProductStore(t)
	svc := NewCatalogService(products, nil, nil)

	// "camera" matches both a sale listing and a swap listing in the seed
	// catalog; an active search shows both.
	results, err := svc.Browse(context.Background(), CatalogQuery{Query: "camera", ListingType: model.ListingSale})
	require.NoError(t, err)
	types := map[model.ListingType]bool{}
	for _, p := range results {
		types[p.ListingType.Normalize()] = true
	}
	assert.True(t, types[model.ListingSale])
	assert.True(t, types[model.ListingSwap])
}

func TestBrowse_NoLocalMatchDelegatesToCollaborator(t *testing.T) {
	products := newProductStore(t)
	searcher := &fakeSearcher{ids: []uint64{1, 3}}
	svc := NewCatalogService(products, searcher, nil)

	results, err := svc.Browse(context.Background(), CatalogQuery{Query: "timepiece"})
	require.NoError(t, err)
	assert.True(t, searcher.called)
	require.Len(t, results, 2)
	ids := []uint64{results[0].ID, results[1].ID}
	assert.ElementsMatch(t, []uint64{1, 3}, ids)
}

func TestBrowse_CollaboratorFailureDegradesToEmpty(t *testing.T) {
	products := newProductStore(t)
	searcher := &fakeSearcher{err: errors.New("model overloaded")}
	svc := NewCatalogService(products, searcher, nil)

	results, err := svc.Browse(context.Background(), CatalogQuery{Query: "timepiece"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBrowse_MinRatingAndSort(t *testing.T) {
	products := newProductStore(t)
	svc := NewCatalogService(products, nil, nil)

	results, err := svc.Browse(context.Background(), CatalogQuery{
		ListingType: model.ListingSale,
		MinRating:   4.7,
		Sort:        SortPriceAsc,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for i, p := range results {
		assert.GreaterOrEqual(t, p.Rating, 4.7)
		if i > 0 {
			assert.LessOrEqual(t, results[i-1].Price, p.Price)
		}
	}
}

func TestCreate_ValidatesSalePrice(t *testing.T) {
	products := newProductStore(t)
	svc := NewCatalogService(products, nil, nil)

	_, err := svc.Create(context.Background(), CreateProductInput{
		Name:        "Freebie",
		Category:    "Misc",
		Description: "zero priced",
		Image:       "img",
		ListingType: model.ListingSale,
	}, nil)
	require.Error(t, err)
}

func TestCreate_SwapListingZeroesPrice(t *testing.T) {
	products := newProductStore(t)
	svc := NewCatalogService(products, nil, nil)

	p, err := svc.Create(context.Background(), CreateProductInput{
		Name:            "Trade Me",
		Price:           50,
		Category:        "Misc",
		Description:     "barter only",
		Image:           "img",
		ListingType:     model.ListingSwap,
		SwapPreferences: "books",
	}, &model.Lister{Name: "L", Email: "l@gmail.com"})
	require.NoError(t, err)
	assert.Zero(t, p.Price)
	assert.Zero(t, p.Rating)
	require.NotNil(t, p.AddedBy)
}

func TestUpdate_ListingTypeIsImmutable(t *testing.T) {
	products := newProductStore(t)
	svc := NewCatalogService(products, nil, nil)
	ctx := context.Background()
	owner := model.User{Name: "L", Email: "l@gmail.com", Role: model.RoleUser}

	p, err := svc.Create(ctx, CreateProductInput{
		Name: "Chair", Price: 10, Category: "Home", Description: "d", Image: "img",
		ListingType: model.ListingSale,
	}, &model.Lister{Name: owner.Name, Email: owner.Email})
	require.NoError(t, err)

	edited := *p
	edited.ListingType = model.ListingSwap
	edited.Price = 12
	updated, err := svc.Update(ctx, edited, owner)
	require.NoError(t, err)
	assert.Equal(t, model.ListingSale, updated.ListingType)
	assert.Equal(t, 12.0, updated.Price)
}

func TestUpdate_RejectsNonOwner(t *testing.T) {
	products := newProductStore(t)
	svc := NewCatalogService(products, nil, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductInput{
		Name: "Chair", Price: 10, Category: "Home", Description: "d", Image: "img",
	}, &model.Lister{Name: "L", Email: "l@gmail.com"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, *p, model.User{Email: "intruder@gmail.com", Role: model.RoleUser})
	require.Error(t, err)

	_, err = svc.Update(ctx, *p, model.User{Email: "boss@swapify.com", Role: model.RoleAdmin})
	require.NoError(t, err)
}
