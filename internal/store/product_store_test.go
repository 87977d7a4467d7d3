package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapmarket/swapmarket-backend/internal/logger"
	"github.com/swapmarket/swapmarket-backend/internal/model"
)

func setupCollections(t *testing.T) (*Collections, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	log := logger.NewWithWriter("test", "error", testWriter{t})
	return NewCollections(client, log), mr
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestProductStore_List_SeedsOnEmpty(t *testing.T) {
	coll, mr := setupCollections(t)
	s := NewProductStore(coll, nil)

	products, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, len(DefaultCatalog()))

	// Seed must have been persisted.
	stored, err := mr.Get("swapmarket:v1:products")
	require.NoError(t, err)
	var persisted []model.Product
	require.NoError(t, json.Unmarshal([]byte(stored), &persisted))
	assert.Equal(t, products, persisted)
}

func TestProductStore_Add_AssignsNextIDAndPrepends(t *testing.T) {
	coll, _ := setupCollections(t)
	s := NewProductStore(coll, nil)
	ctx := context.Background()

	seeded, err := s.List(ctx)
	require.NoError(t, err)
	var maxID uint64
	for _, p := range seeded {
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	updated, err := s.Add(ctx, model.Product{
		Name:        "Mechanical Keyboard",
		Price:       129.99,
		Category:    "Electronics",
		Description: "Hot-swappable switches.",
		Rating:      4.2, // must be reset to 0
	})
	require.NoError(t, err)
	require.Len(t, updated, len(seeded)+1)
	assert.Equal(t, maxID+1, updated[0].ID)
	assert.Equal(t, "Mechanical Keyboard", updated[0].Name)
	assert.Zero(t, updated[0].Rating)
}

func TestProductStore_Add_EmptyCatalogStartsAtOne(t *testing.T) {
	coll, _ := setupCollections(t)
	s := NewProductStore(coll, nil)
	ctx := context.Background()

	// Write an explicitly empty (but present) collection so seeding is skipped.
	require.NoError(t, coll.save(ctx, collProducts, []model.Product{}))

	updated, err := s.Add(ctx, model.Product{Name: "First"})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, uint64(1), updated[0].ID)
}

func TestProductStore_Update_ReplacesMatchingEntry(t *testing.T) {
	coll, _ := setupCollections(t)
	s := NewProductStore(coll, nil)
	ctx := context.Background()

	products, err := s.List(ctx)
	require.NoError(t, err)
	target := products[0]
	target.Name = "Renamed"

	updated, err := s.Update(ctx, target)
	require.NoError(t, err)
	found, err := s.FindByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Name)
	assert.Len(t, updated, len(products))
}

func TestProductStore_Update_UnknownIDIsNoop(t *testing.T) {
	coll, _ := setupCollections(t)
	s := NewProductStore(coll, nil)
	ctx := context.Background()

	products, err := s.List(ctx)
	require.NoError(t, err)

	updated, err := s.Update(ctx, model.Product{ID: 99999, Name: "Ghost"})
	require.NoError(t, err)
	assert.Equal(t, products, updated)
}

func TestProductStore_Remove_FiltersEntry(t *testing.T) {
	coll, _ := setupCollections(t)
	s := NewProductStore(coll, nil)
	ctx := context.Background()

	products, err := s.List(ctx)
	require.NoError(t, err)
	removedID := products[0].ID

	updated, err := s.Remove(ctx, removedID)
	require.NoError(t, err)
	assert.Len(t, updated, len(products)-1)

	_, err = s.FindByID(ctx, removedID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollections_CorruptValueFallsBackToEmpty(t *testing.T) {
	coll, mr := setupCollections(t)
	require.NoError(t, mr.Set("swapmarket:v1:purchases", "{not json"))

	s := NewPurchaseStore(coll)
	purchases, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, purchases)
}
