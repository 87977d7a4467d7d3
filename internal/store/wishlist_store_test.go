package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapmarket/swapmarket-backend/internal/model"
)

func sampleAccount(name, email string) model.Account {
	return model.Account{
		User: model.User{
			Name:   name,
			Email:  email,
			Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=" + name,
			Role:   model.RoleUser,
		},
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
}

func TestWishlistStore_ToggleAddsAndRemoves(t *testing.T) {
	coll, _ := setupCollections(t)
	s := NewWishlistStore(coll)
	ctx := context.Background()

	added, err := s.Toggle(ctx, "a@gmail.com", 3)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Toggle(ctx, "a@gmail.com", 5)
	require.NoError(t, err)
	assert.True(t, added)

	ids, err := s.For(ctx, "a@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 5}, ids)

	added, err = s.Toggle(ctx, "a@gmail.com", 3)
	require.NoError(t, err)
	assert.False(t, added)

	ids, err = s.For(ctx, "a@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, []uint64{5}, ids)
}

func TestWishlistStore_RemoveProduct_AffectsEveryUser(t *testing.T) {
	coll, _ := setupCollections(t)
	s := NewWishlistStore(coll)
	ctx := context.Background()

	_, err := s.Toggle(ctx, "a@gmail.com", 7)
	require.NoError(t, err)
	_, err = s.Toggle(ctx, "b@gmail.com", 7)
	require.NoError(t, err)
	_, err = s.Toggle(ctx, "b@gmail.com", 9)
	require.NoError(t, err)

	require.NoError(t, s.RemoveProduct(ctx, 7))

	aIDs, err := s.For(ctx, "a@gmail.com")
	require.NoError(t, err)
	assert.Empty(t, aIDs)

	bIDs, err := s.For(ctx, "b@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, []uint64{9}, bIDs)
}

func TestUserStore_SaveAndFind_CaseInsensitiveEmail(t *testing.T) {
	coll, _ := setupCollections(t)
	s := NewUserStore(coll)
	ctx := context.Background()

	account := sampleAccount("Jamie", "Jamie@Gmail.com")
	require.NoError(t, s.Save(ctx, account))

	found, err := s.Find(ctx, "jamie@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "Jamie", found.Name)

	_, err = s.Find(ctx, "nobody@gmail.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
