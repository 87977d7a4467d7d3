package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapmarket/swapmarket-backend/internal/model"
)

func sampleNotification(id, email string) model.Notification {
	return model.Notification{
		ID:        id,
		UserEmail: email,
		Type:      model.NotificationSwapProposal,
		Title:     "New Swap Proposal",
		Message:   "Someone wants to trade",
		Date:      time.Now().UTC(),
		Swap: &model.SwapProposal{
			ProposerEmail:  "proposer@gmail.com",
			OfferedItemIDs: []uint64{21, 22},
			TargetItemID:   13,
			Note:           "interested?",
		},
	}
}

func TestNotificationStore_AllFor_FiltersByRecipient(t *testing.T) {
	coll, _ := setupCollections(t)
	s := NewNotificationStore(coll)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, sampleNotification("n1", "a@gmail.com")))
	require.NoError(t, s.Add(ctx, sampleNotification("n2", "b@gmail.com")))
	require.NoError(t, s.Add(ctx, sampleNotification("n3", "a@gmail.com")))

	mine, err := s.AllFor(ctx, "a@gmail.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// Prepend order: newest first.
	assert.Equal(t, "n3", mine[0].ID)
	assert.Equal(t, "n1", mine[1].ID)
	require.NotNil(t, mine[0].Swap)
	assert.Equal(t, uint64(13), mine[0].Swap.TargetItemID)
}

func TestNotificationStore_MarkAllRead_ScopedToRecipient(t *testing.T) {
	coll, _ := setupCollections(t)
	s := NewNotificationStore(coll)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, sampleNotification("n1", "a@gmail.com")))
	require.NoError(t, s.Add(ctx, sampleNotification("n2", "b@gmail.com")))

	require.NoError(t, s.MarkAllRead(ctx, "a@gmail.com"))

	aList, err := s.AllFor(ctx, "a@gmail.com")
	require.NoError(t, err)
	assert.True(t, aList[0].Read)

	bList, err := s.AllFor(ctx, "b@gmail.com")
	require.NoError(t, err)
	assert.False(t, bList[0].Read)

	unread, err := s.CountUnread(ctx, "b@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}
