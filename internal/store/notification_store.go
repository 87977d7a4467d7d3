package store

import (
	"context"

	"github.com/swapmarket/swapmarket-backend/internal/model"
)

// NotificationStore holds per-user inbox entries. No deletion, no pagination.
type NotificationStore interface {
	Add(ctx context.Context, n model.Notification) error
	AllFor(ctx context.Context, email string) ([]model.Notification, error)
	CountUnread(ctx context.Context, email string) (int, error)
	// MarkAllRead flips the read flag only for entries addressed to the
	// given recipient.
	MarkAllRead(ctx context.Context, email string) error
}

type notificationStore struct {
	coll *Collections
}

func NewNotificationStore(coll *Collections) NotificationStore {
	return &notificationStore{coll: coll}
}

func (s *notificationStore) all(ctx context.Context) ([]model.Notification, error) {
	var list []model.Notification
	if err := s.coll.load(ctx, collNotifications, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *notificationStore) Add(ctx context.Context, n model.Notification) error {
	list, err := s.all(ctx)
	if err != nil {
		return err
	}
	list = append([]model.Notification{n}, list...)
	return s.coll.save(ctx, collNotifications, list)
}

func (s *notificationStore) AllFor(ctx context.Context, email string) ([]model.Notification, error) {
	list, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	var mine []model.Notification
	for _, n := range list {
		if n.UserEmail == email {
			mine = append(mine, n)
		}
	}
	return mine, nil
}

func (s *notificationStore) CountUnread(ctx context.Context, email string) (int, error) {
	mine, err := s.AllFor(ctx, email)
	if err != nil {
		return 0, err
	}
	var count int
	for _, n := range mine {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *notificationStore) MarkAllRead(ctx context.Context, email string) error {
	list, err := s.all(ctx)
	if err != nil {
		return err
	}
	changed := false
	for i := range list {
		if list[i].UserEmail == email && !list[i].Read {
			list[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.coll.save(ctx, collNotifications, list)
}
