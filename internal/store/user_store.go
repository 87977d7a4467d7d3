package store

import (
	"context"
	"strings"

	"github.com/swapmarket/swapmarket-backend/internal/model"
)

// UserStore persists registered accounts keyed by lower-cased email.
type UserStore interface {
	All(ctx context.Context) (map[string]model.Account, error)
	Find(ctx context.Context, email string) (*model.Account, error)
	Save(ctx context.Context, account model.Account) error
}

type userStore struct {
	coll *Collections
}

func NewUserStore(coll *Collections) UserStore {
	return &userStore{coll: coll}
}

func (s *userStore) All(ctx context.Context) (map[string]model.Account, error) {
	users := map[string]model.Account{}
	if err := s.coll.load(ctx, collUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userStore) Find(ctx context.Context, email string) (*model.Account, error) {
	users, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	account, ok := users[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (s *userStore) Save(ctx context.Context, account model.Account) error {
	users, err := s.All(ctx)
	if err != nil {
		return err
	}
	users[strings.ToLower(account.Email)] = account
	return s.coll.save(ctx, collUsers, users)
}
