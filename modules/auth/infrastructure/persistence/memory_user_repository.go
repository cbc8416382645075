package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ZSuraj/abcd-sub000/modules/auth/domain/user"
)

type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]user.User
	byEmail map[string]uuid.UUID
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    map[uuid.UUID]user.User{},
		byEmail: map[string]uuid.UUID{},
	}
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return user.User{}, errors.Wrapf(user.ErrNotFound, "user %s", id)
	}
	return u, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[user.NormalizeEmail(email)]
	r.mu.RUnlock()
	if !ok {
		return user.User{}, errors.Wrapf(user.ErrNotFound, "user %s", email)
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryUserRepository) Create(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Email = user.NormalizeEmail(u.Email)
	if _, ok := r.byEmail[u.Email]; ok {
		return errors.Wrapf(user.ErrDuplicate, "user %s", u.Email)
	}
	if _, ok := r.byID[u.ID]; ok {
		return errors.Wrapf(user.ErrDuplicate, "user %s", u.ID)
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *MemoryUserRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}
