package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/pantrykeeper/internal/common"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository is a map-backed Repository used by the non-DB deployment
// variant and by tests. It mirrors the PostgreSQL contract, including the
// email/name uniqueness conflicts.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.User
}

// NewMemoryRepository constructs an empty in-memory user store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == user.Email || existing.Name == user.Name {
			return nil, common.ErrorAlreadyExists
		}
	}

	stored := *user
	stored.ID = uuid.NewString()
	r.byID[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byID {
		if user.Email == email {
			result := *user
			return &result, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	result := *user
	return &result, nil
}

func (r *MemoryRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byID {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) NameTaken(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byID {
		if user.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	for id, existing := range r.byID {
		if id == user.ID {
			continue
		}
		if existing.Email == user.Email || existing.Name == user.Name {
			return nil, common.ErrorAlreadyExists
		}
	}

	stored := *user
	r.byID[user.ID] = &stored

	result := stored
	return &result, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return 0, nil
	}
	delete(r.byID, id)
	return 1, nil
}
