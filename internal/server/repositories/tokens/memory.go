package tokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/pantrykeeper/internal/common"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository is a map-backed Repository used by the non-DB deployment
// variant and by tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byToken map[string]*models.AccessToken
}

// NewMemoryRepository constructs an empty in-memory token store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byToken: make(map[string]*models.AccessToken)}
}

func (r *MemoryRepository) Create(ctx context.Context, userID string, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byToken[token] = &models.AccessToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *MemoryRepository) Find(ctx context.Context, token string) (*models.AccessToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accessToken, ok := r.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	result := *accessToken
	return &result, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, token string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byToken[token]; !ok {
		return 0, nil
	}
	delete(r.byToken, token)
	return 1, nil
}

func (r *MemoryRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for token, accessToken := range r.byToken {
		if accessToken.UserID == userID {
			delete(r.byToken, token)
			n++
		}
	}
	return n, nil
}
