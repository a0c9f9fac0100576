package products

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/pantrykeeper/internal/common"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
)

// MemoryRepository is a map-backed Repository used by the non-DB deployment
// variant and by tests. It enforces the same per-owner EAN uniqueness the
// PostgreSQL partial index does.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.Product
}

// NewMemoryRepository constructs an empty in-memory product store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.Product)}
}

func (r *MemoryRepository) List(ctx context.Context, userID string) ([]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Product
	for _, product := range r.byID {
		if product.UserID == userID {
			result = append(result, copyProduct(product))
		}
	}
	slices.SortFunc(result, func(a, b *models.Product) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string, userID string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.byID[id]
	if !ok || product.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return copyProduct(product), nil
}

func (r *MemoryRepository) FindByEAN(ctx context.Context, userID string, ean string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, product := range r.byID {
		if product.UserID == userID && product.EAN == ean {
			return copyProduct(product), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.EAN != "" {
		for _, existing := range r.byID {
			if existing.UserID == product.UserID && existing.EAN == product.EAN {
				return nil, common.ErrorAlreadyExists
			}
		}
	}

	stored := copyProduct(product)
	stored.CreatedAt = time.Now()
	r.byID[stored.ID] = stored

	product.CreatedAt = stored.CreatedAt
	return copyProduct(stored), nil
}

func (r *MemoryRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[product.ID]
	if !ok || existing.UserID != product.UserID {
		return nil, common.ErrorNotFound
	}
	if product.EAN != "" {
		for id, other := range r.byID {
			if id != product.ID && other.UserID == product.UserID && other.EAN == product.EAN {
				return nil, common.ErrorAlreadyExists
			}
		}
	}

	stored := copyProduct(product)
	stored.CreatedAt = existing.CreatedAt
	r.byID[product.ID] = stored
	return copyProduct(stored), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.byID[id]
	if !ok || product.UserID != userID {
		return 0, nil
	}
	delete(r.byID, id)
	return 1, nil
}

// copyProduct clones the record including its item slice so callers never
// alias stored state.
func copyProduct(p *models.Product) *models.Product {
	result := *p
	result.Items = slices.Clone(p.Items)
	return &result
}
