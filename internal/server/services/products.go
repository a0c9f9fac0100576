package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/pantrykeeper/internal/common"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ProductService implements owner-scoped CRUD over products and maintenance
// of their item lists. Ownership is supplied by the caller; the service never
// re-derives it. The per-owner EAN uniqueness invariant is pre-checked here
// for a friendly error and enforced authoritatively by the storage layer's
// unique index.
type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewProductService constructs a ProductService over the given repositories.
func NewProductService(db *sql.DB, m repomanager.RepositoryManager) *ProductService {
	return &ProductService{db: db, repomanager: m}
}

// List returns all products owned by userID.
func (s *ProductService) List(ctx context.Context, userID string) ([]*models.Product, error) {
	result, err := s.repomanager.Products(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}
	return result, nil
}

// Get returns the product with the given id owned by userID, or
// common.ErrorNotFound.
func (s *ProductService) Get(ctx context.Context, userID string, productID string) (*models.Product, error) {
	return s.repomanager.Products(s.db).GetByID(ctx, productID, userID)
}

// Create inserts a new product with an empty item list. When ean is
// non-empty, a product already carrying it for the same owner yields
// common.ErrorAlreadyExists; owners are independent scopes.
func (s *ProductService) Create(ctx context.Context, userID string, ean, name, description string) (*models.Product, error) {
	if name == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Products(s.db)

	if ean != "" {
		if err := s.checkEANFree(ctx, userID, ean); err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		ID:          uuid.NewString(),
		UserID:      userID,
		EAN:         ean,
		Name:        name,
		Description: description,
		Items:       []models.Item{},
	}

	product, err := repo.Create(ctx, product)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating product: %w", err)
	}

	return product, nil
}

// Update applies a partial update to the product's own fields. Only supplied
// fields are overwritten. Changing the EAN re-runs the uniqueness check.
// An empty patch is rejected.
func (s *ProductService) Update(ctx context.Context, userID string, productID string, patch models.ProductPatch) (*models.Product, error) {
	if patch.EAN == nil && patch.Name == nil && patch.Description == nil {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Products(s.db)

	product, err := repo.GetByID(ctx, productID, userID)
	if err != nil {
		return nil, err
	}

	if patch.EAN != nil && *patch.EAN != product.EAN {
		if *patch.EAN != "" {
			if err := s.checkEANFree(ctx, userID, *patch.EAN); err != nil {
				return nil, err
			}
		}
		product.EAN = *patch.EAN
	}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, common.ErrorValidation
		}
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}

	product, err = repo.Update(ctx, product)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) || errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating product: %w", err)
	}

	return product, nil
}

// Delete removes the product. No other entity is cascaded. An unknown id
// yields common.ErrorNotFound.
func (s *ProductService) Delete(ctx context.Context, userID string, productID string) error {
	n, err := s.repomanager.Products(s.db).Delete(ctx, productID, userID)
	if err != nil {
		return fmt.Errorf("error deleting product: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// AddItem appends an item, re-sorts the list ascending by expiration date
// and persists it, returning the updated list.
func (s *ProductService) AddItem(ctx context.Context, userID string, productID string, item models.Item) ([]models.Item, error) {
	return s.mutateItems(ctx, userID, productID, func(items []models.Item) ([]models.Item, error) {
		items = append(items, item)
		models.SortItems(items)
		return items, nil
	})
}

// UpdateItem replaces the item at index and re-sorts the list. An index
// outside the current list yields common.ErrorIndexOutOfRange. Because the
// list is re-sorted after every insert or update, an index taken from a
// prior read addresses whatever occupies that position now.
func (s *ProductService) UpdateItem(ctx context.Context, userID string, productID string, index int, item models.Item) ([]models.Item, error) {
	return s.mutateItems(ctx, userID, productID, func(items []models.Item) ([]models.Item, error) {
		if index < 0 || index >= len(items) {
			return nil, common.ErrorIndexOutOfRange
		}
		items[index] = item
		models.SortItems(items)
		return items, nil
	})
}

// DeleteItem removes the item at index. Removal cannot break the sort
// order, so the list is persisted without re-sorting.
func (s *ProductService) DeleteItem(ctx context.Context, userID string, productID string, index int) ([]models.Item, error) {
	return s.mutateItems(ctx, userID, productID, func(items []models.Item) ([]models.Item, error) {
		if index < 0 || index >= len(items) {
			return nil, common.ErrorIndexOutOfRange
		}
		return slices.Delete(items, index, index+1), nil
	})
}

func (s *ProductService) mutateItems(ctx context.Context, userID, productID string, fn func([]models.Item) ([]models.Item, error)) ([]models.Item, error) {
	repo := s.repomanager.Products(s.db)

	product, err := repo.GetByID(ctx, productID, userID)
	if err != nil {
		return nil, err
	}

	items, err := fn(product.Items)
	if err != nil {
		return nil, err
	}
	product.Items = items

	if _, err := repo.Update(ctx, product); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating items: %w", err)
	}

	return product.Items, nil
}

// checkEANFree is the friendly fast path of the uniqueness invariant; the
// partial unique index on (user_id, ean) remains authoritative under races.
func (s *ProductService) checkEANFree(ctx context.Context, userID, ean string) error {
	_, err := s.repomanager.Products(s.db).FindByEAN(ctx, userID, ean)
	if err == nil {
		return common.ErrorAlreadyExists
	}
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return fmt.Errorf("error checking ean: %w", err)
}
