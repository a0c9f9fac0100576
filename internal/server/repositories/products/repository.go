// Package products provides persistence for inventory products and their
// embedded item lists.
package products

import (
	"context"

	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
)

// Repository is the inventory-store contract. Every operation is scoped to
// the owning user; a product belonging to another user is indistinguishable
// from a missing one. Lookups return common.ErrorNotFound when no row
// matches, Create and Update return common.ErrorAlreadyExists on a per-owner
// EAN collision, and Delete reports the number of rows removed.
type Repository interface {
	List(ctx context.Context, userID string) ([]*models.Product, error)
	GetByID(ctx context.Context, id string, userID string) (*models.Product, error)
	FindByEAN(ctx context.Context, userID string, ean string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string, userID string) (int64, error)
}
