// Package users provides persistence for user identity records.
package users

import (
	"context"

	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
)

// Repository is the credential-store contract for user records.
// Lookups return common.ErrorNotFound when no row matches; Delete reports
// the number of rows removed and leaves the not-found translation to the
// caller.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	NameTaken(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) (int64, error)
}
