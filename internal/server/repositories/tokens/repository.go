// Package tokens provides persistence for issued bearer tokens. A token row
// existing in this store is what keeps the session valid; deleting it revokes
// the token server-side.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
)

// Repository is the credential-store contract for issued tokens.
// Find returns common.ErrorNotFound when the token is absent; the delete
// operations report how many rows were removed and leave the not-found
// translation to the caller.
type Repository interface {
	Create(ctx context.Context, userID string, token string) error
	Find(ctx context.Context, token string) (*models.AccessToken, error)
	Delete(ctx context.Context, token string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
