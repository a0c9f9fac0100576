package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/pantrykeeper/internal/dbx"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/repositories/products"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out map-backed repositories. The DBTX
// argument is ignored, so transactional grouping is not available with
// this variant.
type MemoryRepositoryManager struct {
	users    *users.MemoryRepository
	tokens   *tokens.MemoryRepository
	products *products.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		tokens:   tokens.NewMemoryRepository(),
		products: products.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Tokens(db dbx.DBTX) tokens.Repository {
	return m.tokens
}

func (m *MemoryRepositoryManager) Products(db dbx.DBTX) products.Repository {
	return m.products
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
