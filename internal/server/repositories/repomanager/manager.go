// Package repomanager bundles the repositories behind a single constructor
// point so services can obtain them bound to either a *sql.DB or an open
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/pantrykeeper/internal/dbx"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/repositories/products"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/repositories/users"
)

// RepositoryManager builds repositories over the given DBTX. Passing a
// transaction handle makes every returned repository take part in it.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Products(db dbx.DBTX) products.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
