package products

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pantrykeeper/internal/common"
	"github.com/dmitrijs2005/pantrykeeper/internal/dbx"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
)

// PostgresRepository implements product storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). The item list is persisted verbatim as a jsonb
// array; ordering is owned by the service layer. An empty EAN is stored as
// NULL so the partial unique index on (user_id, ean) only applies to
// products that carry an identifier.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns all products owned by userID.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Product, error) {
	query := `
		SELECT id, user_id, ean, name, description, items, created_at
		FROM products
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// GetByID returns the product with the given id owned by userID, or
// common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string, userID string) (*models.Product, error) {
	query := `
		SELECT id, user_id, ean, name, description, items, created_at
		FROM products
		WHERE id = $1 AND user_id = $2
	`
	return r.getOne(ctx, query, id, userID)
}

// FindByEAN returns the product carrying the given EAN for userID, or
// common.ErrorNotFound. Used as the uniqueness fast path before writes.
func (r *PostgresRepository) FindByEAN(ctx context.Context, userID string, ean string) (*models.Product, error) {
	query := `
		SELECT id, user_id, ean, name, description, items, created_at
		FROM products
		WHERE user_id = $1 AND ean = $2
	`
	return r.getOne(ctx, query, userID, ean)
}

// Create inserts a new product row. A duplicate (user_id, ean) pair yields
// common.ErrorAlreadyExists from the unique index, which is authoritative
// even under concurrent creators.
func (r *PostgresRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	items, err := json.Marshal(itemsOrEmpty(product.Items))
	if err != nil {
		return nil, fmt.Errorf("items marshal error: %w", err)
	}

	query := `
		INSERT INTO products (id, user_id, ean, name, description, items)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err = r.db.QueryRowContext(ctx, query,
		product.ID, product.UserID, nullableEAN(product.EAN),
		product.Name, product.Description, items).Scan(&product.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return product, nil
}

// Update overwrites the mutable fields of the product row scoped by id and
// owner. Zero rows affected translates to common.ErrorNotFound; an EAN
// collision with another product of the same owner yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	items, err := json.Marshal(itemsOrEmpty(product.Items))
	if err != nil {
		return nil, fmt.Errorf("items marshal error: %w", err)
	}

	query := `
		UPDATE products
		SET ean = $3, name = $4, description = $5, items = $6
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		product.ID, product.UserID, nullableEAN(product.EAN),
		product.Name, product.Description, items)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}

	return product, nil
}

// Delete removes the product scoped by id and owner and returns the number
// of rows removed.
func (r *PostgresRepository) Delete(ctx context.Context, id string, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	product, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return product, nil
}

func scanProduct(scan func(dest ...any) error) (*models.Product, error) {
	product := &models.Product{}
	var ean sql.NullString
	var items []byte

	err := scan(&product.ID, &product.UserID, &ean, &product.Name,
		&product.Description, &items, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	product.EAN = ean.String
	if err := json.Unmarshal(items, &product.Items); err != nil {
		return nil, fmt.Errorf("items unmarshal error: %w", err)
	}
	return product, nil
}

func nullableEAN(ean string) sql.NullString {
	return sql.NullString{String: ean, Valid: ean != ""}
}

// itemsOrEmpty keeps the stored jsonb an array even when the list is nil.
func itemsOrEmpty(items []models.Item) []models.Item {
	if items == nil {
		return []models.Item{}
	}
	return items
}
