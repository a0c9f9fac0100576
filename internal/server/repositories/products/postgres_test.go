package products

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/pantrykeeper/internal/common"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresRepository) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock, NewPostgresRepository(db)
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

var productColumns = []string{"id", "user_id", "ean", "name", "description", "items", "created_at"}

func TestPostgresGetByID_UnmarshalsItems(t *testing.T) {
	db, mock, repo := newMock(t)
	defer db.Close()

	items := `[{"expiration_date":"2025-01-05T00:00:00Z"},{"expiration_date":"2025-01-10T00:00:00Z"}]`
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, ean, name, description, items, created_at`)).
		WithArgs("p1", "u1").
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow("p1", "u1", "4006381333931", "Milk", "", []byte(items), time.Now()))

	product, err := repo.GetByID(context.Background(), "p1", "u1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if len(product.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(product.Items))
	}
	if product.Items[0].ExpirationDate.After(product.Items[1].ExpirationDate) {
		t.Error("items came back out of stored order")
	}
	if product.EAN != "4006381333931" {
		t.Errorf("EAN = %q", product.EAN)
	}
}

func TestPostgresGetByID_NullEAN(t *testing.T) {
	db, mock, repo := newMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, ean, name, description, items, created_at`)).
		WithArgs("p1", "u1").
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow("p1", "u1", nil, "Leftovers", "", []byte(`[]`), time.Now()))

	product, err := repo.GetByID(context.Background(), "p1", "u1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if product.EAN != "" {
		t.Errorf("EAN = %q, want empty for NULL column", product.EAN)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	db, mock, repo := newMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, ean, name, description, items, created_at`)).
		WithArgs("missing", "u1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing", "u1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("GetByID error = %v, want ErrorNotFound", err)
	}
}

func TestPostgresCreate_NullsEmptyEAN(t *testing.T) {
	db, mock, repo := newMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products`)).
		WithArgs("p1", "u1", sql.NullString{}, "Leftovers", "", []byte(`[]`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	product, err := repo.Create(context.Background(), &models.Product{
		ID: "p1", UserID: "u1", Name: "Leftovers",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !product.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", product.CreatedAt, now)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("sqlmock expectations: %v", err)
	}
}

func TestPostgresCreate_UniqueViolation(t *testing.T) {
	db, mock, repo := newMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products`)).
		WillReturnError(uniqueViolation())

	_, err := repo.Create(context.Background(), &models.Product{
		ID: "p1", UserID: "u1", EAN: "4006381333931", Name: "Milk",
	})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("Create error = %v, want ErrorAlreadyExists", err)
	}
}

func TestPostgresUpdate_NotFound(t *testing.T) {
	db, mock, repo := newMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), &models.Product{ID: "missing", UserID: "u1", Name: "Milk"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("Update error = %v, want ErrorNotFound", err)
	}
}

func TestPostgresUpdate_UniqueViolation(t *testing.T) {
	db, mock, repo := newMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products`)).
		WillReturnError(uniqueViolation())

	_, err := repo.Update(context.Background(), &models.Product{
		ID: "p1", UserID: "u1", EAN: "4006381333931", Name: "Milk",
	})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("Update error = %v, want ErrorAlreadyExists", err)
	}
}

func TestPostgresList(t *testing.T) {
	db, mock, repo := newMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, ean, name, description, items, created_at`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow("p1", "u1", nil, "Milk", "", []byte(`[]`), time.Now()).
			AddRow("p2", "u1", "5000112637922", "Cola", "", []byte(`[]`), time.Now()))

	result, err := repo.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("len(result) = %d, want 2", len(result))
	}
}

func TestPostgresDelete_ReportsRowCount(t *testing.T) {
	db, mock, repo := newMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products`)).
		WithArgs("p1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products`)).
		WithArgs("missing", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if n, err := repo.Delete(context.Background(), "p1", "u1"); err != nil || n != 1 {
		t.Fatalf("Delete = (%d, %v), want (1, nil)", n, err)
	}
	if n, err := repo.Delete(context.Background(), "missing", "u1"); err != nil || n != 0 {
		t.Fatalf("Delete = (%d, %v), want (0, nil)", n, err)
	}
}
