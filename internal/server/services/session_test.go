package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/pantrykeeper/internal/common"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/config"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		BcryptCost:                  bcrypt.MinCost,
	}
}

func newSessionService(rm repomanager.RepositoryManager) *SessionService {
	return NewSessionService(nil, rm, testConfig())
}

// seedUser inserts a user with the given password directly into the store
// and returns the stored record.
func seedUser(t *testing.T, rm repomanager.RepositoryManager, name, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	user, err := rm.Users(nil).Create(context.Background(), &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatalf("seed user error: %v", err)
	}
	return user
}

func TestLogin_Success(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	user := seedUser(t, rm, "alice", "alice@example.com", "secret")
	s := newSessionService(rm)

	token, err := s.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	claims, err := s.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims.UserID = %q, want %q", claims.UserID, user.ID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("claims.Email = %q, want %q", claims.Email, "alice@example.com")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	seedUser(t, rm, "alice", "alice@example.com", "secret")
	s := newSessionService(rm)

	_, err := s.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("Login error = %v, want ErrorUnauthorized", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := newSessionService(rm)

	_, err := s.Login(context.Background(), "nobody@example.com", "secret")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("Login error = %v, want ErrorNotFound", err)
	}
}

func TestAuthenticate_EmptyToken(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := newSessionService(rm)

	_, err := s.Authenticate(context.Background(), "")
	if !errors.Is(err, common.ErrorUnauthenticated) {
		t.Fatalf("Authenticate error = %v, want ErrorUnauthenticated", err)
	}
}

func TestAuthenticate_Garbage(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := newSessionService(rm)

	_, err := s.Authenticate(context.Background(), "not-a-jwt")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("Authenticate error = %v, want ErrorUnauthorized", err)
	}
}

func TestAuthenticate_Expired(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	user := seedUser(t, rm, "alice", "alice@example.com", "secret")

	cfg := testConfig()
	cfg.AccessTokenValidityDuration = -time.Minute
	s := NewSessionService(nil, rm, cfg)

	token, err := s.IssueToken(context.Background(), nil, user)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	_, err = s.Authenticate(context.Background(), token)
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("Authenticate error = %v, want ErrorUnauthorized", err)
	}
}

// A token past logout must be rejected even though its signature and expiry
// are still valid.
func TestAuthenticate_RevokedAfterLogout(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	seedUser(t, rm, "alice", "alice@example.com", "secret")
	s := newSessionService(rm)

	token, err := s.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if err := s.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	_, err = s.Authenticate(context.Background(), token)
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("Authenticate error = %v, want ErrorUnauthorized", err)
	}
}

func TestLogout_UnknownToken(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := newSessionService(rm)

	err := s.Logout(context.Background(), "never-issued")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("Logout error = %v, want ErrorNotFound", err)
	}
}
