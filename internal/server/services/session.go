// Package services contains server-side business logic. This file implements
// SessionService, which turns credentials into revocable bearer tokens and
// presented tokens back into authenticated identities.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pantrykeeper/internal/common"
	"github.com/dmitrijs2005/pantrykeeper/internal/dbx"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/auth"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/config"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// SessionService issues tokens on login, validates them on each request and
// revokes them on logout. A token is only honored while its row still exists
// in the token store, so logout takes effect immediately even though the
// signature stays valid until the embedded expiry.
type SessionService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewSessionService constructs a SessionService using repositories and
// server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Login verifies the password against the stored hash and, on success,
// issues and persists a new bearer token. A missing user yields
// common.ErrorNotFound, a wrong password common.ErrorUnauthorized.
func (s *SessionService) Login(ctx context.Context, email string, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.ErrorUnauthorized
	}

	return s.IssueToken(ctx, s.db, user)
}

// IssueToken signs a claim for user and persists the serialized token.
// Registration uses the same path so a fresh account is logged in at once.
func (s *SessionService) IssueToken(ctx context.Context, db dbx.DBTX, user *models.User) (string, error) {
	token, err := auth.GenerateToken(user.ID, user.Name, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	if err := s.repomanager.Tokens(db).Create(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("error storing token: %w", err)
	}

	return token, nil
}

// Authenticate returns the identity embedded in tokenString. An absent token
// yields common.ErrorUnauthenticated. A token that fails signature or expiry
// checks, or whose row has been revoked from the store, yields
// common.ErrorUnauthorized.
func (s *SessionService) Authenticate(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if tokenString == "" {
		return nil, common.ErrorUnauthenticated
	}

	claims, err := auth.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	// Revocation check: a syntactically valid but logged-out token must be
	// rejected.
	if _, err := s.repomanager.Tokens(s.db).Find(ctx, tokenString); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching token: %w", err)
	}

	return claims, nil
}

// Logout deletes the matching token row, revoking the session. An unknown
// token yields common.ErrorNotFound.
func (s *SessionService) Logout(ctx context.Context, tokenString string) error {
	n, err := s.repomanager.Tokens(s.db).Delete(ctx, tokenString)
	if err != nil {
		return fmt.Errorf("error deleting token: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
