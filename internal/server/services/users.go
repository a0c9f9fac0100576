package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pantrykeeper/internal/common"
	"github.com/dmitrijs2005/pantrykeeper/internal/dbx"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/config"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages user accounts: registration, profile updates and
// deletion. Registration issues a session token through SessionService so a
// new account is signed in immediately.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *SessionService
	bcryptCost  int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionService, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		bcryptCost:  cfg.BcryptCost,
	}
}

// Register creates a new user and returns a freshly issued bearer token.
// A taken email or display name yields common.ErrorAlreadyExists; the unique
// indexes remain authoritative if two registrations race past the pre-check.
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	if name == "" || email == "" || password == "" {
		return "", common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	// Fast-path existence check for a friendlier error before the insert.
	if taken, err := repo.EmailTaken(ctx, email); err != nil {
		return "", fmt.Errorf("error checking email: %w", err)
	} else if taken {
		return "", common.ErrorAlreadyExists
	}
	if taken, err := repo.NameTaken(ctx, name); err != nil {
		return "", fmt.Errorf("error checking name: %w", err)
	} else if taken {
		return "", common.ErrorAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", common.ErrorInternal
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Verified:     false,
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return "", common.ErrorAlreadyExists
		}
		return "", fmt.Errorf("error creating user: %w", err)
	}

	return s.sessions.IssueToken(ctx, s.db, user)
}

// Get returns the user record for id or common.ErrorNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// Update applies a partial profile update. Only supplied fields are
// overwritten; email/name changes re-run the uniqueness check and a supplied
// password is re-hashed. An empty patch is rejected.
func (s *UserService) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	if patch.Email == nil && patch.Name == nil && patch.Password == nil && patch.Verified == nil {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != user.Email {
		if *patch.Email == "" {
			return nil, common.ErrorValidation
		}
		if taken, err := repo.EmailTaken(ctx, *patch.Email); err != nil {
			return nil, fmt.Errorf("error checking email: %w", err)
		} else if taken {
			return nil, common.ErrorAlreadyExists
		}
		user.Email = *patch.Email
	}

	if patch.Name != nil && *patch.Name != user.Name {
		if *patch.Name == "" {
			return nil, common.ErrorValidation
		}
		if taken, err := repo.NameTaken(ctx, *patch.Name); err != nil {
			return nil, fmt.Errorf("error checking name: %w", err)
		} else if taken {
			return nil, common.ErrorAlreadyExists
		}
		user.Name = *patch.Name
	}

	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, common.ErrorValidation
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.bcryptCost)
		if err != nil {
			return nil, common.ErrorInternal
		}
		user.PasswordHash = string(hash)
	}

	if patch.Verified != nil {
		user.Verified = *patch.Verified
	}

	user, err = repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) || errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return user, nil
}

// Delete removes the user after revoking all their tokens, in one
// transaction. Products are intentionally left in place. An unknown id
// yields common.ErrorNotFound.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Tokens(tx).DeleteByUser(ctx, id); err != nil {
			return fmt.Errorf("error deleting tokens: %w", err)
		}

		n, err := s.repomanager.Users(tx).Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		if n == 0 {
			return common.ErrorNotFound
		}
		return nil
	})
}
