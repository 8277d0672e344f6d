package ports

import (
	"context"

	"github.com/shieldagency/backend/internal/core/domain"
)

// PrincipalStore is the read side shared by the admin and user collections.
// Both lookups return domain.ErrPrincipalNotFound when nothing matches.
type PrincipalStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	FindByID(ctx context.Context, id string) (*domain.Principal, error)
}

// AdminRepository persists admin principals.
type AdminRepository interface {
	PrincipalStore
	Create(ctx context.Context, admin *domain.Principal) (*domain.Principal, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// UserRepository persists self-registered users.
type UserRepository interface {
	PrincipalStore
	// Create returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *domain.Principal) (*domain.Principal, error)
}
