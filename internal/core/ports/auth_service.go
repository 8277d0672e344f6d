package ports

import (
	"context"

	"github.com/shieldagency/backend/internal/core/domain"
)

// AuthService covers every login, registration and token resolution flow.
type AuthService interface {
	AdminLogin(ctx context.Context, email, password string) (*domain.Session, error)
	// UserLogin falls back to admin credentials; callers must branch on the
	// returned principal's role, not on the endpoint they called.
	UserLogin(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, name, email, password string) (*domain.Session, error)
	ChangeAdminPassword(ctx context.Context, adminID, currentPassword, newPassword string) error
	// Resolve verifies a bearer token and loads the principal it names.
	Resolve(ctx context.Context, rawToken string) (*domain.Principal, error)
}
