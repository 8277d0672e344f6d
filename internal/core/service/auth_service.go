package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shieldagency/backend/internal/core/domain"
	"github.com/shieldagency/backend/internal/core/ports"
	"github.com/shieldagency/backend/internal/pkg/password"
	"github.com/shieldagency/backend/internal/pkg/token"
)

// passwordMaxBytes is the bcrypt input limit. Lengths are counted in bytes,
// so multibyte characters use it up faster.
const passwordMaxBytes = password.MaxLength

// Login surfaces, also used as throttle scopes.
const (
	SurfaceAdmin = "admin"
	SurfaceUser  = "user"
)

// TokenManager abstracts token issuance and verification.
type TokenManager interface {
	Issue(principalID string, role domain.Role) (string, error)
	Verify(raw string) (token.Identity, error)
}

// PasswordHasher is a CredentialVerifier that can also produce hashes.
type PasswordHasher interface {
	CredentialVerifier
	Hash(plaintext string) (string, error)
}

// LoginThrottle counts failed logins per surface and email (Redis).
type LoginThrottle interface {
	Blocked(ctx context.Context, surface, email string) (bool, error)
	RecordFailure(ctx context.Context, surface, email string) error
	Reset(ctx context.Context, surface, email string) error
}

// AuthService implements login, registration, password change and token
// resolution for both admins and users.
type AuthService struct {
	admins   ports.AdminRepository
	users    ports.UserRepository
	tokens   TokenManager
	hasher   PasswordHasher
	throttle LoginThrottle
	log      zerolog.Logger
	now      func() time.Time

	adminChain Chain
	userChain  Chain
}

// NewAuthService wires the service. throttle may be nil.
func NewAuthService(
	admins ports.AdminRepository,
	users ports.UserRepository,
	tokens TokenManager,
	hasher PasswordHasher,
	throttle LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	adminProvider := NewStoreProvider(domain.RoleAdmin, admins, hasher)
	userProvider := NewStoreProvider(domain.RoleUser, users, hasher)

	return &AuthService{
		admins:   admins,
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		throttle: throttle,
		log:      log,
		now:      time.Now,

		adminChain: Chain{adminProvider},
		// User login falls back to admin credentials.
		userChain: Chain{userProvider, adminProvider},
	}
}

func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*domain.Session, error) {
	return s.login(ctx, SurfaceAdmin, s.adminChain, email, password)
}

func (s *AuthService) UserLogin(ctx context.Context, email, password string) (*domain.Session, error) {
	return s.login(ctx, SurfaceUser, s.userChain, email, password)
}

func (s *AuthService) login(ctx context.Context, surface string, chain Chain, email, password string) (*domain.Session, error) {
	if email == "" || password == "" {
		return nil, domain.Invalid("Please provide an email and password")
	}

	if s.isThrottled(ctx, surface, email) {
		return nil, domain.ErrTooManyAttempts
	}

	principal, err := chain.Authenticate(ctx, email, password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		s.recordFailure(ctx, surface, email)
		s.log.Info().Str("surface", surface).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s login: %w", surface, err)
	}

	s.resetFailures(ctx, surface, email)

	session, err := s.newSession(principal)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("surface", surface).
		Str("principal_id", principal.ID).
		Stringer("role", principal.Role).
		Msg("login succeeded")

	return session, nil
}

// Register creates a user account. Only the user store is checked for an
// existing email; an admin with the same email does not block registration.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" || email == "" || password == "" {
		return nil, domain.Invalid("Please provide name, email and password")
	}
	if len(password) < domain.MinPasswordLength {
		return nil, domain.Invalid("Password must be at least %d characters", domain.MinPasswordLength)
	}
	if len(password) > passwordMaxBytes {
		return nil, domain.Invalid("Password must be at most %d bytes", passwordMaxBytes)
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrPrincipalNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.Principal{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	created.Role = domain.RoleUser

	session, err := s.newSession(created)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("principal_id", created.ID).Msg("user registered")
	return session, nil
}

// ChangeAdminPassword replaces the admin's password after checking the
// current one. Previously issued tokens stay valid until they expire.
func (s *AuthService) ChangeAdminPassword(ctx context.Context, adminID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.Invalid("Current and new password are required")
	}
	if len(newPassword) < domain.MinPasswordLength {
		return domain.Invalid("New password must be at least %d characters", domain.MinPasswordLength)
	}
	if len(newPassword) > passwordMaxBytes {
		return domain.Invalid("New password must be at most %d bytes", passwordMaxBytes)
	}

	admin, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return err
		}
		return fmt.Errorf("change password: %w", err)
	}

	if !s.hasher.Verify(currentPassword, admin.PasswordHash) {
		return domain.ErrIncorrectPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}
	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return err
		}
		return fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Str("principal_id", admin.ID).Msg("admin password changed")
	return nil
}

// Resolve verifies rawToken and loads the principal from the store matching
// its role claim. Every failure, including a store error, is
// domain.ErrUnauthenticated.
func (s *AuthService) Resolve(ctx context.Context, rawToken string) (*domain.Principal, error) {
	id, err := s.tokens.Verify(rawToken)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	var store ports.PrincipalStore
	switch id.Role {
	case domain.RoleAdmin:
		store = s.admins
	case domain.RoleUser:
		store = s.users
	default:
		return nil, domain.ErrUnauthenticated
	}

	principal, err := store.FindByID(ctx, id.PrincipalID)
	if err != nil {
		if !errors.Is(err, domain.ErrPrincipalNotFound) {
			s.log.Warn().Err(err).Stringer("role", id.Role).Msg("principal lookup failed")
		}
		return nil, domain.ErrUnauthenticated
	}

	principal.Role = id.Role
	return principal, nil
}

func (s *AuthService) newSession(p *domain.Principal) (*domain.Session, error) {
	tok, err := s.tokens.Issue(p.ID, p.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.Session{Token: tok, Principal: p}, nil
}

func (s *AuthService) isThrottled(ctx context.Context, surface, email string) bool {
	if s.throttle == nil {
		return false
	}
	blocked, err := s.throttle.Blocked(ctx, surface, email)
	if err != nil {
		s.log.Warn().Err(err).Str("surface", surface).Msg("login throttle check failed, allowing attempt")
		return false
	}
	return blocked
}

func (s *AuthService) recordFailure(ctx context.Context, surface, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, surface, email); err != nil {
		s.log.Warn().Err(err).Str("surface", surface).Msg("failed to record login failure")
	}
}

func (s *AuthService) resetFailures(ctx context.Context, surface, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Reset(ctx, surface, email); err != nil {
		s.log.Warn().Err(err).Str("surface", surface).Msg("failed to reset login failures")
	}
}

var _ ports.AuthService = (*AuthService)(nil)
