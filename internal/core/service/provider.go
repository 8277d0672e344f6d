package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shieldagency/backend/internal/core/domain"
	"github.com/shieldagency/backend/internal/core/ports"
)

// CredentialVerifier checks a plaintext secret against a stored hash.
// Burn performs a throwaway comparison so misses cost the same as mismatches.
type CredentialVerifier interface {
	Verify(plaintext, storedHash string) bool
	Burn(plaintext string) bool
}

// Provider authenticates an email/password pair against one principal store.
// A miss (unknown email or wrong password) is domain.ErrInvalidCredentials;
// any other error means the store could not be consulted.
type Provider interface {
	Role() domain.Role
	TryAuthenticate(ctx context.Context, email, password string) (*domain.Principal, error)
}

type storeProvider struct {
	role     domain.Role
	store    ports.PrincipalStore
	verifier CredentialVerifier
}

// NewStoreProvider returns a Provider backed by store. Principals it returns
// always carry role, whatever the stored document says.
func NewStoreProvider(role domain.Role, store ports.PrincipalStore, verifier CredentialVerifier) Provider {
	return &storeProvider{role: role, store: store, verifier: verifier}
}

func (p *storeProvider) Role() domain.Role {
	return p.role
}

func (p *storeProvider) TryAuthenticate(ctx context.Context, email, password string) (*domain.Principal, error) {
	principal, err := p.store.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrPrincipalNotFound) {
		p.verifier.Burn(password)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", p.role, err)
	}

	if !p.verifier.Verify(password, principal.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	principal.Role = p.role
	return principal, nil
}

// Chain tries providers in declared order and returns the first match.
type Chain []Provider

func (c Chain) Authenticate(ctx context.Context, email, password string) (*domain.Principal, error) {
	for _, p := range c {
		principal, err := p.TryAuthenticate(ctx, email, password)
		if err == nil {
			return principal, nil
		}
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, err
		}
	}
	return nil, domain.ErrInvalidCredentials
}
