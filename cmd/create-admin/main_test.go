package main

import (
	"context"
	"errors"
	"testing"

	"github.com/shieldagency/backend/internal/core/domain"
	"github.com/shieldagency/backend/internal/pkg/config"
)

type memAdmins struct {
	byEmail map[string]*domain.Principal
	creates int
}

func newMemAdmins() *memAdmins {
	return &memAdmins{byEmail: map[string]*domain.Principal{}}
}

func (m *memAdmins) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	if p, ok := m.byEmail[email]; ok {
		return p, nil
	}
	return nil, domain.ErrPrincipalNotFound
}

func (m *memAdmins) FindByID(context.Context, string) (*domain.Principal, error) {
	return nil, domain.ErrPrincipalNotFound
}

func (m *memAdmins) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	if _, ok := m.byEmail[p.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	m.creates++
	cp := *p
	cp.ID = "a1"
	m.byEmail[p.Email] = &cp
	return &cp, nil
}

func (m *memAdmins) UpdatePassword(context.Context, string, string) error { return nil }

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func TestCreateAdmin_IsIdempotent(t *testing.T) {
	admins := newMemAdmins()
	seed := config.AdminSeed{Name: "Admin", Email: "admin@shield.com", Password: "admin123"}

	created, err := createAdmin(context.Background(), admins, plainHasher{}, seed)
	if err != nil {
		t.Fatalf("createAdmin: %v", err)
	}
	if created == nil || created.Role != domain.RoleAdmin || created.PasswordHash != "hashed:admin123" {
		t.Fatalf("unexpected admin: %+v", created)
	}

	again, err := createAdmin(context.Background(), admins, plainHasher{}, seed)
	if err != nil {
		t.Fatalf("second createAdmin: %v", err)
	}
	if again != nil || admins.creates != 1 {
		t.Fatalf("expected no second insert, got %+v (creates=%d)", again, admins.creates)
	}
}

func TestCreateAdmin_RejectsBadSeed(t *testing.T) {
	cases := []config.AdminSeed{
		{Name: "Admin", Email: "not-an-email", Password: "admin123"},
		{Name: "Admin", Email: "admin@shield.com", Password: "short"},
		{Name: "  ", Email: "admin@shield.com", Password: "admin123"},
	}
	for _, seed := range cases {
		admins := newMemAdmins()
		if _, err := createAdmin(context.Background(), admins, plainHasher{}, seed); err == nil {
			t.Fatalf("expected error for seed %+v", seed)
		}
		if admins.creates != 0 {
			t.Fatalf("nothing should be created for seed %+v", seed)
		}
	}
}

type brokenAdmins struct{ *memAdmins }

func (brokenAdmins) FindByEmail(context.Context, string) (*domain.Principal, error) {
	return nil, errors.New("connection reset")
}

func TestCreateAdmin_LookupErrorAborts(t *testing.T) {
	admins := brokenAdmins{newMemAdmins()}
	seed := config.AdminSeed{Name: "Admin", Email: "admin@shield.com", Password: "admin123"}

	if _, err := createAdmin(context.Background(), admins, plainHasher{}, seed); err == nil {
		t.Fatalf("expected lookup error to abort")
	}
	if admins.creates != 0 {
		t.Fatalf("nothing should be created after a lookup failure")
	}
}
