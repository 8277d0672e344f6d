// Package token issues and verifies the signed bearer tokens handed to
// admins and users after login.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shieldagency/backend/internal/core/domain"
)

const defaultTTL = 30 * 24 * time.Hour

// ErrInvalidToken is the only error Verify returns. Signature, expiry,
// format and role failures are deliberately indistinguishable.
var ErrInvalidToken = errors.New("invalid token")

// Config is built once at startup and handed to NewManager.
type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Identity is what a verified token asserts.
type Identity struct {
	PrincipalID string
	Role        domain.Role
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{secret: []byte(cfg.Secret), ttl: ttl, issuer: cfg.Issuer, now: now}, nil
}

// Issue mints a token for principalID carrying role as an explicit claim.
func (m *Manager) Issue(principalID string, role domain.Role) (string, error) {
	if principalID == "" || !role.Valid() {
		return "", errors.New("token: principal id and valid role are required")
	}

	now := m.now()
	c := claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString(m.secret)
}

// Verify checks signature, algorithm, expiry and issuer, then parses the
// role claim.
func (m *Manager) Verify(raw string) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var c claims
	tkn, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !tkn.Valid {
		return Identity{}, ErrInvalidToken
	}

	if c.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{PrincipalID: c.Subject, Role: role}, nil
}
