package domain

import (
	"errors"
	"fmt"
)

// Role is the kind of principal a token or session belongs to.
// Only RoleAdmin and RoleUser are valid; the zero value is not.
type Role uint8

const (
	roleInvalid Role = iota
	RoleAdmin
	RoleUser
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole converts the wire form ("admin", "user") into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "user":
		return RoleUser, nil
	default:
		return roleInvalid, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "invalid"
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, ErrUnknownRole
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
