package domain

import "time"

// MinPasswordLength is enforced wherever a secret enters the system
// (registration, password change, admin bootstrap).
const MinPasswordLength = 6

// Principal is an authenticatable identity: an Admin or a User.
// Admins and users live in separate stores; Role says which one.
type Principal struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is the result of a successful login or registration.
type Session struct {
	Token     string
	Principal *Principal
}
