// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account on the marketplace: a customer, store staff, a delivery agent or an operator.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string // Never serialized outward.
	Role         Role   // Derived from AccountType at creation.
	AccountType  AccountType
	FirstName    string
	LastName     string
	Phones       []string
	Avatar       *Image
	City         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole checks the user's role case-insensitively against any of the given names.
func (u *User) HasRole(roles ...string) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role.Matches(r) {
			return true
		}
	}

	return false
}
