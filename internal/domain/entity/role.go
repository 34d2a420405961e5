// Package entity contains the core business objects of the project.
package entity

import (
	"slices"
	"strings"
)

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleCustomer is the default shopper role.
	RoleCustomer Role = "CUSTOMER"
	// RoleStoreAdmin owns and manages stores.
	RoleStoreAdmin Role = "STORE_ADMIN"
	// RoleStoreWorker is staff attached to a store.
	RoleStoreWorker Role = "STORE_WORKER"
	// RoleDeliveryAgent delivers orders.
	RoleDeliveryAgent Role = "DELIVERY_AGENT"
	// RoleAdmin is the platform operator. It is never derived from a public signup.
	RoleAdmin Role = "ADMIN"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleStoreAdmin, RoleStoreWorker, RoleDeliveryAgent, RoleAdmin:
		return true
	default:
		return false
	}
}

// Matches compares roles case-insensitively, so "admin" matches ADMIN.
func (r Role) Matches(other string) bool {
	return strings.EqualFold(string(r), strings.TrimSpace(other))
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.ContainsFunc(rs, func(r Role) bool { return r.Matches(role.String()) })
}

// ToStrings converts Roles to []string for JWT compatibility.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// AccountType is the lowercase account kind chosen at signup.
type AccountType string

const (
	AccountTypeCustomer      AccountType = "customer"
	AccountTypeStoreAdmin    AccountType = "store_admin"
	AccountTypeStoreWorker   AccountType = "store_worker"
	AccountTypeDeliveryAgent AccountType = "delivery_agent"
	AccountTypeAdmin         AccountType = "admin"
)

// Normalize lowercases and trims the account type.
func (a AccountType) Normalize() AccountType {
	return AccountType(strings.ToLower(strings.TrimSpace(string(a))))
}

// IsPublic reports whether the account type may be chosen through public signup.
func (a AccountType) IsPublic() bool {
	switch a {
	case AccountTypeCustomer, AccountTypeStoreAdmin, AccountTypeStoreWorker, AccountTypeDeliveryAgent:
		return true
	default:
		return false
	}
}

// DeriveRole maps an account type to its role. It is applied once, when the
// user is created; the role is never taken from client input.
func DeriveRole(accountType AccountType) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(string(accountType))))
	if !role.IsValid() {
		return "", false
	}

	return role, true
}
