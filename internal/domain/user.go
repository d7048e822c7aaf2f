package domain

import (
	"errors"
)

// Operator is an authenticated caller of the admin API.
type Operator struct {
	ID   string
	Role Role
}

// Role represents an operator's access level
type Role string

const (
	// RoleAdmin may change balances, due dates and purge accounts
	RoleAdmin Role = "admin"

	// RoleViewer can only read balances and history
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:  true,
	RoleViewer: true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanMutate checks if the role can change ledger state
func (r Role) CanMutate() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
