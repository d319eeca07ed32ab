package domain

import (
	"errors"
	"time"
)

// Role is the closed set of principal roles. There is no implicit default:
// an account always carries exactly one of these values.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAgent  Role = "agent"
	RoleClient Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleClient:
		return true
	}
	return false
}

var ErrAccountNotFound = errors.New("account not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountDisabled = errors.New("account disabled")
var ErrSessionInvalid = errors.New("session invalid")

// ValidationError reports a user-correctable input problem.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// DuplicateError reports a uniqueness violation on a named field. Both the
// advisory existence check and a store-level duplicate-key race map to it.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string { return "duplicate " + e.Field }

// Account is a stored principal with credentials and a role.
//
// Active is tri-state in storage: a document without the flag is active,
// only an explicitly stored false means disabled. Repositories resolve the
// rule at decode time so the rest of the system sees a plain boolean.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Claims is the non-secret projection of an Account carried in a session
// token. It is fixed at issuance time and never auto-refreshes from the
// store; only an explicit session update rewrites name/mobile.
type Claims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Mobile    string `json:"mobile,omitempty"`
	Active    bool   `json:"active"`
}

// NewClaims projects the safe subset of an account.
func NewClaims(a *Account) *Claims {
	return &Claims{
		AccountID: a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		Mobile:    a.Mobile,
		Active:    a.Active,
	}
}
