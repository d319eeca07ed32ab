package ports

import (
	"context"

	"github.com/propertydesk/crm-api/internal/core/domain"
)

// RegisterInput carries the raw sign-up form fields before normalization.
type RegisterInput struct {
	Name            string
	Email           string
	Mobile          string
	Password        string
	ConfirmPassword string
}

// AuthService implements registration and credential verification.
//
// Authenticate collapses every failure mode (missing field, unknown email,
// wrong password, disabled account) into domain.ErrInvalidCredentials so the
// caller cannot tell which factor failed.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Claims, error)
}
