package ports

import (
	"context"

	"github.com/propertydesk/crm-api/internal/core/domain"
)

// AccountRepository defines the interface for credential persistence.
// Create must rely on a store-level unique constraint on email and surface
// violations as *domain.DuplicateError, so concurrent registrations that
// slip past the advisory FindByEmail check still fail cleanly.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}
