package ports

import (
	"context"

	"github.com/propertydesk/crm-api/internal/core/domain"
)

// CustomerRepository defines the interface for customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	FindByContact(ctx context.Context, email, phone string) (*domain.Customer, error)
	List(ctx context.Context, page, limit int) ([]domain.Customer, int64, error)
	Count(ctx context.Context) (int64, error)
}
