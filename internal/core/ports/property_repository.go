package ports

import (
	"context"

	"github.com/propertydesk/crm-api/internal/core/domain"
)

// PropertyRepository defines the interface for listing persistence.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) (*domain.Property, error)
	FindByCode(ctx context.Context, code string) (*domain.Property, error)
	UpdateStatus(ctx context.Context, code string, status domain.PropertyStatus) error
	List(ctx context.Context, page, limit int) ([]domain.Property, int64, error)
	Count(ctx context.Context) (int64, error)
}
