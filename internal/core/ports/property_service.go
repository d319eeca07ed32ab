package ports

import (
	"context"

	"github.com/propertydesk/crm-api/internal/core/domain"
)

// CreatePropertyInput carries a new listing from the transport layer.
type CreatePropertyInput struct {
	Owner           string
	TransactionType string
	Type            string
	Location        string
	SizeSqft        int64
	PriceOrRent     int64
	Furnishing      string
}

// PropertyPage is one page of a property listing.
type PropertyPage struct {
	Properties []domain.Property
	Total      int64
	Page       int
	Limit      int
}

type PropertyService interface {
	Create(ctx context.Context, in CreatePropertyInput) (*domain.Property, error)
	ChangeStatus(ctx context.Context, code string, next domain.PropertyStatus) (*domain.Property, error)
	List(ctx context.Context, page, limit int) (*PropertyPage, error)
}
