package ports

import (
	"context"

	"github.com/propertydesk/crm-api/internal/core/domain"
)

// CreateCustomerInput carries a new customer record from the transport layer.
type CreateCustomerInput struct {
	Name               string
	Phone              string
	Email              string
	Whatsapp           string
	RequirementType    string
	PropertyType       string
	BudgetMin          int64
	BudgetMax          int64
	PreferredLocations []string
	Furnishing         string
	Notes              string
}

// CustomerPage is one page of a customer listing.
type CustomerPage struct {
	Customers []domain.Customer
	Total     int64
	Page      int
	Limit     int
}

type CustomerService interface {
	Create(ctx context.Context, in CreateCustomerInput) (*domain.Customer, error)
	List(ctx context.Context, page, limit int) (*CustomerPage, error)
}
