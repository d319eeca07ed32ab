package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type CustomerService struct {
	repo   ports.CustomerRepository
	logger zerolog.Logger
}

func NewCustomerService(repo ports.CustomerRepository, logger zerolog.Logger) *CustomerService {
	return &CustomerService{repo: repo, logger: logger}
}

// Create persists a new customer record.
func (s *CustomerService) Create(ctx context.Context, in ports.CreateCustomerInput) (*domain.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &domain.ValidationError{Message: "name is required"}
	}
	reqType := domain.RequirementType(in.RequirementType)
	if !reqType.Valid() {
		return nil, &domain.ValidationError{Message: "requirement_type must be one of: rent, sale, lease"}
	}
	if in.BudgetMin > 0 && in.BudgetMax > 0 && in.BudgetMin > in.BudgetMax {
		return nil, &domain.ValidationError{Message: "budget_min cannot exceed budget_max"}
	}

	customer := &domain.Customer{
		Name:               strings.TrimSpace(in.Name),
		Phone:              strings.TrimSpace(in.Phone),
		Email:              normalizeEmail(in.Email),
		Whatsapp:           strings.TrimSpace(in.Whatsapp),
		RequirementType:    reqType,
		PropertyType:       in.PropertyType,
		BudgetMin:          in.BudgetMin,
		BudgetMax:          in.BudgetMax,
		PreferredLocations: in.PreferredLocations,
		Furnishing:         in.Furnishing,
		Notes:              in.Notes,
		CreatedAt:          time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("customer_id", created.ID).Str("requirement", string(created.RequirementType)).Msg("customer created")
	return created, nil
}

// List returns one page of customers, newest first.
func (s *CustomerService) List(ctx context.Context, page, limit int) (*ports.CustomerPage, error) {
	page, limit = clampPage(page, limit)

	customers, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.CustomerPage{Customers: customers, Total: total, Page: page, Limit: limit}, nil
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
