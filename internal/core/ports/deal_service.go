package ports

import (
	"context"
	"time"

	"github.com/propertydesk/crm-api/internal/core/domain"
)

// CreateDealInput carries a new deal from the transport layer.
type CreateDealInput struct {
	CustomerID    string
	PropertyID    string
	Value         int64
	AssignedAgent string
	FollowUpAt    *time.Time
}

// DealPage is one page of a deal listing.
type DealPage struct {
	Deals []domain.Deal
	Total int64
	Page  int
	Limit int
}

type DealService interface {
	Create(ctx context.Context, in CreateDealInput) (*domain.Deal, error)
	AdvanceStage(ctx context.Context, id string, next domain.DealStage, notes string) (*domain.Deal, error)
	List(ctx context.Context, page, limit int) (*DealPage, error)
}
