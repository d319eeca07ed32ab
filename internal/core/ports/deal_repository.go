package ports

import (
	"context"

	"github.com/propertydesk/crm-api/internal/core/domain"
)

// DealRepository defines the interface for deal persistence.
type DealRepository interface {
	Create(ctx context.Context, deal *domain.Deal) (*domain.Deal, error)
	FindByID(ctx context.Context, id string) (*domain.Deal, error)
	UpdateStage(ctx context.Context, id string, stage domain.DealStage, entry domain.StageHistoryEntry) error
	List(ctx context.Context, page, limit int) ([]domain.Deal, int64, error)
	CountByStage(ctx context.Context) (map[domain.DealStage]int64, error)
}
