package ports

import (
	"context"

	"github.com/propertydesk/crm-api/internal/core/domain"
)

// DashboardOverview is the KPI snapshot shown on the dashboard.
type DashboardOverview struct {
	Properties    int64                      `json:"properties"`
	Customers     int64                      `json:"customers"`
	DealsByStage  map[domain.DealStage]int64 `json:"deals_by_stage"`
	ConversionPct float64                    `json:"conversion_pct"`
}

type DashboardService interface {
	Overview(ctx context.Context) (*DashboardOverview, error)
}
