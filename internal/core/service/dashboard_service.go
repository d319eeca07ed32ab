package service

import (
	"context"
	"math"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

type DashboardService struct {
	customers  ports.CustomerRepository
	properties ports.PropertyRepository
	deals      ports.DealRepository
}

func NewDashboardService(customers ports.CustomerRepository, properties ports.PropertyRepository, deals ports.DealRepository) *DashboardService {
	return &DashboardService{customers: customers, properties: properties, deals: deals}
}

// Overview aggregates the dashboard KPIs: entity counts, the deals-by-stage
// pipeline, and the conversion rate (closed deals over all deals).
func (s *DashboardService) Overview(ctx context.Context) (*ports.DashboardOverview, error) {
	propertyCount, err := s.properties.Count(ctx)
	if err != nil {
		return nil, err
	}
	customerCount, err := s.customers.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStage, err := s.deals.CountByStage(ctx)
	if err != nil {
		return nil, err
	}

	var total, closed int64
	for stage, n := range byStage {
		total += n
		if stage == domain.StageClosed {
			closed = n
		}
	}

	conversion := 0.0
	if total > 0 {
		conversion = math.Round(float64(closed)/float64(total)*1000) / 10
	}

	return &ports.DashboardOverview{
		Properties:    propertyCount,
		Customers:     customerCount,
		DealsByStage:  byStage,
		ConversionPct: conversion,
	}, nil
}
