package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

type DealService struct {
	repo     ports.DealRepository
	property ports.PropertyRepository
	logger   zerolog.Logger
}

func NewDealService(repo ports.DealRepository, property ports.PropertyRepository, logger zerolog.Logger) *DealService {
	return &DealService{repo: repo, property: property, logger: logger}
}

// Create opens a new deal at the enquiry stage.
func (s *DealService) Create(ctx context.Context, in ports.CreateDealInput) (*domain.Deal, error) {
	if in.CustomerID == "" || in.PropertyID == "" {
		return nil, &domain.ValidationError{Message: "customer_id and property_id are required"}
	}

	// The property_id carries the listing code; reject dangling references
	// before anything is written.
	if _, err := s.property.FindByCode(ctx, in.PropertyID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	deal := &domain.Deal{
		CustomerID:    in.CustomerID,
		PropertyID:    in.PropertyID,
		Stage:         domain.StageEnquiry,
		Value:         in.Value,
		AssignedAgent: in.AssignedAgent,
		FollowUpAt:    in.FollowUpAt,
		CreatedAt:     now,
		StageHistory: []domain.StageHistoryEntry{
			{Stage: domain.StageEnquiry, Timestamp: now},
		},
	}

	created, err := s.repo.Create(ctx, deal)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("deal_id", created.ID).Str("customer_id", created.CustomerID).Str("property_id", created.PropertyID).Msg("deal opened")
	return created, nil
}

// AdvanceStage moves a deal forward through the pipeline, recording the
// change in its history. Closing a deal also closes a booked property.
func (s *DealService) AdvanceStage(ctx context.Context, id string, next domain.DealStage, notes string) (*domain.Deal, error) {
	if !next.Valid() {
		return nil, &domain.ValidationError{Message: "unknown deal stage"}
	}

	deal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !deal.Stage.CanAdvanceTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidStageTransition, deal.Stage, next)
	}

	entry := domain.StageHistoryEntry{Stage: next, Timestamp: time.Now().UTC(), Notes: notes}
	if err := s.repo.UpdateStage(ctx, id, next, entry); err != nil {
		return nil, err
	}

	if next == domain.StageClosed {
		s.closeProperty(ctx, deal.PropertyID)
	}

	s.logger.Info().Str("deal_id", id).Str("from", string(deal.Stage)).Str("to", string(next)).Msg("deal advanced")
	deal.Stage = next
	deal.StageHistory = append(deal.StageHistory, entry)
	return deal, nil
}

// List returns one page of deals, newest first.
func (s *DealService) List(ctx context.Context, page, limit int) (*ports.DealPage, error) {
	page, limit = clampPage(page, limit)

	deals, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.DealPage{Deals: deals, Total: total, Page: page, Limit: limit}, nil
}

// closeProperty is best-effort: a deal close must not fail because the
// listing was already closed or removed.
func (s *DealService) closeProperty(ctx context.Context, propertyID string) {
	property, err := s.property.FindByCode(ctx, propertyID)
	if err != nil {
		s.logger.Warn().Err(err).Str("property_id", propertyID).Msg("closed deal references missing property")
		return
	}
	if !property.Status.CanTransitionTo(domain.PropertyClosed) {
		return
	}
	if err := s.property.UpdateStatus(ctx, property.Code, domain.PropertyClosed); err != nil {
		s.logger.Warn().Err(err).Str("property_id", propertyID).Msg("failed to close property with deal")
	}
}
