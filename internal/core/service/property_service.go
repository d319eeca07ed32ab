package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

type PropertyService struct {
	repo   ports.PropertyRepository
	logger zerolog.Logger
}

func NewPropertyService(repo ports.PropertyRepository, logger zerolog.Logger) *PropertyService {
	return &PropertyService{repo: repo, logger: logger}
}

// Create persists a new listing. New listings always start available.
func (s *PropertyService) Create(ctx context.Context, in ports.CreatePropertyInput) (*domain.Property, error) {
	txType := domain.RequirementType(in.TransactionType)
	if !txType.Valid() {
		return nil, &domain.ValidationError{Message: "transaction_type must be one of: rent, sale, lease"}
	}
	if strings.TrimSpace(in.Location) == "" || strings.TrimSpace(in.Type) == "" {
		return nil, &domain.ValidationError{Message: "type and location are required"}
	}
	if in.PriceOrRent <= 0 {
		return nil, &domain.ValidationError{Message: "price_or_rent must be positive"}
	}

	property := &domain.Property{
		Code:            generatePropertyCode(),
		Owner:           strings.TrimSpace(in.Owner),
		TransactionType: txType,
		Type:            in.Type,
		Location:        strings.TrimSpace(in.Location),
		SizeSqft:        in.SizeSqft,
		PriceOrRent:     in.PriceOrRent,
		Furnishing:      in.Furnishing,
		Status:          domain.PropertyAvailable,
		CreatedAt:       time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, property)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", created.Code).Str("location", created.Location).Msg("property listed")
	return created, nil
}

// ChangeStatus moves a listing through its market state machine.
func (s *PropertyService) ChangeStatus(ctx context.Context, code string, next domain.PropertyStatus) (*domain.Property, error) {
	property, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !property.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidStatusChange, property.Status, next)
	}

	if err := s.repo.UpdateStatus(ctx, code, next); err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", code).Str("from", string(property.Status)).Str("to", string(next)).Msg("property status changed")
	property.Status = next
	return property, nil
}

// List returns one page of listings, newest first.
func (s *PropertyService) List(ctx context.Context, page, limit int) (*ports.PropertyPage, error) {
	page, limit = clampPage(page, limit)

	properties, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.PropertyPage{Properties: properties, Total: total, Page: page, Limit: limit}, nil
}

// generatePropertyCode returns a listing code in the format PD-XXXXXXXX.
func generatePropertyCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("PD-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("PD-%08X", b)
}
