package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

// LeadDedupChecker abstracts the idempotency store (Redis) for lead
// submissions.
type LeadDedupChecker interface {
	IsDuplicate(ctx context.Context, contact, source string) (bool, error)
	Mark(ctx context.Context, contact, source string) error
}

type leadService struct {
	customers ports.CustomerRepository
	dedup     LeadDedupChecker
	log       zerolog.Logger
}

// NewLeadService returns a LeadService that materializes deduplicated
// marketing leads as customer records.
func NewLeadService(customers ports.CustomerRepository, dedup LeadDedupChecker, log zerolog.Logger) ports.LeadService {
	return &leadService{customers: customers, dedup: dedup, log: log}
}

// Process validates, deduplicates, and persists a single lead.
func (s *leadService) Process(ctx context.Context, in ports.LeadInput) error {
	contact := in.ContactKey()
	if contact == "" || in.Name == "" {
		return fmt.Errorf("process lead: %w", &domain.ValidationError{Message: "lead needs a name and an email or phone"})
	}

	// Submission-level dedup: the same contact from the same source within
	// the TTL window is silently skipped.
	isDup, err := s.dedup.IsDuplicate(ctx, contact, in.Source)
	if err != nil {
		s.log.Warn().Err(err).Str("contact", contact).Msg("lead dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("contact", contact).Str("source", in.Source).Msg("duplicate lead skipped")
		return nil
	}

	// A known customer resubmitting from a new source is not an error; the
	// lead is dropped and the dedup key still set.
	if existing, err := s.customers.FindByContact(ctx, normalizeEmail(in.Email), in.Phone); err == nil && existing != nil {
		s.log.Debug().Str("customer_id", existing.ID).Str("source", in.Source).Msg("lead matches existing customer")
		s.mark(ctx, contact, in.Source)
		return nil
	} else if err != nil && !errors.Is(err, domain.ErrCustomerNotFound) {
		return fmt.Errorf("process lead: lookup: %w", err)
	}

	reqType := domain.RequirementType(in.RequirementType)
	if !reqType.Valid() {
		reqType = domain.RequirementRent
	}

	customer := &domain.Customer{
		Name:            in.Name,
		Phone:           in.Phone,
		Email:           normalizeEmail(in.Email),
		RequirementType: reqType,
		PropertyType:    in.PropertyType,
		Notes:           in.Notes,
		Source:          in.Source,
		CreatedAt:       time.Now().UTC(),
	}
	if in.Location != "" {
		customer.PreferredLocations = []string{in.Location}
	}

	created, err := s.customers.Create(ctx, customer)
	if err != nil {
		return fmt.Errorf("process lead: create customer: %w", err)
	}

	s.mark(ctx, contact, in.Source)
	s.log.Info().Str("customer_id", created.ID).Str("source", in.Source).Msg("lead converted to customer")
	return nil
}

func (s *leadService) mark(ctx context.Context, contact, source string) {
	if err := s.dedup.Mark(ctx, contact, source); err != nil {
		s.log.Warn().Err(err).Str("contact", contact).Msg("failed to set lead dedup key")
	}
}
