package ports

import (
	"context"
	"strings"
)

// LeadInput is a raw marketing-site lead submission.
type LeadInput struct {
	Name            string
	Phone           string
	Email           string
	Source          string
	RequirementType string
	PropertyType    string
	Location        string
	Notes           string
}

// ContactKey returns the identity used for dedup and worker sharding:
// email when present, phone otherwise. Email is case-folded so casing
// variants of one address dedup together.
func (in LeadInput) ContactKey() string {
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" {
		return email
	}
	return strings.TrimSpace(in.Phone)
}

// LeadService turns deduplicated lead submissions into customer records.
type LeadService interface {
	Process(ctx context.Context, in LeadInput) error
}
