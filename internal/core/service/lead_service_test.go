package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

type stubCustomerRepo struct {
	customers []*domain.Customer
	nextID    int
}

func (r *stubCustomerRepo) Create(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	clone := *customer
	r.nextID++
	clone.ID = fmt.Sprintf("cust_%d", r.nextID)
	r.customers = append(r.customers, &clone)
	out := clone
	return &out, nil
}

func (r *stubCustomerRepo) FindByContact(_ context.Context, email, phone string) (*domain.Customer, error) {
	for _, c := range r.customers {
		if (email != "" && c.Email == email) || (phone != "" && c.Phone == phone) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (r *stubCustomerRepo) List(_ context.Context, _, _ int) ([]domain.Customer, int64, error) {
	out := make([]domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCustomerRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.customers)), nil
}

type stubDedup struct {
	seen map[string]bool
	err  error
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (d *stubDedup) key(contact, source string) string { return contact + "|" + source }

func (d *stubDedup) IsDuplicate(_ context.Context, contact, source string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	return d.seen[d.key(contact, source)], nil
}

func (d *stubDedup) Mark(_ context.Context, contact, source string) error {
	if d.err != nil {
		return d.err
	}
	d.seen[d.key(contact, source)] = true
	return nil
}

func websiteLead() ports.LeadInput {
	return ports.LeadInput{
		Name:            "Ravi Kumar",
		Email:           "Ravi@Example.com",
		Phone:           "5550001",
		Source:          "website",
		RequirementType: "sale",
		PropertyType:    "apartment",
		Location:        "Downtown",
		Notes:           "looking for 2BHK",
	}
}

func TestLeadService_Process_CreatesCustomer(t *testing.T) {
	repo := &stubCustomerRepo{}
	svc := NewLeadService(repo, newStubDedup(), zerolog.Nop())

	if err := svc.Process(context.Background(), websiteLead()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if len(repo.customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(repo.customers))
	}
	created := repo.customers[0]
	if created.Email != "ravi@example.com" {
		t.Fatalf("expected normalized email, got %s", created.Email)
	}
	if created.Source != "website" {
		t.Fatalf("expected source carried over, got %s", created.Source)
	}
	if created.RequirementType != domain.RequirementSale {
		t.Fatalf("unexpected requirement type: %s", created.RequirementType)
	}
	if len(created.PreferredLocations) != 1 || created.PreferredLocations[0] != "Downtown" {
		t.Fatalf("expected location mapped to preferences, got %v", created.PreferredLocations)
	}
}

func TestLeadService_Process_DuplicateSubmissionSkipped(t *testing.T) {
	repo := &stubCustomerRepo{}
	dedup := newStubDedup()
	svc := NewLeadService(repo, dedup, zerolog.Nop())

	lead := websiteLead()
	if err := svc.Process(context.Background(), lead); err != nil {
		t.Fatalf("first Process failed: %v", err)
	}
	if err := svc.Process(context.Background(), lead); err != nil {
		t.Fatalf("duplicate Process failed: %v", err)
	}

	if len(repo.customers) != 1 {
		t.Fatalf("duplicate submission created a second customer")
	}
}

func TestLeadService_Process_ExistingCustomerNotRecreated(t *testing.T) {
	repo := &stubCustomerRepo{}
	dedup := newStubDedup()
	svc := NewLeadService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), websiteLead()); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	// Same contact arriving from a fresh source matches the existing record.
	fromPortal := websiteLead()
	fromPortal.Source = "property-portal"
	if err := svc.Process(context.Background(), fromPortal); err != nil {
		t.Fatalf("Process from second source failed: %v", err)
	}

	if len(repo.customers) != 1 {
		t.Fatalf("expected contact match to suppress creation, got %d customers", len(repo.customers))
	}
	if !dedup.seen["ravi@example.com|property-portal"] {
		t.Fatalf("expected dedup key set for the second source")
	}
}

func TestLeadService_Process_MissingContactRejected(t *testing.T) {
	svc := NewLeadService(&stubCustomerRepo{}, newStubDedup(), zerolog.Nop())

	lead := websiteLead()
	lead.Email = ""
	lead.Phone = ""
	if err := svc.Process(context.Background(), lead); !isValidation(err) {
		t.Fatalf("expected ValidationError without contact, got %v", err)
	}

	lead = websiteLead()
	lead.Name = ""
	if err := svc.Process(context.Background(), lead); !isValidation(err) {
		t.Fatalf("expected ValidationError without name, got %v", err)
	}
}

func TestLeadService_Process_UnknownRequirementDefaultsToRent(t *testing.T) {
	repo := &stubCustomerRepo{}
	svc := NewLeadService(repo, newStubDedup(), zerolog.Nop())

	lead := websiteLead()
	lead.RequirementType = "mystery"
	if err := svc.Process(context.Background(), lead); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if repo.customers[0].RequirementType != domain.RequirementRent {
		t.Fatalf("expected rent default, got %s", repo.customers[0].RequirementType)
	}
}

func TestLeadService_Process_DedupStoreDownFailsOpen(t *testing.T) {
	repo := &stubCustomerRepo{}
	dedup := newStubDedup()
	dedup.err = fmt.Errorf("redis down")
	svc := NewLeadService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), websiteLead()); err != nil {
		t.Fatalf("expected fail-open processing, got %v", err)
	}
	if len(repo.customers) != 1 {
		t.Fatalf("expected customer created despite dedup outage")
	}
}
