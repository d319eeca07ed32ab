package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

type stubDealRepo struct {
	deals  map[string]*domain.Deal
	nextID int
}

func newStubDealRepo() *stubDealRepo {
	return &stubDealRepo{deals: make(map[string]*domain.Deal)}
}

func (r *stubDealRepo) Create(_ context.Context, deal *domain.Deal) (*domain.Deal, error) {
	clone := *deal
	r.nextID++
	clone.ID = fmt.Sprintf("deal_%d", r.nextID)
	r.deals[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubDealRepo) FindByID(_ context.Context, id string) (*domain.Deal, error) {
	deal, ok := r.deals[id]
	if !ok {
		return nil, domain.ErrDealNotFound
	}
	clone := *deal
	return &clone, nil
}

func (r *stubDealRepo) UpdateStage(_ context.Context, id string, stage domain.DealStage, entry domain.StageHistoryEntry) error {
	deal, ok := r.deals[id]
	if !ok {
		return domain.ErrDealNotFound
	}
	deal.Stage = stage
	deal.StageHistory = append(deal.StageHistory, entry)
	return nil
}

func (r *stubDealRepo) List(_ context.Context, _, _ int) ([]domain.Deal, int64, error) {
	out := make([]domain.Deal, 0, len(r.deals))
	for _, d := range r.deals {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *stubDealRepo) CountByStage(_ context.Context) (map[domain.DealStage]int64, error) {
	counts := make(map[domain.DealStage]int64)
	for _, d := range r.deals {
		counts[d.Stage]++
	}
	return counts, nil
}

type stubPropertyRepo struct {
	properties map[string]*domain.Property
	statusLog  []domain.PropertyStatus
}

func newStubPropertyRepo() *stubPropertyRepo {
	return &stubPropertyRepo{properties: make(map[string]*domain.Property)}
}

func (r *stubPropertyRepo) Create(_ context.Context, property *domain.Property) (*domain.Property, error) {
	clone := *property
	r.properties[clone.Code] = &clone
	out := clone
	return &out, nil
}

func (r *stubPropertyRepo) FindByCode(_ context.Context, code string) (*domain.Property, error) {
	property, ok := r.properties[code]
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	clone := *property
	return &clone, nil
}

func (r *stubPropertyRepo) UpdateStatus(_ context.Context, code string, status domain.PropertyStatus) error {
	property, ok := r.properties[code]
	if !ok {
		return domain.ErrPropertyNotFound
	}
	property.Status = status
	r.statusLog = append(r.statusLog, status)
	return nil
}

func (r *stubPropertyRepo) List(_ context.Context, _, _ int) ([]domain.Property, int64, error) {
	return nil, 0, nil
}

func (r *stubPropertyRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.properties)), nil
}

func newTestDealService(deals ports.DealRepository, properties ports.PropertyRepository) *DealService {
	return NewDealService(deals, properties, zerolog.Nop())
}

func TestDealService_Create_StartsAtEnquiry(t *testing.T) {
	repo := newStubDealRepo()
	propertyRepo := newStubPropertyRepo()
	propertyRepo.properties["PD-00000001"] = &domain.Property{Code: "PD-00000001", Status: domain.PropertyAvailable}
	svc := newTestDealService(repo, propertyRepo)

	deal, err := svc.Create(context.Background(), ports.CreateDealInput{
		CustomerID: "cust_1",
		PropertyID: "PD-00000001",
		Value:      2500000,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if deal.Stage != domain.StageEnquiry {
		t.Fatalf("expected new deal at enquiry, got %s", deal.Stage)
	}
	if len(deal.StageHistory) != 1 || deal.StageHistory[0].Stage != domain.StageEnquiry {
		t.Fatalf("expected initial history entry, got %+v", deal.StageHistory)
	}
}

func TestDealService_Create_Validation(t *testing.T) {
	svc := newTestDealService(newStubDealRepo(), newStubPropertyRepo())

	if _, err := svc.Create(context.Background(), ports.CreateDealInput{PropertyID: "PD-1"}); !isValidation(err) {
		t.Fatalf("expected ValidationError for missing customer, got %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.CreateDealInput{CustomerID: "cust_1"}); !isValidation(err) {
		t.Fatalf("expected ValidationError for missing property, got %v", err)
	}
}

func TestDealService_Create_UnknownProperty(t *testing.T) {
	svc := newTestDealService(newStubDealRepo(), newStubPropertyRepo())

	_, err := svc.Create(context.Background(), ports.CreateDealInput{CustomerID: "cust_1", PropertyID: "PD-ghost"})
	if !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound for dangling listing code, got %v", err)
	}
}

func TestDealService_AdvanceStage_SingleStepOnly(t *testing.T) {
	repo := newStubDealRepo()
	propertyRepo := newStubPropertyRepo()
	propertyRepo.properties["PD-1"] = &domain.Property{Code: "PD-1", Status: domain.PropertyAvailable}
	svc := newTestDealService(repo, propertyRepo)

	deal, err := svc.Create(context.Background(), ports.CreateDealInput{CustomerID: "cust_1", PropertyID: "PD-1"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Skipping a stage is rejected.
	if _, err := svc.AdvanceStage(context.Background(), deal.ID, domain.StageNegotiation, ""); !errors.Is(err, domain.ErrInvalidStageTransition) {
		t.Fatalf("expected ErrInvalidStageTransition for skip, got %v", err)
	}

	// The adjacent stage is accepted and recorded.
	advanced, err := svc.AdvanceStage(context.Background(), deal.ID, domain.StageSiteVisit, "visited on Saturday")
	if err != nil {
		t.Fatalf("AdvanceStage returned error: %v", err)
	}
	if advanced.Stage != domain.StageSiteVisit {
		t.Fatalf("expected site_visit, got %s", advanced.Stage)
	}
	if last := advanced.StageHistory[len(advanced.StageHistory)-1]; last.Notes != "visited on Saturday" {
		t.Fatalf("expected notes on history entry, got %+v", last)
	}

	// Moving backwards is rejected.
	if _, err := svc.AdvanceStage(context.Background(), deal.ID, domain.StageEnquiry, ""); !errors.Is(err, domain.ErrInvalidStageTransition) {
		t.Fatalf("expected ErrInvalidStageTransition for backwards move, got %v", err)
	}
}

func TestDealService_AdvanceStage_UnknownStage(t *testing.T) {
	svc := newTestDealService(newStubDealRepo(), newStubPropertyRepo())

	if _, err := svc.AdvanceStage(context.Background(), "deal_1", "paused", ""); !isValidation(err) {
		t.Fatalf("expected ValidationError for unknown stage, got %v", err)
	}
}

func TestDealService_AdvanceStage_NotFound(t *testing.T) {
	svc := newTestDealService(newStubDealRepo(), newStubPropertyRepo())

	if _, err := svc.AdvanceStage(context.Background(), "ghost", domain.StageSiteVisit, ""); !errors.Is(err, domain.ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
}

func TestDealService_Close_ClosesBookedProperty(t *testing.T) {
	dealRepo := newStubDealRepo()
	propertyRepo := newStubPropertyRepo()
	propertyRepo.properties["PD-1"] = &domain.Property{Code: "PD-1", Status: domain.PropertyBooked}
	svc := newTestDealService(dealRepo, propertyRepo)

	deal, err := svc.Create(context.Background(), ports.CreateDealInput{CustomerID: "cust_1", PropertyID: "PD-1"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	for _, next := range []domain.DealStage{domain.StageSiteVisit, domain.StageNegotiation, domain.StageAgreement, domain.StageClosed} {
		if _, err := svc.AdvanceStage(context.Background(), deal.ID, next, ""); err != nil {
			t.Fatalf("AdvanceStage to %s failed: %v", next, err)
		}
	}

	if propertyRepo.properties["PD-1"].Status != domain.PropertyClosed {
		t.Fatalf("expected property closed with deal, got %s", propertyRepo.properties["PD-1"].Status)
	}

	// A closed deal is terminal.
	if _, err := svc.AdvanceStage(context.Background(), deal.ID, domain.StageClosed, ""); !errors.Is(err, domain.ErrInvalidStageTransition) {
		t.Fatalf("expected ErrInvalidStageTransition from closed, got %v", err)
	}
}

func TestDealService_Close_MissingPropertyIsBestEffort(t *testing.T) {
	dealRepo := newStubDealRepo()
	propertyRepo := newStubPropertyRepo()
	propertyRepo.properties["PD-gone"] = &domain.Property{Code: "PD-gone", Status: domain.PropertyBooked}
	svc := newTestDealService(dealRepo, propertyRepo)

	deal, err := svc.Create(context.Background(), ports.CreateDealInput{CustomerID: "cust_1", PropertyID: "PD-gone"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// The listing disappears between the deal opening and its close.
	delete(propertyRepo.properties, "PD-gone")
	for _, next := range []domain.DealStage{domain.StageSiteVisit, domain.StageNegotiation, domain.StageAgreement, domain.StageClosed} {
		if _, err := svc.AdvanceStage(context.Background(), deal.ID, next, ""); err != nil {
			t.Fatalf("AdvanceStage to %s failed: %v", next, err)
		}
	}
}
