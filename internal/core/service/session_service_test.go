package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

type memRevocationStore struct {
	revoked map[string]bool
	err     error
}

func newMemRevocationStore() *memRevocationStore {
	return &memRevocationStore{revoked: make(map[string]bool)}
}

func (s *memRevocationStore) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.revoked[tokenID] = true
	return nil
}

func (s *memRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[tokenID], nil
}

func testClaims() *domain.Claims {
	return &domain.Claims{
		AccountID: "acc_1",
		Email:     "jane@example.com",
		Name:      "Jane Doe",
		Role:      domain.RoleAdmin,
		Mobile:    "5551234",
		Active:    true,
	}
}

func newTestSessionService(revoked ports.RevocationStore) *SessionService {
	return NewSessionService("test-secret", 24*time.Hour, time.Hour, "http://localhost:8080", revoked, zerolog.Nop())
}

func TestSessionService_IssueVerify_Roundtrip(t *testing.T) {
	svc := newTestSessionService(newMemRevocationStore())

	token, err := svc.Issue(testClaims())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	got, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	want := testClaims()
	if *got != *want {
		t.Fatalf("claims roundtrip mismatch: got %+v want %+v", got, want)
	}
}

func TestSessionService_Verify_Tampered(t *testing.T) {
	svc := newTestSessionService(newMemRevocationStore())

	token, err := svc.Issue(testClaims())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token format")
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := svc.Verify(context.Background(), tampered); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for tampered token, got %v", err)
	}
}

func TestSessionService_Verify_WrongSecret(t *testing.T) {
	issuer := newTestSessionService(newMemRevocationStore())
	verifier := NewSessionService("other-secret", 24*time.Hour, time.Hour, "http://localhost:8080", newMemRevocationStore(), zerolog.Nop())

	token, err := issuer.Issue(testClaims())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := verifier.Verify(context.Background(), token); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for foreign signature, got %v", err)
	}
}

func TestSessionService_Verify_Expired(t *testing.T) {
	svc := newTestSessionService(newMemRevocationStore())

	base := time.Now()
	svc.now = func() time.Time { return base }

	token, err := svc.Issue(testClaims())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	svc.now = func() time.Time { return base.Add(25 * time.Hour) }
	if _, err := svc.Verify(context.Background(), token); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid after expiry, got %v", err)
	}
}

func TestSessionService_Refresh_SlidingWindow(t *testing.T) {
	svc := newTestSessionService(newMemRevocationStore())

	base := time.Now()
	svc.now = func() time.Time { return base }

	token, err := svc.Issue(testClaims())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Young token: returned untouched.
	same, rotated, err := svc.Refresh(context.Background(), token)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if rotated || same != token {
		t.Fatalf("expected no rotation for young token")
	}

	// Past the refresh window: reissued with a later expiry.
	svc.now = func() time.Time { return base.Add(2 * time.Hour) }
	fresh, rotated, err := svc.Refresh(context.Background(), token)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if !rotated {
		t.Fatalf("expected rotation after refresh window")
	}
	if fresh == token {
		t.Fatalf("expected a new token")
	}
	if _, err := svc.Verify(context.Background(), fresh); err != nil {
		t.Fatalf("fresh token failed verification: %v", err)
	}
}

func TestSessionService_Update_PatchesNameAndMobileOnly(t *testing.T) {
	svc := newTestSessionService(newMemRevocationStore())

	token, err := svc.Issue(testClaims())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	name := "Jane Smith"
	mobile := "5559999"
	fresh, err := svc.Update(context.Background(), token, ports.ClaimsPatch{Name: &name, Mobile: &mobile})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, err := svc.Verify(context.Background(), fresh)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if got.Name != "Jane Smith" || got.Mobile != "5559999" {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.AccountID != "acc_1" || got.Email != "jane@example.com" || got.Role != domain.RoleAdmin {
		t.Fatalf("identity fields must not change: %+v", got)
	}
}

func TestSessionService_Revoke(t *testing.T) {
	store := newMemRevocationStore()
	svc := newTestSessionService(store)

	token, err := svc.Issue(testClaims())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if err := svc.Revoke(context.Background(), token); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if _, err := svc.Verify(context.Background(), token); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid after revocation, got %v", err)
	}

	// Revoking garbage is a no-op, not an error.
	if err := svc.Revoke(context.Background(), "not-a-token"); err != nil {
		t.Fatalf("Revoke of invalid token should be nil, got %v", err)
	}
}

func TestSessionService_Verify_RevocationStoreDown(t *testing.T) {
	store := newMemRevocationStore()
	svc := newTestSessionService(store)

	token, err := svc.Issue(testClaims())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Fail open on store errors: the signature still vouches for the token.
	store.err = errors.New("redis down")
	if _, err := svc.Verify(context.Background(), token); err != nil {
		t.Fatalf("expected fail-open verify, got %v", err)
	}
}

func TestSessionService_ResolveRedirect(t *testing.T) {
	svc := newTestSessionService(newMemRevocationStore())

	cases := []struct {
		name   string
		target string
		want   string
	}{
		{"empty falls back to landing", "", "http://localhost:8080/dashboard"},
		{"relative path joins base", "/customers", "http://localhost:8080/customers"},
		{"scheme-relative rejected", "//evil.com/x", "http://localhost:8080/dashboard"},
		{"same origin absolute kept", "http://localhost:8080/deals", "http://localhost:8080/deals"},
		{"foreign origin rejected", "http://evil.com/deals", "http://localhost:8080/dashboard"},
		{"wrong scheme rejected", "https://localhost:8080/deals", "http://localhost:8080/dashboard"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := svc.ResolveRedirect(tc.target); got != tc.want {
				t.Fatalf("ResolveRedirect(%q) = %q, want %q", tc.target, got, tc.want)
			}
		})
	}
}
