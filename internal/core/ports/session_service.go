package ports

import (
	"context"
	"time"

	"github.com/propertydesk/crm-api/internal/core/domain"
)

// ClaimsPatch is the partial update a client may push onto its own session.
// Only name and mobile are patchable; id, email, role and the active flag
// are fixed at issuance.
type ClaimsPatch struct {
	Name   *string
	Mobile *string
}

// SessionService mints, verifies and maintains signed session tokens.
//
// Verify fails with domain.ErrSessionInvalid on any tampering, expiry or
// revocation. Refresh reissues a token whose age exceeds the refresh window
// (sliding expiry); the second return value reports whether rotation
// happened.
type SessionService interface {
	Issue(claims *domain.Claims) (string, error)
	Verify(ctx context.Context, token string) (*domain.Claims, error)
	Refresh(ctx context.Context, token string) (string, bool, error)
	Update(ctx context.Context, token string, patch ClaimsPatch) (string, error)
	Revoke(ctx context.Context, token string) error
	ResolveRedirect(target string) string
	TTL() time.Duration
}

// RevocationStore records revoked token IDs until their natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
