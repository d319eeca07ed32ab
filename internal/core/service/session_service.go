package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

const (
	defaultSessionTTL   = 24 * time.Hour
	defaultRefreshAfter = time.Hour
	defaultLanding      = "/dashboard"
)

// sessionClaims is the wire form of a session token. Subject carries the
// account ID, ID the revocation handle (jti).
type sessionClaims struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Mobile string `json:"mobile,omitempty"`
	Active bool   `json:"active"`
	jwt.RegisteredClaims
}

// SessionService mints and maintains HS256-signed session tokens. Token
// verification is pure except for the revocation lookup; any tampering
// fails verification rather than substituting claims.
type SessionService struct {
	secret       []byte
	ttl          time.Duration
	refreshAfter time.Duration
	baseURL      *url.URL
	revoked      ports.RevocationStore
	logger       zerolog.Logger
	now          func() time.Time
}

func NewSessionService(secret string, ttl, refreshAfter time.Duration, baseURL string, revoked ports.RevocationStore, logger zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if refreshAfter <= 0 {
		refreshAfter = defaultRefreshAfter
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		base = &url.URL{Scheme: "http", Host: "localhost:8080"}
	}
	return &SessionService{
		secret:       []byte(secret),
		ttl:          ttl,
		refreshAfter: refreshAfter,
		baseURL:      base,
		revoked:      revoked,
		logger:       logger,
		now:          time.Now,
	}
}

// Issue signs a fresh token carrying the given claims.
func (s *SessionService) Issue(claims *domain.Claims) (string, error) {
	now := s.now().UTC()
	sc := sessionClaims{
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   string(claims.Role),
		Mobile: claims.Mobile,
		Active: claims.Active,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.AccountID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sc)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (s *SessionService) Verify(ctx context.Context, token string) (*domain.Claims, error) {
	sc, err := s.parse(token)
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}

	if s.revoked != nil && sc.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, sc.ID)
		if err != nil {
			s.logger.Warn().Err(err).Msg("revocation check failed, trusting token signature")
		} else if revoked {
			return nil, domain.ErrSessionInvalid
		}
	}

	role := domain.Role(sc.Role)
	if !role.Valid() {
		return nil, domain.ErrSessionInvalid
	}

	return &domain.Claims{
		AccountID: sc.Subject,
		Email:     sc.Email,
		Name:      sc.Name,
		Role:      role,
		Mobile:    sc.Mobile,
		Active:    sc.Active,
	}, nil
}

// Refresh reissues the token when its age exceeds the refresh window,
// implementing sliding expiry. A young token is returned untouched.
func (s *SessionService) Refresh(ctx context.Context, token string) (string, bool, error) {
	claims, err := s.Verify(ctx, token)
	if err != nil {
		return "", false, err
	}

	sc, err := s.parse(token)
	if err != nil {
		return "", false, domain.ErrSessionInvalid
	}
	if sc.IssuedAt == nil || s.now().Sub(sc.IssuedAt.Time) < s.refreshAfter {
		return token, false, nil
	}

	fresh, err := s.Issue(claims)
	if err != nil {
		return "", false, err
	}
	return fresh, true, nil
}

// Update applies a partial claims patch and reissues the token. Only name
// and mobile may change; identity and role fields are carried over as-is.
func (s *SessionService) Update(ctx context.Context, token string, patch ports.ClaimsPatch) (string, error) {
	claims, err := s.Verify(ctx, token)
	if err != nil {
		return "", err
	}
	if patch.Name != nil {
		claims.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Mobile != nil {
		claims.Mobile = strings.TrimSpace(*patch.Mobile)
	}
	return s.Issue(claims)
}

// Revoke denylists the token's jti for its remaining lifetime. Invalid or
// already-expired tokens are a no-op.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	sc, err := s.parse(token)
	if err != nil || sc.ID == "" || sc.ExpiresAt == nil {
		return nil
	}
	remaining := time.Until(sc.ExpiresAt.Time)
	if remaining <= 0 || s.revoked == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, sc.ID, remaining)
}

// ResolveRedirect resolves a post-login target against the service base
// URL. Relative targets are joined to the base; absolute targets must match
// the base origin or they fall back to the default landing page.
func (s *SessionService) ResolveRedirect(target string) string {
	if target == "" {
		return s.origin() + defaultLanding
	}
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return s.origin() + target
	}

	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return s.origin() + defaultLanding
	}
	if u.Scheme == s.baseURL.Scheme && u.Host == s.baseURL.Host {
		return target
	}
	return s.origin() + defaultLanding
}

// TTL reports the absolute token lifetime, used to bound cookie age.
func (s *SessionService) TTL() time.Duration { return s.ttl }

func (s *SessionService) origin() string {
	return s.baseURL.Scheme + "://" + s.baseURL.Host
}

func (s *SessionService) parse(token string) (*sessionClaims, error) {
	sc := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, sc, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrSessionInvalid
	}
	return sc, nil
}
