package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

const hashCost = 10

// timingPad is compared against when no account matches the submitted email,
// so the miss path performs the same bcrypt work as the mismatch path.
var timingPad, _ = bcrypt.GenerateFromPassword([]byte("propertydesk-timing-pad"), hashCost)

// AuthService implements registration and credential verification against
// the account store.
type AuthService struct {
	repo   ports.AccountRepository
	logger zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, logger: logger}
}

// Register validates and persists a new admin account, returning its ID.
// On any failure path nothing is written; the store's unique email index is
// the authoritative guard against concurrent duplicates.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return "", &domain.ValidationError{Message: "name, email, password, and confirmPassword are required"}
	}
	if in.Password != in.ConfirmPassword {
		return "", &domain.ValidationError{Message: "passwords do not match"}
	}

	email := normalizeEmail(in.Email)

	// Advisory check only; the unique index catches races.
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return "", &domain.DuplicateError{Field: "email"}
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return "", fmt.Errorf("register: lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), hashCost)
	if err != nil {
		return "", fmt.Errorf("register: hash password: %w", err)
	}

	account := &domain.Account{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Mobile:       strings.TrimSpace(in.Mobile),
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("account_id", created.ID).Str("email", created.Email).Msg("account registered")
	return created.ID, nil
}

// Authenticate verifies submitted credentials and returns the safe claims
// projection. Unknown email, wrong password and disabled account all
// collapse into domain.ErrInvalidCredentials; the reasons are only
// distinguishable in server-side debug logs.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Claims, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Burn the same hashing cost as a real comparison.
			_ = bcrypt.CompareHashAndPassword(timingPad, []byte(password))
			s.logger.Debug().Msg("authentication failed: unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		s.logger.Debug().Str("account_id", account.ID).Msg("authentication failed: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	if !account.Active {
		s.logger.Debug().Str("account_id", account.ID).Msg("authentication failed: account disabled")
		return nil, domain.ErrInvalidCredentials
	}

	return domain.NewClaims(account), nil
}

// normalizeEmail applies the canonical form used for storage and lookups.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
