package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"happythoughts/internal/auth"
	apperrors "happythoughts/internal/errors"
	"happythoughts/internal/metrics"
	"happythoughts/internal/model"
	"happythoughts/internal/repository"
)

const (
	// MinPasswordLength is counted in characters, not bytes.
	MinPasswordLength = 5
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes = 72

	dummyPassword = "happythoughts-timing-guard"
)

// AuthService handles sign-up, sign-in and access token checks.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.Identity, error)
	Authenticate(ctx context.Context, username, password string) (*model.Identity, error)
	ValidateToken(ctx context.Context, token string) (*model.Identity, error)
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     auth.PasswordHasher
	tokens     auth.TokenGenerator
	tokenCache auth.TokenCacheInterface

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens auth.TokenGenerator,
	tokenCache auth.TokenCacheInterface,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		tokens:     tokens,
		tokenCache: tokenCache,
	}
}

// Register creates a user with a hashed password and a fresh access token.
// Username uniqueness is left to the store's unique index.
func (s *authService) Register(ctx context.Context, username, password string) (*model.Identity, error) {
	if strings.TrimSpace(username) == "" {
		metrics.SignupsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, apperrors.Validation("Username is required")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		metrics.SignupsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, apperrors.Validation(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}
	if len(password) > MaxPasswordBytes {
		metrics.SignupsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, apperrors.Validation(fmt.Sprintf("Password must be at most %d bytes long", MaxPasswordBytes))
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	token, err := s.tokens.NewToken()
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hashedPassword,
		AccessToken:  token,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			metrics.SignupsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, apperrors.DuplicateUsername(err)
		}
		metrics.SignupsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, apperrors.Store(fmt.Errorf("create user: %w", err))
	}

	metrics.SignupsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	identity := user.Identity()
	_ = s.tokenCache.Put(ctx, identity)
	return identity, nil
}

// Authenticate verifies credentials. Unknown users and wrong passwords give
// the same error after the same amount of hashing work.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*model.Identity, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.hasher.Compare(s.timingGuardHash(), password)
			metrics.SigninsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, apperrors.InvalidCredentials()
		}
		metrics.SigninsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, apperrors.Store(fmt.Errorf("find user: %w", err))
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		metrics.SigninsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, apperrors.InvalidCredentials()
	}

	metrics.SigninsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return user.Identity(), nil
}

// ValidateToken resolves a bearer token to the user holding it.
func (s *authService) ValidateToken(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		metrics.TokenValidationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, apperrors.Unauthenticated()
	}

	if identity, err := s.tokenCache.Get(ctx, token); err == nil && identity != nil {
		metrics.TokenValidationsTotal.WithLabelValues(metrics.OutcomeCacheHit).Inc()
		return identity, nil
	}

	user, err := s.userRepo.FindByAccessToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.TokenValidationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, apperrors.Unauthenticated()
		}
		metrics.TokenValidationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, apperrors.Store(fmt.Errorf("find user by token: %w", err))
	}

	metrics.TokenValidationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	identity := user.Identity()
	_ = s.tokenCache.Put(ctx, identity)
	return identity, nil
}

func (s *authService) timingGuardHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	return s.dummyHash
}
