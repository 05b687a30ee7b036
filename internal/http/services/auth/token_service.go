package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/todolabs/todolist/internal/domain"
	"github.com/todolabs/todolist/internal/observability/logger"
	tokens "github.com/todolabs/todolist/internal/security/token"
	"github.com/todolabs/todolist/internal/token"
)

const refreshSecretBytes = 32

// TokenDeps contains dependencies for the token service.
type TokenDeps struct {
	Issuer     *token.Issuer
	Users      domain.UserRepository
	Refresh    domain.RefreshTokenRepository
	RefreshTTL time.Duration
}

type tokenService struct {
	deps TokenDeps
}

// NewTokenService creates a new TokenService.
func NewTokenService(deps TokenDeps) TokenService {
	if deps.RefreshTTL <= 0 {
		deps.RefreshTTL = 30 * 24 * time.Hour
	}
	return &tokenService{deps: deps}
}

// IssueSession mints an access credential and a fresh refresh secret. Only
// the hash of the secret is persisted.
func (s *tokenService) IssueSession(ctx context.Context, user *domain.User) (*Session, error) {
	access, exp, err := s.deps.Issuer.IssueAccess(user.ID, user.Email, user.Provider)
	if err != nil {
		return nil, err
	}

	secret, err := tokens.GenerateOpaqueToken(refreshSecretBytes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rt := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: tokens.SHA256Base64URL(secret),
		ExpiresAt: now.Add(s.deps.RefreshTTL),
		CreatedAt: now,
	}
	if err := s.deps.Refresh.Create(ctx, rt); err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  access,
		ExpiresAt:    exp,
		RefreshToken: secret,
		User:         user,
	}, nil
}

// Renew rotates the presented secret. The delete-by-hash is the atomic step:
// whoever deletes the row wins, every other holder of the same secret gets
// ErrInvalidRefresh.
func (s *tokenService) Renew(ctx context.Context, refreshSecret string) (*Session, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.token"),
		logger.Op("Renew"),
	)

	if refreshSecret == "" {
		return nil, ErrInvalidRefresh
	}
	hash := tokens.SHA256Base64URL(refreshSecret)

	rt, err := s.deps.Refresh.GetByHash(ctx, hash)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	if time.Now().After(rt.ExpiresAt) {
		// Purge eagerly; the sweeper would get it eventually.
		if _, err := s.deps.Refresh.DeleteByHash(ctx, hash); err != nil {
			log.Debug("expired token cleanup failed", logger.Err(err))
		}
		return nil, ErrExpiredRefresh
	}

	ok, err := s.deps.Refresh.DeleteByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against a concurrent renewal with the same secret.
		log.Warn("refresh secret reused", logger.UserID(rt.UserID))
		return nil, ErrInvalidRefresh
	}

	user, err := s.deps.Users.GetByID(ctx, rt.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	return s.IssueSession(ctx, user)
}

// Logout revokes a refresh secret. Unknown secrets are a no-op so the
// operation never leaks whether a credential existed.
func (s *tokenService) Logout(ctx context.Context, refreshSecret string) error {
	if refreshSecret == "" {
		return nil
	}
	_, err := s.deps.Refresh.DeleteByHash(ctx, tokens.SHA256Base64URL(refreshSecret))
	return err
}
