package auth

import (
	"context"
	"fmt"
	"sort"

	"github.com/todolabs/todolist/internal/domain"
	"github.com/todolabs/todolist/internal/oauth"
	"github.com/todolabs/todolist/internal/observability/logger"
	"github.com/todolabs/todolist/internal/util"
)

// LoginDeps contains dependencies for the login service.
type LoginDeps struct {
	Providers map[oauth.Provider]oauth.Client
	Users     domain.UserRepository
	Tokens    TokenService
	States    *StateStore
}

type loginService struct {
	deps LoginDeps
}

// NewLoginService creates a new LoginService.
func NewLoginService(deps LoginDeps) LoginService {
	return &loginService{deps: deps}
}

func (s *loginService) Providers() []oauth.Provider {
	out := make([]oauth.Provider, 0, len(s.deps.Providers))
	for p := range s.deps.Providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *loginService) client(provider oauth.Provider) (oauth.Client, error) {
	c, ok := s.deps.Providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return c, nil
}

func (s *loginService) Begin(ctx context.Context, provider oauth.Provider, mobile bool) (string, error) {
	client, err := s.client(provider)
	if err != nil {
		return "", err
	}

	prefix := ""
	if mobile {
		prefix = MobileStatePrefix
	}
	state, err := s.deps.States.Issue(string(provider), prefix)
	if err != nil {
		return "", err
	}

	return client.AuthURL(state), nil
}

// LoginWithCode runs the authorization-code flow. The state check happens
// before the exchange so a forged callback never reaches the provider.
//
// State policy follows the providers: Naver requires state, so an empty one
// is rejected outright. Kakao treats state as optional, so an empty state is
// accepted and only a non-empty one is checked against the store.
func (s *loginService) LoginWithCode(ctx context.Context, provider oauth.Provider, code, state string) (*Session, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("LoginWithCode"),
		logger.Provider(string(provider)),
	)

	client, err := s.client(provider)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, ErrMissingCode
	}

	stateRequired := provider == oauth.ProviderNaver
	if state == "" {
		if stateRequired {
			log.Warn("callback without state")
			return nil, ErrStateMismatch
		}
	} else if !s.deps.States.Consume(string(provider), state) {
		log.Warn("state unknown or already used")
		return nil, ErrStateMismatch
	}

	tok, err := client.ExchangeCode(ctx, code, state)
	if err != nil {
		log.Warn("code exchange failed", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstreamAuth, err)
	}

	return s.complete(ctx, client, tok.AccessToken)
}

// LoginWithToken runs the token flow: the client did the code dance itself
// (native SDK) and hands us the provider access token directly.
func (s *loginService) LoginWithToken(ctx context.Context, provider oauth.Provider, accessToken string) (*Session, error) {
	client, err := s.client(provider)
	if err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, ErrMissingToken
	}
	return s.complete(ctx, client, accessToken)
}

// complete is the shared tail of both flows: profile, account, session.
func (s *loginService) complete(ctx context.Context, client oauth.Client, accessToken string) (*Session, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("complete"),
		logger.Provider(string(client.Name())),
	)

	identity, err := client.FetchProfile(ctx, accessToken)
	if err != nil {
		log.Warn("profile fetch failed", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstreamProfile, err)
	}

	user, err := s.deps.Users.FindOrCreate(ctx, domain.NewUser{
		Provider:    string(identity.Provider),
		ProviderID:  identity.ProviderID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
	})
	if err != nil {
		return nil, err
	}

	session, err := s.deps.Tokens.IssueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	email := ""
	if user.Email != nil {
		email = util.MaskEmail(*user.Email)
	}
	log.Info("login completed", logger.UserID(user.ID), logger.String("email", email))
	return session, nil
}
