package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/abisalde/accounts-service/internal/accounts"
	"github.com/abisalde/accounts-service/internal/auth/cookies"
	"github.com/abisalde/accounts-service/internal/auth/provider"
	"github.com/abisalde/accounts-service/internal/configs"
	"github.com/abisalde/accounts-service/internal/errors"
	"github.com/abisalde/accounts-service/internal/model"
	"github.com/abisalde/accounts-service/internal/utils/validator"
	oauthPKCE "github.com/abisalde/accounts-service/pkg/oauth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const verifierTTL = 10 * time.Minute

type BeginInput struct {
	Provider  model.OAuthProvider
	Platform  model.OAuthPlatform
	Mode      model.LoginMode
	StateUUID string
}

type BeginResult struct {
	AuthURL   string
	State     string
	StateUUID string
}

// CompleteInput carries either an authorization code with its state, or a provider access token.
// ExpectedStateUUID is the value the client held back (state cookie or stateKey).
type CompleteInput struct {
	Provider          model.OAuthProvider
	Platform          model.OAuthPlatform
	Mode              model.LoginMode
	Code              string
	State             string
	ExpectedStateUUID string
	AccessToken       string
}

type LoginResult struct {
	Tokens   cookies.TokenPair
	User     *model.User
	Platform model.OAuthPlatform
	Created  bool
}

type OAuthService struct {
	cfg         *configs.Config
	providers   provider.Registry
	authService *AuthService
	sfGroup     singleflight.Group // collapses duplicate submissions of one provider code
}

func NewOAuthService(cfg *configs.Config, providers provider.Registry, authService *AuthService) *OAuthService {
	return &OAuthService{
		cfg:         cfg,
		providers:   providers,
		authService: authService,
	}
}

// GetRedirectUrl is the provider callback: the social login route itself.
func GetRedirectUrl(cfg *configs.Config) string {
	base := strings.TrimRight(cfg.Env.BaseAPIUrl, "/")
	return fmt.Sprintf("%s/%s%s", base, cfg.Routes.AccountsPrefix, accounts.SocialLoginPattern)
}

func (s *OAuthService) GetFrontEndRedirectURL(platform model.OAuthPlatform, token, email string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)

	if platform == model.OAuthPlatformMobile {
		return fmt.Sprintf("%s://passwordless-authentication?%s", s.cfg.Env.MobileRedirectScheme, q.Encode())
	}
	return fmt.Sprintf("%s/oauth/passwordless-authentication?%s", strings.TrimRight(s.cfg.Env.FrontendURL, "/"), q.Encode())
}

func (s *OAuthService) Begin(ctx context.Context, input BeginInput) (*BeginResult, error) {
	if !input.Platform.IsValid() || !input.Mode.IsValid() || input.StateUUID == "" {
		return nil, errors.ErrInvalidInput
	}
	p, err := s.providers.Lookup(input.Provider)
	if err != nil {
		return nil, err
	}

	verifier := oauth2.GenerateVerifier()
	state := oauthPKCE.EncodeState(oauthPKCE.State{
		UUID:     input.StateUUID,
		Platform: input.Platform,
		Mode:     input.Mode,
		Provider: input.Provider,
	})

	cacheKey := oauthPKCE.VerifierCacheKey(input.Platform, input.StateUUID)
	if err := s.authService.cache.Set(ctx, cacheKey, verifier, verifierTTL); err != nil {
		return nil, errors.Wrap(errors.ErrSomethingWentWrong, err)
	}

	return &BeginResult{
		AuthURL:   p.AuthCodeURL(state, verifier),
		State:     state,
		StateUUID: input.StateUUID,
	}, nil
}

func (s *OAuthService) Complete(ctx context.Context, input CompleteInput) (*LoginResult, error) {
	var key string
	switch {
	case input.Code != "":
		key = "code:" + input.Code
	case input.AccessToken != "":
		key = "token:" + string(input.Provider) + ":" + input.AccessToken
	default:
		return nil, errors.ErrInvalidInput
	}

	v, err, _ := s.sfGroup.Do(key, func() (interface{}, error) {
		return s.complete(ctx, input)
	})
	if err != nil {
		return nil, err
	}
	return v.(*LoginResult), nil
}

func (s *OAuthService) complete(ctx context.Context, input CompleteInput) (*LoginResult, error) {
	var (
		p     *provider.Provider
		token *oauth2.Token
		err   error
	)

	if input.Code != "" {
		state, stateErr := oauthPKCE.DecodeState(input.State)
		if stateErr != nil {
			return nil, errors.Wrap(errors.ErrInvalidState, stateErr)
		}
		if input.ExpectedStateUUID == "" || input.ExpectedStateUUID != state.UUID {
			return nil, errors.ErrInvalidState
		}
		if input.Provider != "" && input.Provider != state.Provider {
			return nil, errors.ErrInvalidState
		}
		input.Provider, input.Platform, input.Mode = state.Provider, state.Platform, state.Mode

		if p, err = s.providers.Lookup(state.Provider); err != nil {
			return nil, err
		}

		var codeVerifier string
		cacheKey := oauthPKCE.VerifierCacheKey(state.Platform, state.UUID)
		if err := s.authService.cache.Take(ctx, cacheKey, &codeVerifier); err != nil {
			return nil, errors.Wrap(errors.ErrStateExpired, err)
		}

		if token, err = p.Exchange(ctx, input.Code, codeVerifier); err != nil {
			return nil, errors.Wrap(errors.ErrExchangeFailed, err)
		}
	} else {
		if !input.Platform.IsValid() || !input.Mode.IsValid() {
			return nil, errors.ErrInvalidInput
		}
		if p, err = s.providers.Lookup(input.Provider); err != nil {
			return nil, err
		}
		if err := p.VerifyAccessToken(ctx, input.AccessToken); err != nil {
			return nil, errors.Wrap(errors.ErrAccessTokenRejected, err)
		}
		token = &oauth2.Token{AccessToken: input.AccessToken, TokenType: "Bearer"}
	}

	profile, err := p.FetchProfile(ctx, token)
	if err != nil {
		return nil, errors.Wrap(errors.ErrProfileFetchFailed, err)
	}
	if err := validator.ValidateEmail(profile.Email); err != nil {
		return nil, err
	}

	user, created, err := s.resolveUser(ctx, input.Provider, input.Mode, profile)
	if err != nil {
		return nil, err
	}

	tokens, err := cookies.GenerateLoginTokenPair(user.ID, user.Email, string(user.Provider))
	if err != nil {
		return nil, errors.Wrap(errors.ErrTokenGeneration, err)
	}

	if err := s.authService.StoreRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, errors.Wrap(errors.ErrSomethingWentWrong, err)
	}

	if err := s.authService.PublishLoginEvent(ctx, user.ID); err != nil {
		zap.L().Warn("failed to publish login event", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	if created {
		s.authService.SendWelcomeEmail(user)
	}

	zap.L().Info("social login completed",
		zap.Int64("user_id", user.ID),
		zap.String("provider", string(input.Provider)),
		zap.String("platform", string(input.Platform)),
		zap.Bool("created", created),
	)

	return &LoginResult{
		Tokens:   *tokens,
		User:     user,
		Platform: input.Platform,
		Created:  created,
	}, nil
}

// resolveUser maps a provider identity onto a local account. Outside register mode an
// unknown identity is linked to the account holding the same verified email.
func (s *OAuthService) resolveUser(ctx context.Context, providerName model.OAuthProvider, mode model.LoginMode, profile *model.OAuthUserResponse) (*model.User, bool, error) {
	repo := s.authService.userRepo

	existing, err := repo.FindByOAuthID(ctx, providerName, profile.ID)
	if err != nil && !stdErrors.Is(err, errors.ErrUserNotFound) {
		return nil, false, errors.Wrap(errors.ErrSomethingWentWrong, err)
	}

	if existing == nil && mode != model.LoginModeRegister {
		byEmail, err := repo.GetByEmail(ctx, profile.Email)
		if err != nil && !stdErrors.Is(err, errors.ErrUserNotFound) {
			return nil, false, errors.Wrap(errors.ErrSomethingWentWrong, err)
		}
		if byEmail != nil {
			if !profile.IsEmailVerified {
				return nil, false, errors.ErrEmailExists
			}
			zap.L().Info("linked provider identity by email",
				zap.Int64("user_id", byEmail.ID),
				zap.String("provider", string(providerName)),
			)
			existing = byEmail
		}
	}

	switch mode {
	case model.LoginModeLogin:
		if existing == nil {
			return nil, false, errors.ErrUserNotFound
		}
		return existing, false, nil

	case model.LoginModeRegister:
		if existing != nil {
			return nil, false, errors.ErrEmailExists
		}
	}

	if existing != nil {
		return existing, false, nil
	}

	user, err := repo.CreateUserFromOAuth(ctx, providerName, profile)
	if err != nil {
		if stdErrors.Is(err, errors.ErrEmailExists) {
			return nil, false, err
		}
		return nil, false, errors.Wrap(errors.ErrSomethingWentWrong, err)
	}
	return user, true, nil
}
