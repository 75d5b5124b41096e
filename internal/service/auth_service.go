package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	config "github.com/maheshrc27/threads-gateway/configs"
	"github.com/maheshrc27/threads-gateway/internal/apperr"
	"github.com/maheshrc27/threads-gateway/internal/threads"
	"github.com/maheshrc27/threads-gateway/internal/transfer"
	"github.com/maheshrc27/threads-gateway/pkg/utils"
)

// Threads expects a comma separated scope list, which oauth2.Config.Scopes cannot express.
const threadsScopes = "user_profile,threads_basic,threads_content_publish"

var ErrLoginDisabled = errors.New("login is disabled: SECRET_KEY is not set")

type AuthService interface {
	Exchange(ctx context.Context, code string) (*transfer.ExchangeResponse, error)
	Refresh(ctx context.Context, credential string) (string, error)
	AuthorizeURL(state string) string
	LoginURL() (string, error)
	VerifyState(state string) error
}

type authService struct {
	cfg    config.Config
	oauth  *oauth2.Config
	client *threads.Client
}

func NewAuthService(cfg config.Config, client *threads.Client) AuthService {
	return &authService{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.Threads.ClientID,
			ClientSecret: cfg.Threads.ClientSecret,
			RedirectURL:  cfg.Threads.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.Threads.AuthorizeURL,
				TokenURL:  cfg.Threads.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client: client,
	}
}

// Exchange trades an authorization code for a credential and resolves its owner. Any
// failure past local validation is ExchangeFailed. Nothing is stored.
func (s *authService) Exchange(ctx context.Context, code string) (*transfer.ExchangeResponse, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperr.Validation("code", "Authorization code missing")
	}

	form := url.Values{}
	form.Set("client_id", s.oauth.ClientID)
	form.Set("client_secret", s.oauth.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", s.oauth.RedirectURL)
	form.Set("code", code)

	token, err := s.client.ExchangeCode(ctx, form)
	if err != nil {
		slog.Info("oauth code exchange failed", "error", err)
		return nil, apperr.Collapse(apperr.ExchangeFailed, err)
	}
	if token.AccessToken == "" || token.UserID == "" {
		slog.Info("oauth code exchange returned an incomplete token")
		return nil, apperr.New(apperr.ExchangeFailed, "")
	}

	user, err := s.client.User(ctx, token.UserID.String(), token.AccessToken, "id", "username")
	if err != nil {
		slog.Info("oauth user lookup failed", "error", err)
		return nil, apperr.Collapse(apperr.ExchangeFailed, err)
	}

	return &transfer.ExchangeResponse{
		AccessToken: token.AccessToken,
		User: transfer.ExchangeUser{
			ID:       user.ID,
			Username: user.Username,
		},
	}, nil
}

// Refresh extends a long-lived credential. Any failure is Unauthenticated.
func (s *authService) Refresh(ctx context.Context, credential string) (string, error) {
	if credential == "" {
		return "", apperr.New(apperr.Unauthenticated, "No token provided")
	}

	refreshed, err := s.client.RefreshToken(ctx, credential)
	if err != nil {
		slog.Info("token refresh failed", "error", err)
		return "", apperr.Collapse(apperr.Unauthenticated, err)
	}
	if refreshed.AccessToken == "" {
		return "", apperr.New(apperr.Unauthenticated, "")
	}
	return refreshed.AccessToken, nil
}

func (s *authService) AuthorizeURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("scope", threadsScopes))
}

// LoginURL returns the consent URL with a freshly signed state.
func (s *authService) LoginURL() (string, error) {
	if s.cfg.SecretKey == "" {
		return "", ErrLoginDisabled
	}
	state, err := utils.GenerateState(s.cfg.SecretKey, utils.StateTTL)
	if err != nil {
		return "", err
	}
	return s.AuthorizeURL(state), nil
}

// VerifyState accepts an empty state unless OAUTH_STATE_REQUIRED is set, so direct
// authorize links keep working by default. A present state must carry a valid signature.
func (s *authService) VerifyState(state string) error {
	if state == "" {
		if s.cfg.RequireState {
			return apperr.New(apperr.Unauthenticated, "Missing OAuth state")
		}
		return nil
	}
	if _, err := utils.ValidateState(s.cfg.SecretKey, state); err != nil {
		return apperr.Wrap(apperr.Unauthenticated, err, "Invalid OAuth state")
	}
	return nil
}
