package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
	"github.com/sbsheik/sc-gconnector-gis/internal/logger"
)

// Ensure CallbackService implements the interface.
var _ driving.CallbackService = (*CallbackService)(nil)

const (
	defaultStateTTL      = 10 * time.Minute
	defaultRedirectDelay = 1500 * time.Millisecond

	msgInvalidState  = "invalid state"
	msgVerifyFailed  = "Failed to verify Google credentials"
	msgMalformedFrag = "Malformed callback parameters"
	googleErrorParam = "google_error"
)

// CallbackConfig configures the redirect flow.
type CallbackConfig struct {
	// ClientID is the OAuth client identifier.
	ClientID string
	// Scopes are requested on every grant.
	Scopes []string
	// BaseURL is the host application's entry point, without trailing slash.
	BaseURL string
	// StateTTL bounds how long an issued state is accepted.
	StateTTL time.Duration
	// RedirectDelay is how long the handler page shows its message.
	RedirectDelay time.Duration
}

// CallbackService implements the implicit-flow variant of the grant. The token
// arrives in the URL fragment, so the server only forwards; the handler page
// posts the fragment back for validation here.
type CallbackService struct {
	session driving.SessionService
	states  driven.StateStore
	urls    driven.AuthURLBuilder
	cfg     CallbackConfig
	now     func() time.Time
}

// NewCallbackService creates a new callback service.
func NewCallbackService(
	session driving.SessionService,
	states driven.StateStore,
	urls driven.AuthURLBuilder,
	cfg CallbackConfig,
) *CallbackService {
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = defaultStateTTL
	}
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = defaultRedirectDelay
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &CallbackService{
		session: session,
		states:  states,
		urls:    urls,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Begin issues a state, stashes it and returns the authorization URL.
func (s *CallbackService) Begin(ctx context.Context) (string, error) {
	if s.cfg.ClientID == "" {
		return "", domain.NewOperationError(domain.ErrConfiguration, msgClientIDMissing, nil)
	}

	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}

	now := s.now()
	redirectURI := s.cfg.BaseURL + driving.ProviderCallbackPath
	pending := domain.PendingState{
		State:       state,
		RedirectURI: redirectURI,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.cfg.StateTTL),
	}
	if err := s.states.Stash(ctx, pending); err != nil {
		return "", fmt.Errorf("stash state: %w", err)
	}

	logger.Debug("Issued redirect state, redirect URI %s", redirectURI)
	return s.urls.ImplicitGrantURL(driven.GrantRequest{
		ClientID:     s.cfg.ClientID,
		Scopes:       s.cfg.Scopes,
		ForceConsent: true,
	}, redirectURI, state), nil
}

// Complete validates the fragment delivered to the handler page. The pending
// state it names is consumed whatever the outcome; a value that was never
// issued matches nothing. A mismatch aborts before the token is used.
func (s *CallbackService) Complete(ctx context.Context, fragment string) (*driving.CallbackResult, error) {
	params, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		return nil, domain.NewOperationError(domain.ErrValidation, msgMalformedFrag, err)
	}

	got := params.Get("state")
	var pending *domain.PendingState
	if got != "" {
		pending, err = s.states.Take(ctx, got)
		if err != nil {
			return nil, fmt.Errorf("take state: %w", err)
		}
	}

	if providerErr := params.Get("error"); providerErr != "" {
		return nil, domain.NewOperationError(domain.ErrProtocol, providerErr, nil)
	}

	if pending == nil || pending.State != got {
		logger.Warn("Callback state mismatch, discarding token")
		return nil, domain.NewOperationError(domain.ErrValidation, msgInvalidState, domain.ErrInvalidState)
	}

	token := params.Get("access_token")
	if token == "" {
		return nil, domain.NewOperationError(domain.ErrProtocol, msgNoAccessToken, nil)
	}

	expiresIn, _ := strconv.Atoi(params.Get("expires_in"))
	profile, err := s.session.Accept(ctx, domain.GrantResult{
		AccessToken: token,
		TokenType:   params.Get("token_type"),
		ExpiresIn:   expiresIn,
		Scope:       params.Get("scope"),
		State:       got,
	})
	if err != nil {
		kind := domain.ErrProtocol
		if errors.Is(err, domain.ErrTransport) {
			kind = domain.ErrTransport
		}
		return nil, domain.NewOperationError(kind, msgVerifyFailed, err)
	}

	return &driving.CallbackResult{
		Profile:             profile,
		Message:             fmt.Sprintf("Welcome, %s! Redirecting...", profile.Name),
		RedirectURL:         s.cfg.BaseURL + "/",
		RedirectDelayMillis: int(s.cfg.RedirectDelay / time.Millisecond),
	}, nil
}

// ErrorRedirect returns the host URL carrying a provider-reported error.
func (s *CallbackService) ErrorRedirect(providerError string) string {
	q := url.Values{}
	q.Set(googleErrorParam, providerError)
	return s.cfg.BaseURL + "?" + q.Encode()
}

// HandlerRedirect returns the client-side handler URL, preserving the query.
func (s *CallbackService) HandlerRedirect(rawQuery string) string {
	target := s.cfg.BaseURL + driving.HandlerPath
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target
}
