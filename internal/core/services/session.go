package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
	"github.com/sbsheik/sc-gconnector-gis/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// User-facing status messages.
const (
	msgClientIDMissing    = "Google Client ID not configured"
	msgServiceUnavailable = "service unavailable"
	msgNotInitialized     = "Google authentication not initialized"
	msgGrantFailed        = "Google authentication failed"
	msgAcquireFailed      = "Failed to complete Google authentication"
	msgNoAccessToken      = "No access token received from Google"
	msgSaveFailed         = "Failed to save Google credentials"
)

const defaultRevokeTimeout = 10 * time.Second

// SessionConfig configures the Google session.
type SessionConfig struct {
	// ClientID is the OAuth client identifier.
	ClientID string
	// Scopes are requested on every grant.
	Scopes []string
	// RevokeTimeout bounds the background revocation request.
	RevokeTimeout time.Duration
}

// Session owns the Google connection state for one running application.
// It mirrors the credential store into a status snapshot and publishes
// every change to subscribers.
type Session struct {
	store    driven.CredentialStore
	grants   driven.GrantClient
	profiles driven.ProfileClient
	cfg      SessionConfig
	now      func() time.Time

	initOnce sync.Once
	initErr  error

	mu        sync.Mutex
	prepared  bool
	status    domain.SessionStatus
	cred      *domain.Credential
	listeners map[int]func(domain.SessionStatus)
	nextID    int

	revokes sync.WaitGroup
}

// NewSession creates a session and registers it as the grant result handler.
func NewSession(
	store driven.CredentialStore,
	grants driven.GrantClient,
	profiles driven.ProfileClient,
	cfg SessionConfig,
) *Session {
	if cfg.RevokeTimeout <= 0 {
		cfg.RevokeTimeout = defaultRevokeTimeout
	}

	s := &Session{
		store:     store,
		grants:    grants,
		profiles:  profiles,
		cfg:       cfg,
		now:       time.Now,
		status:    domain.SessionStatus{State: domain.StateUninitialized},
		listeners: make(map[int]func(domain.SessionStatus)),
	}

	if grants != nil {
		grants.OnGrantResult(s.handleGrantResult)
	}

	return s
}

// Init prepares the grant client and revalidates any stored credential.
// It runs once per session; later calls return the first outcome.
func (s *Session) Init(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.init(ctx)
	})
	return s.initErr
}

func (s *Session) init(ctx context.Context) error {
	logger.Section("Google session")

	if s.cfg.ClientID == "" {
		s.finishInit(domain.StateError, msgClientIDMissing, nil)
		return domain.NewOperationError(domain.ErrConfiguration, msgClientIDMissing, nil)
	}

	if s.grants == nil || s.profiles == nil {
		s.finishInit(domain.StateError, msgServiceUnavailable, nil)
		return domain.NewOperationError(domain.ErrTransport, msgServiceUnavailable, nil)
	}

	if err := s.grants.Prepare(ctx); err != nil {
		logger.Warn("Grant client unavailable: %v", err)
		s.finishInit(domain.StateError, msgServiceUnavailable, nil)
		return domain.NewOperationError(domain.ErrTransport, msgServiceUnavailable, err)
	}

	s.mu.Lock()
	s.prepared = true
	s.mu.Unlock()

	cred := s.revalidate(ctx)
	if cred == nil {
		s.finishInit(domain.StateUninitialized, "", nil)
		return nil
	}

	s.finishInit(domain.StateConnected, "", cred)
	return nil
}

// revalidate returns the stored credential if the provider still accepts its
// token. An invalid or unreadable credential is cleared; it is normal state
// decay, not a failure.
func (s *Session) revalidate(ctx context.Context) *domain.Credential {
	if s.store == nil {
		return nil
	}

	cred, err := s.store.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("No stored credential")
		return nil
	}
	if err != nil {
		logger.Warn("Reading stored credential: %v", err)
		s.clearStore(ctx)
		return nil
	}
	if !cred.IsComplete() {
		logger.Debug("Stored credential incomplete, clearing")
		s.clearStore(ctx)
		return nil
	}

	// The payload is fetched for validation only; the stored profile is what
	// gets published.
	if _, err := s.profiles.FetchProfile(ctx, cred.AccessToken); err != nil {
		logger.Info("Stored token rejected, clearing: %v", err)
		s.clearStore(ctx)
		return nil
	}

	logger.Debug("Stored credential valid for %s", cred.Profile.Email)
	return cred
}

func (s *Session) finishInit(state domain.ConnectionState, message string, cred *domain.Credential) {
	s.update(func(st *domain.SessionStatus) {
		s.cred = cred
		st.State = state
		st.Message = message
		st.Initialized = true
		st.Profile = profileOf(cred)
	})
}

// Connect opens the consent popup with forced re-consent.
// Calls are not deduplicated; the popup itself is single-flight.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	ready := s.prepared && s.status.Initialized
	s.mu.Unlock()

	if !ready {
		s.setError(msgNotInitialized)
		return domain.NewOperationError(domain.ErrConfiguration, msgNotInitialized, domain.ErrNotInitialized)
	}

	s.update(func(st *domain.SessionStatus) {
		st.State = domain.StateLoading
		st.Message = ""
	})

	logger.Debug("Requesting grant for scopes %v", s.cfg.Scopes)
	err := s.grants.RequestGrant(ctx, driven.GrantRequest{
		ClientID:     s.cfg.ClientID,
		Scopes:       s.cfg.Scopes,
		ForceConsent: true,
	})
	if err != nil {
		logger.Warn("Grant request failed: %v", err)
		s.setError(msgServiceUnavailable)
		return domain.NewOperationError(domain.ErrTransport, msgServiceUnavailable, err)
	}

	return nil
}

// handleGrantResult is invoked by the grant client when the popup finishes.
func (s *Session) handleGrantResult(ctx context.Context, result domain.GrantResult) {
	if result.Failed() {
		msg := result.Message()
		if msg == "" {
			msg = msgGrantFailed
		}
		logger.Info("Grant failed: %s", msg)
		s.setError(msg)
		return
	}

	if _, err := s.Accept(ctx, result); err != nil {
		logger.Debug("Grant not accepted: %v", err)
	}
}

// Accept validates the token against the profile endpoint and, on success,
// stores token and profile as one pair. On failure the store is untouched.
func (s *Session) Accept(ctx context.Context, result domain.GrantResult) (*domain.Profile, error) {
	if result.AccessToken == "" {
		s.setError(msgNoAccessToken)
		return nil, domain.NewOperationError(domain.ErrProtocol, msgNoAccessToken, nil)
	}

	profile, err := s.profiles.FetchProfile(ctx, result.AccessToken)
	if err != nil {
		s.setError(msgAcquireFailed)
		kind := domain.ErrProtocol
		if errors.Is(err, domain.ErrTransport) {
			kind = domain.ErrTransport
		}
		return nil, domain.NewOperationError(kind, msgAcquireFailed, err)
	}

	tokenType := result.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	now := s.now()
	cred := domain.Credential{
		AccessToken: result.AccessToken,
		TokenType:   tokenType,
		Scope:       result.Scope,
		Expiry:      result.Expiry(now),
		Profile:     *profile,
		UpdatedAt:   now,
	}

	if err := s.store.Save(ctx, cred); err != nil {
		s.setError(msgSaveFailed)
		return nil, domain.NewOperationError(domain.ErrTransport, msgSaveFailed, err)
	}

	s.update(func(st *domain.SessionStatus) {
		s.cred = &cred
		st.State = domain.StateConnected
		st.Message = ""
		st.Profile = profileOf(&cred)
	})

	logger.Info("Connected as %s", profile.Email)
	return profileOf(&cred), nil
}

// Disconnect revokes the token in the background, clears the store and
// reports uninitialized. Calling it while disconnected is a no-op.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	token := ""
	if s.cred != nil {
		token = s.cred.AccessToken
	}
	s.mu.Unlock()

	// A session that never revalidated can still hold a stored token.
	if token == "" && s.store != nil {
		if cred, err := s.store.Load(ctx); err == nil && cred != nil {
			token = cred.AccessToken
		}
	}

	if token != "" {
		s.revokeAsync(token)
	}

	var clearErr error
	if s.store != nil {
		clearErr = s.store.Clear(ctx)
	}

	s.update(func(st *domain.SessionStatus) {
		s.cred = nil
		st.State = domain.StateUninitialized
		st.Message = ""
		st.Profile = nil
	})

	if clearErr != nil {
		return domain.NewOperationError(domain.ErrTransport, "Failed to clear Google credentials", clearErr)
	}
	return nil
}

// revokeAsync requests revocation without blocking the caller.
// Failure to revoke never blocks local cleanup.
func (s *Session) revokeAsync(token string) {
	if s.grants == nil {
		return
	}

	s.revokes.Add(1)
	go func() {
		defer s.revokes.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RevokeTimeout)
		defer cancel()

		if err := s.grants.Revoke(ctx, token); err != nil {
			logger.Warn("Token revocation failed: %v", err)
			return
		}
		logger.Debug("Google token revoked")
	}()
}

// Status returns the current snapshot.
func (s *Session) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// AccessToken returns the validated token, or "" when there is none. A failed
// reconnect does not revoke the token already held.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return ""
	}
	return s.cred.AccessToken
}

// Subscribe registers fn for every status change.
func (s *Session) Subscribe(fn func(domain.SessionStatus)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Close waits for in-flight revocations. Each is bounded by RevokeTimeout.
func (s *Session) Close() error {
	s.revokes.Wait()
	return nil
}

// setError reports a failed operation. The profile of a credential still held
// stays visible.
func (s *Session) setError(message string) {
	s.update(func(st *domain.SessionStatus) {
		st.State = domain.StateError
		st.Message = message
		st.Profile = profileOf(s.cred)
	})
}

// update applies fn under the lock and notifies listeners outside it.
func (s *Session) update(fn func(st *domain.SessionStatus)) {
	s.mu.Lock()
	fn(&s.status)
	snap := s.snapshotLocked()
	listeners := make([]func(domain.SessionStatus), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Session) snapshotLocked() domain.SessionStatus {
	snap := s.status
	if s.status.Profile != nil {
		p := *s.status.Profile
		snap.Profile = &p
	}
	return snap
}

func (s *Session) clearStore(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		logger.Warn("Clearing stored credential: %v", err)
	}
}

func profileOf(cred *domain.Credential) *domain.Profile {
	if cred == nil {
		return nil
	}
	p := cred.Profile
	return &p
}
