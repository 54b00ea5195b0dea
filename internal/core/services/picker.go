package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
	"github.com/sbsheik/sc-gconnector-gis/internal/logger"
)

// Ensure PickerService implements the interface.
var _ driving.PickerService = (*PickerService)(nil)

const (
	msgPickerNotLoaded  = "Picker not loaded yet. Please wait..."
	msgPickerNoToken    = "Not authenticated with Google. Please reconnect your Google account."
	msgPickerNoAPIKey   = "Google API Key is not configured"
	msgPickerLoadFailed = "Google Picker library not loaded properly"
)

// PickerConfig configures the picker dialog.
type PickerConfig struct {
	// APIKey is the developer key. Required.
	APIKey string
	// AppID is the optional Cloud project number.
	AppID string
}

type pickerSession struct {
	info     driving.PickerSession
	onPicked func([]domain.PickedFile)
	done     chan struct{}
	closed   bool
}

// PickerService gates the Drive picker on script readiness and an active
// credential, and turns widget responses into PickedFile batches.
type PickerService struct {
	session  driving.SessionService
	loader   driven.ScriptLoader
	resolver driven.FileResolver
	cfg      PickerConfig
	ready    *Readiness
	newID    func() string

	mu       sync.Mutex
	sessions map[string]*pickerSession
}

// NewPickerService creates a picker service. resolver may be nil.
func NewPickerService(
	session driving.SessionService,
	loader driven.ScriptLoader,
	resolver driven.FileResolver,
	cfg PickerConfig,
) *PickerService {
	s := &PickerService{
		session:  session,
		loader:   loader,
		resolver: resolver,
		cfg:      cfg,
		newID:    uuid.NewString,
		sessions: make(map[string]*pickerSession),
	}
	s.ready = NewReadiness(s.load)
	return s
}

func (s *PickerService) load(ctx context.Context) error {
	if s.loader == nil {
		return domain.NewOperationError(domain.ErrTransport, msgPickerLoadFailed, domain.ErrNotReady)
	}
	logger.Debug("Loading picker script %s", s.loader.URL())
	if err := s.loader.Load(ctx); err != nil {
		logger.Warn("Picker script unavailable: %v", err)
		return domain.NewOperationError(domain.ErrTransport, msgPickerLoadFailed, err)
	}
	return nil
}

// Ready waits for the picker script. The load happens once.
func (s *PickerService) Ready(ctx context.Context) error {
	return s.ready.Wait(ctx)
}

// IsReady reports whether the script has loaded.
func (s *PickerService) IsReady() bool {
	return s.ready.Resolved()
}

// Open creates a picker session once the script is ready and a credential is
// active. It does not wait for the script.
func (s *PickerService) Open(
	ctx context.Context,
	opts domain.PickerOptions,
	onPicked func([]domain.PickedFile),
) (*driving.PickerSession, error) {
	s.ready.Start(ctx)

	if !s.ready.Resolved() {
		return nil, domain.NewOperationError(domain.ErrTransport, msgPickerNotLoaded, domain.ErrNotReady)
	}

	token := s.session.AccessToken()
	if token == "" {
		return nil, domain.NewOperationError(domain.ErrConfiguration, msgPickerNoToken, domain.ErrNotConnected)
	}

	if s.cfg.APIKey == "" {
		return nil, domain.NewOperationError(domain.ErrConfiguration, msgPickerNoAPIKey, nil)
	}

	done := make(chan struct{})
	ps := &pickerSession{
		info: driving.PickerSession{
			ID:           s.newID(),
			Options:      opts.Normalized(),
			AccessToken:  token,
			DeveloperKey: s.cfg.APIKey,
			AppID:        s.cfg.AppID,
			ScriptURL:    s.loader.URL(),
			Done:         done,
		},
		onPicked: onPicked,
		done:     done,
	}

	s.mu.Lock()
	s.sessions[ps.info.ID] = ps
	s.mu.Unlock()

	logger.Debug("Opened picker session %s (view %s)", ps.info.ID, ps.info.Options.ViewID)
	info := ps.info
	return &info, nil
}

// Session returns an open session by ID.
func (s *PickerService) Session(id string) (*driving.PickerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("picker session %s: %w", id, domain.ErrNotFound)
	}
	info := ps.info
	return &info, nil
}

// Deliver hands a widget response to its session. A picked response produces
// one batch for the callback and closes the session; cancel closes it
// without a callback. Other actions are ignored.
func (s *PickerService) Deliver(ctx context.Context, id string, resp domain.PickerResponse) error {
	s.mu.Lock()
	ps, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("picker session %s: %w", id, domain.ErrNotFound)
	}

	switch resp.Action {
	case domain.PickerActionPicked:
		files := make([]domain.PickedFile, 0, len(resp.Docs))
		for _, doc := range resp.Docs {
			files = append(files, doc.ToPickedFile())
		}
		files = s.resolve(ctx, ps.info.AccessToken, files)

		if !s.claim(id) {
			return nil
		}
		logger.Info("Picked %d file(s)", len(files))
		if ps.onPicked != nil {
			ps.onPicked(files)
		}
		close(ps.done)
	case domain.PickerActionCancel:
		logger.Debug("Picker session %s cancelled", id)
		if s.claim(id) {
			close(ps.done)
		}
	default:
		logger.Debug("Picker session %s: ignoring action %q", id, resp.Action)
	}

	return nil
}

func (s *PickerService) resolve(ctx context.Context, token string, files []domain.PickedFile) []domain.PickedFile {
	if s.resolver == nil || len(files) == 0 {
		return files
	}
	resolved, err := s.resolver.Resolve(ctx, token, files)
	if err != nil {
		logger.Warn("Resolving picked file metadata: %v", err)
		return files
	}
	return resolved
}

// claim removes the session and reports whether this call removed it.
// The caller closes done once the callback has returned, so a Done waiter
// always sees the batch first.
func (s *PickerService) claim(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.sessions[id]
	if !ok || ps.closed {
		return false
	}
	ps.closed = true
	delete(s.sessions, id)
	return true
}
