package oauth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	loopback "github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/oauth"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
	"github.com/sbsheik/sc-gconnector-gis/internal/logger"
)

// errNotPrepared is returned when RequestGrant runs before Prepare.
var errNotPrepared = errors.New("grant client not prepared")

// GrantConfig configures the popup grant.
type GrantConfig struct {
	// PortMin and PortMax bound the loopback port search.
	PortMin int
	PortMax int
	// Timeout is how long to wait for the user before treating the popup as closed.
	Timeout time.Duration
	// OpenBrowser opens the consent page. Defaults to the system browser.
	OpenBrowser func(url string) error
	// OnAuthURL, if set, is told the consent URL so it can be shown to the user.
	OnAuthURL func(url string)
}

// PopupGrantClient runs the implicit grant through the system browser and a
// loopback callback server. One popup is open at a time.
type PopupGrantClient struct {
	cfg     GrantConfig
	urls    driven.AuthURLBuilder
	revoker *Revoker

	mu       sync.Mutex
	port     int
	prepared bool
	inflight bool
	handler  driven.GrantHandler

	wg sync.WaitGroup
}

var _ driven.GrantClient = (*PopupGrantClient)(nil)

// NewPopupGrantClient creates a grant client.
func NewPopupGrantClient(cfg GrantConfig, urls driven.AuthURLBuilder, revoker *Revoker) *PopupGrantClient {
	if cfg.OpenBrowser == nil {
		cfg.OpenBrowser = loopback.OpenBrowser
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultGrantTimeout
	}
	return &PopupGrantClient{cfg: cfg, urls: urls, revoker: revoker}
}

// Prepare checks a loopback port is available.
func (c *PopupGrantClient) Prepare(_ context.Context) error {
	port, err := loopback.FindAvailablePort(c.cfg.PortMin, c.cfg.PortMax)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.port = port
	c.prepared = true
	c.mu.Unlock()

	logger.Debug("Grant client ready on port %d", port)
	return nil
}

// OnGrantResult registers the handler invoked when a popup finishes.
func (c *PopupGrantClient) OnGrantResult(handler driven.GrantHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// RequestGrant opens the consent page and returns once it is open. The
// outcome is delivered to the registered handler. A request made while a
// popup is already open is ignored.
func (c *PopupGrantClient) RequestGrant(ctx context.Context, req driven.GrantRequest) error {
	c.mu.Lock()
	if !c.prepared {
		c.mu.Unlock()
		return errNotPrepared
	}
	if c.inflight {
		c.mu.Unlock()
		logger.Debug("Consent popup already open")
		return nil
	}
	c.inflight = true
	port := c.port
	c.mu.Unlock()

	server, state, err := c.startServer(port)
	if err != nil {
		c.finish()
		return err
	}

	authURL := c.urls.ImplicitGrantURL(req, server.RedirectURI(), state)
	if c.cfg.OnAuthURL != nil {
		c.cfg.OnAuthURL(authURL)
	}
	if err := c.cfg.OpenBrowser(authURL); err != nil {
		_ = server.Stop()
		c.finish()
		return fmt.Errorf("open browser: %w", err)
	}

	c.wg.Add(1)
	go c.await(context.WithoutCancel(ctx), server)
	return nil
}

// startServer listens on port, falling back to any free port in range.
func (c *PopupGrantClient) startServer(port int) (*loopback.CallbackServer, string, error) {
	state, err := loopback.GenerateState()
	if err != nil {
		return nil, "", err
	}

	server := loopback.NewCallbackServer(port, state)
	if err := server.Start(); err == nil {
		return server, state, nil
	}

	port, err = loopback.FindAvailablePort(c.cfg.PortMin, c.cfg.PortMax)
	if err != nil {
		return nil, "", err
	}
	server = loopback.NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return nil, "", err
	}

	c.mu.Lock()
	c.port = port
	c.mu.Unlock()
	return server, state, nil
}

func (c *PopupGrantClient) await(ctx context.Context, server *loopback.CallbackServer) {
	defer c.wg.Done()

	waitCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	result, err := server.WaitForResult(waitCtx)
	cancel()
	if err != nil {
		logger.Debug("No grant callback: %v", err)
		result = domain.GrantResult{Error: loopback.ErrCodePopupClosed, ErrorDescription: "Popup window closed"}
	}

	if err := server.Stop(); err != nil {
		logger.Warn("Stopping callback server: %v", err)
	}

	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()
	c.finish()

	if handler != nil {
		handler(ctx, result)
	}
}

func (c *PopupGrantClient) finish() {
	c.mu.Lock()
	c.inflight = false
	c.mu.Unlock()
}

// Wait blocks until any open popup has finished.
func (c *PopupGrantClient) Wait() {
	c.wg.Wait()
}

// Revoke invalidates token at the provider.
func (c *PopupGrantClient) Revoke(ctx context.Context, token string) error {
	if c.revoker == nil {
		return nil
	}
	return c.revoker.Revoke(ctx, token)
}
