package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
)

// mockGrantClient records requests and lets tests deliver popup results.
type mockGrantClient struct {
	mu         sync.Mutex
	handler    driven.GrantHandler
	prepareErr error
	requestErr error
	requests   []driven.GrantRequest
	revoked    []string
	revokeErr  error
	revokeDone chan string
}

var _ driven.GrantClient = (*mockGrantClient)(nil)

func newMockGrantClient() *mockGrantClient {
	return &mockGrantClient{revokeDone: make(chan string, 8)}
}

func (m *mockGrantClient) Prepare(_ context.Context) error {
	return m.prepareErr
}

func (m *mockGrantClient) RequestGrant(_ context.Context, req driven.GrantRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return m.requestErr
}

func (m *mockGrantClient) OnGrantResult(handler driven.GrantHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
}

func (m *mockGrantClient) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	m.revoked = append(m.revoked, token)
	err := m.revokeErr
	m.mu.Unlock()
	m.revokeDone <- token
	return err
}

// deliver simulates the popup closing with result.
func (m *mockGrantClient) deliver(ctx context.Context, result domain.GrantResult) {
	m.mu.Lock()
	h := m.handler
	m.mu.Unlock()
	h(ctx, result)
}

func (m *mockGrantClient) revokedTokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.revoked...)
}

// mockProfileClient maps tokens to profiles; unknown tokens are rejected.
type mockProfileClient struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
	netErr   error
	calls    []string
}

var _ driven.ProfileClient = (*mockProfileClient)(nil)

func newMockProfileClient() *mockProfileClient {
	return &mockProfileClient{profiles: make(map[string]domain.Profile)}
}

func (m *mockProfileClient) FetchProfile(_ context.Context, token string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, token)
	if m.netErr != nil {
		return nil, fmt.Errorf("fetch user info: %w: %w", domain.ErrTransport, m.netErr)
	}
	p, ok := m.profiles[token]
	if !ok {
		return nil, fmt.Errorf("user info request failed with status 401: %w", domain.ErrTokenInvalid)
	}
	return &p, nil
}

func (m *mockProfileClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// failingCredentialStore fails every operation.
type failingCredentialStore struct{}

func (failingCredentialStore) Load(context.Context) (*domain.Credential, error) {
	return nil, errors.New("disk on fire")
}

func (failingCredentialStore) Save(context.Context, domain.Credential) error {
	return errors.New("disk on fire")
}

func (failingCredentialStore) Clear(context.Context) error {
	return errors.New("disk on fire")
}

// mockURLBuilder renders a predictable authorization URL.
type mockURLBuilder struct{}

func (mockURLBuilder) ImplicitGrantURL(req driven.GrantRequest, redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", req.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "token")
	q.Set("scope", strings.Join(req.Scopes, " "))
	q.Set("state", state)
	return "https://accounts.example.com/auth?" + q.Encode()
}

// mockScriptLoader counts loads.
type mockScriptLoader struct {
	mu    sync.Mutex
	loads int
	err   error
	gate  chan struct{}
}

func (m *mockScriptLoader) Load(ctx context.Context) error {
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	return m.err
}

func (m *mockScriptLoader) URL() string {
	return "https://apis.example.com/js/api.js"
}

func (m *mockScriptLoader) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

// mockResolver fills in a fixed size for every file.
type mockResolver struct {
	size  int64
	err   error
	token string
}

func (m *mockResolver) Resolve(_ context.Context, token string, files []domain.PickedFile) ([]domain.PickedFile, error) {
	m.token = token
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.PickedFile, len(files))
	for i, f := range files {
		if f.SizeBytes == nil {
			size := m.size
			f.SizeBytes = &size
		}
		out[i] = f
	}
	return out, nil
}
