package google

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/drive/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
)

// defaultRequestTimeout bounds a single profile lookup.
const defaultRequestTimeout = 10 * time.Second

// ServiceOptions configures how API clients reach Google.
type ServiceOptions struct {
	// Endpoint overrides the API base URL. Used by tests.
	Endpoint string
	// HTTPClient supplies the transport. The bearer token is layered on top.
	HTTPClient *http.Client
}

func (o ServiceOptions) clientOptions(ctx context.Context, accessToken string) []option.ClientOption {
	opts := []option.ClientOption{
		option.WithHTTPClient(NewHTTPClient(ctx, o.HTTPClient, accessToken)),
	}
	if o.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(o.Endpoint))
	}
	return opts
}

// NewDriveService creates a Google Drive API service authorised with accessToken.
func NewDriveService(ctx context.Context, accessToken string, opts ServiceOptions) (*drive.Service, error) {
	return drive.NewService(ctx, opts.clientOptions(ctx, accessToken)...)
}

// NewUserinfoService creates an OAuth2 userinfo service authorised with accessToken.
func NewUserinfoService(ctx context.Context, accessToken string, opts ServiceOptions) (*oauth2api.Service, error) {
	return oauth2api.NewService(ctx, opts.clientOptions(ctx, accessToken)...)
}

// ProfileClient fetches the signed-in user's profile. A successful fetch is
// also the proof that a token is still accepted.
type ProfileClient struct {
	opts    ServiceOptions
	timeout time.Duration
	limiter *RateLimiter
}

var _ driven.ProfileClient = (*ProfileClient)(nil)

// NewProfileClient creates a profile client.
func NewProfileClient(opts ServiceOptions) *ProfileClient {
	return &ProfileClient{
		opts:    opts,
		timeout: defaultRequestTimeout,
		limiter: NewRateLimiter(ServiceUserinfo),
	}
}

// FetchProfile calls the userinfo endpoint with accessToken.
func (c *ProfileClient) FetchProfile(ctx context.Context, accessToken string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", domain.ErrTransport, err)
	}

	svc, err := NewUserinfoService(ctx, accessToken, c.opts)
	if err != nil {
		return nil, fmt.Errorf("create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		if IsRateLimited(err) {
			c.limiter.Backoff(RetryAfter(err))
		}
		return nil, fmt.Errorf("fetch user info: %w", ToDomainError(err))
	}

	return &domain.Profile{
		ID:      info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
