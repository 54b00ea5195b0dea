package drive

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/sbsheik/sc-gconnector-gis/internal/connectors/google"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
	"github.com/sbsheik/sc-gconnector-gis/internal/logger"
)

// Resolver fills in picked file metadata the picker widget did not report,
// using the Drive files.get endpoint.
type Resolver struct {
	cfg     *Config
	opts    google.ServiceOptions
	limiter *google.RateLimiter
}

var _ driven.FileResolver = (*Resolver)(nil)

// NewResolver creates a resolver. A nil cfg uses DefaultConfig.
func NewResolver(cfg *Config, opts google.ServiceOptions) *Resolver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Resolver{
		cfg:     cfg,
		opts:    opts,
		limiter: google.NewRateLimiter(google.ServiceDrive),
	}
}

// Resolve returns files with missing metadata filled in. Files that cannot
// be looked up are returned unchanged; only a failure to reach Drive at all
// is reported.
func (r *Resolver) Resolve(ctx context.Context, accessToken string, files []domain.PickedFile) ([]domain.PickedFile, error) {
	out := make([]domain.PickedFile, len(files))
	copy(out, files)

	svc, err := google.NewDriveService(ctx, accessToken, r.opts)
	if err != nil {
		return out, fmt.Errorf("create drive service: %w", err)
	}

	looked := 0
	for i, f := range out {
		if f.ID == "" || !needsMetadata(f) {
			continue
		}
		if r.cfg.MaxFiles > 0 && looked >= r.cfg.MaxFiles {
			logger.Debug("Drive lookup cap reached, %d file(s) left as picked", len(out)-i)
			break
		}
		looked++

		if err := r.limiter.Wait(ctx); err != nil {
			return out, err
		}

		df, err := svc.Files.Get(f.ID).Fields(googleapi.Field(r.cfg.Fields)).SupportsAllDrives(true).Context(ctx).Do()
		if err != nil {
			if google.IsRateLimited(err) {
				r.limiter.Backoff(google.RetryAfter(err))
			}
			logger.Debug("Drive lookup for %s failed: %v", f.ID, google.WrapError(err))
			out[i].URL = ResolveWebURL(f)
			continue
		}
		out[i] = mergeMetadata(f, df)
		out[i].URL = ResolveWebURL(out[i])
	}

	return out, nil
}

// ResolveWebURL returns the file's web link, falling back to the generic
// Drive viewer URL.
func ResolveWebURL(f domain.PickedFile) string {
	if f.URL != "" {
		return f.URL
	}
	if f.ID == "" || strings.ContainsAny(f.ID, "/?#") {
		return ""
	}
	return "https://drive.google.com/file/d/" + f.ID + "/view"
}
