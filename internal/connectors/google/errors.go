package google

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// Common Google API errors.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("google: resource not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("google: rate limit exceeded")
)

func statusCode(err error) (int, bool) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code, true
	}
	return 0, false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	code, ok := statusCode(err)
	return ok && code == http.StatusTooManyRequests
}

// RetryAfter returns the server requested backoff for a 429, or zero.
func RetryAfter(err error) time.Duration {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// WrapError converts a Google API error to a more specific error type.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	code, ok := statusCode(err)
	if !ok {
		return err
	}

	switch code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return err
	}
}

// ToDomainError classifies err for the session. Any HTTP response the API
// rejected means the token is not usable, except a 429 which says nothing
// about the token. Anything else is a transport failure.
func ToDomainError(err error) error {
	if err == nil {
		return nil
	}
	code, ok := statusCode(err)
	if !ok {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	if code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", domain.ErrTransport, ErrRateLimited)
	}
	return fmt.Errorf("request failed with status %d: %w: %w", code, domain.ErrTokenInvalid, WrapError(err))
}
