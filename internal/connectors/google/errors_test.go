package google

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unauthorized", err: &googleapi.Error{Code: http.StatusUnauthorized}, want: ErrUnauthorized},
		{name: "forbidden", err: &googleapi.Error{Code: http.StatusForbidden}, want: ErrForbidden},
		{name: "not found", err: &googleapi.Error{Code: http.StatusNotFound}, want: ErrNotFound},
		{name: "rate limited", err: &googleapi.Error{Code: http.StatusTooManyRequests}, want: ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, WrapError(tt.err), tt.want)
		})
	}

	plain := errors.New("boom")
	assert.Equal(t, plain, WrapError(plain))
	assert.NoError(t, WrapError(nil))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(&googleapi.Error{Code: 429}))
	assert.False(t, IsRateLimited(errors.New("429")))
}

func TestRetryAfter(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "12")

	assert.Equal(t, 12*time.Second, RetryAfter(&googleapi.Error{Code: 429, Header: header}))
	assert.Zero(t, RetryAfter(&googleapi.Error{Code: 429}))
	assert.Zero(t, RetryAfter(errors.New("nope")))
}

func TestToDomainError(t *testing.T) {
	assert.ErrorIs(t, ToDomainError(&googleapi.Error{Code: 500}), domain.ErrTokenInvalid)
	assert.ErrorIs(t, ToDomainError(errors.New("dial tcp: refused")), domain.ErrTransport)

	limited := ToDomainError(&googleapi.Error{Code: http.StatusTooManyRequests})
	assert.ErrorIs(t, limited, domain.ErrTransport)
	assert.ErrorIs(t, limited, ErrRateLimited)
	assert.NotErrorIs(t, limited, domain.ErrTokenInvalid)
	assert.NoError(t, ToDomainError(nil))
}
