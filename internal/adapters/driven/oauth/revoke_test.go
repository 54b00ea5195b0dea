package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevoker_Revoke(t *testing.T) {
	var gotToken, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotToken = r.PostForm.Get("token")
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewRevoker(srv.URL, srv.Client()).Revoke(context.Background(), "tok1")

	require.NoError(t, err)
	assert.Equal(t, "tok1", gotToken)
	assert.Equal(t, "application/x-www-form-urlencoded", gotType)
}

func TestRevoker_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_token","error_description":"Token expired or revoked"}`))
	}))
	defer srv.Close()

	err := NewRevoker(srv.URL, srv.Client()).Revoke(context.Background(), "tok1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_token - Token expired or revoked")
}

func TestRevoker_StatusOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewRevoker(srv.URL, srv.Client()).Revoke(context.Background(), "tok1")

	assert.ErrorContains(t, err, "status 503")
}
