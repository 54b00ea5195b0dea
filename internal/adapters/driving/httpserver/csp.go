package httpserver

import (
	"net/http"
	"strings"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// BuildCSP renders the Content-Security-Policy for the given domains.
// Parent domains may only frame the app; trusted domains are allowed
// everywhere the picker needs them.
func BuildCSP(csp domain.CSPSettings) string {
	trusted := strings.Join(csp.TrustedDomains, " ")
	ancestors := make([]string, 0, 1+len(csp.ParentDomains)+len(csp.TrustedDomains))
	ancestors = append(ancestors, "'self'")
	ancestors = append(ancestors, csp.ParentDomains...)
	ancestors = append(ancestors, csp.TrustedDomains...)

	directives := []string{
		"frame-ancestors " + strings.Join(ancestors, " "),
		"frame-src 'self' " + trusted,
		"script-src 'self' 'unsafe-inline' 'unsafe-eval' " + trusted,
		"connect-src 'self' " + trusted,
		"img-src 'self' data: blob: " + trusted,
		"style-src 'self' 'unsafe-inline' " + trusted,
		"font-src 'self' data: " + trusted,
	}
	for i, d := range directives {
		directives[i] = strings.TrimSpace(d)
	}
	return strings.Join(directives, "; ")
}

// CSP sets the policy header on every response.
func CSP(policy string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", policy)
		next.ServeHTTP(w, r)
	})
}
