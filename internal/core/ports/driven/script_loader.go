package driven

import "context"

// ScriptLoader checks that an external script the browser will load is available.
type ScriptLoader interface {
	// Load verifies the script can be fetched.
	Load(ctx context.Context) error

	// URL returns the script URL.
	URL() string
}
