// Package google provides the Google API adapters used by the session and
// the picker.
//
// It contains:
//   - ProfileClient, which validates bearer tokens against the userinfo endpoint
//   - AuthURLBuilder, which renders implicit grant authorization URLs
//   - ScriptLoader, which checks the picker script is reachable
//   - Token sources and HTTP clients built from a bare access token
//   - Error mapping for common Google API errors (401, 403, 404, 429)
//   - Rate limiting to respect Google API quotas
//
// The Drive metadata resolver lives in the drive subpackage.
//
// # OAuth2 Scopes
//
// The default grant requests:
//   - email (non-sensitive)
//   - profile (non-sensitive)
//   - https://www.googleapis.com/auth/drive (restricted)
package google
