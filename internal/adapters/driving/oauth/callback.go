// Package oauth provides the loopback server that receives implicit grant
// redirects, plus browser and port utilities.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// Callback routes served on the loopback listener.
const (
	callbackPath = "/callback"
	fragmentPath = "/callback/fragment"
)

// Provider error codes synthesised locally.
const (
	ErrCodeInvalidState = "invalid_state"
	ErrCodePopupClosed  = "popup_closed"
)

// maxFragmentBytes bounds the posted fragment.
const maxFragmentBytes = 16 << 10

// CallbackServer receives the implicit grant redirect on a loopback port.
// The token arrives in the URL fragment, which the browser never sends, so
// the callback page posts it back to the fragment endpoint.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	resultChan    chan domain.GrantResult
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a callback server that accepts only expectedState.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		resultChan:    make(chan domain.GrantResult, 1),
		errChan:       make(chan error, 1),
	}
}

// Start starts listening. If port is 0, a random available port is chosen.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, s.handleCallback)
	mux.HandleFunc(fragmentPath, s.handleFragment)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	return nil
}

// handleCallback serves the page that forwards the fragment. Errors Google
// reports in the query string are delivered directly.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != callbackPath {
		http.NotFound(w, r)
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		s.deliver(domain.GrantResult{
			Error:            errParam,
			ErrorDescription: r.URL.Query().Get("error_description"),
			State:            r.URL.Query().Get("state"),
		})
		writeHTML(w, resultHTML("Authorization failed", r.URL.Query().Get("error_description")))
		return
	}

	writeHTML(w, fragmentHTML)
}

// handleFragment validates the posted fragment and delivers the result.
func (s *CallbackServer) handleFragment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFragmentBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	params, err := url.ParseQuery(r.PostForm.Get("fragment"))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	result := ParseFragment(params)
	if result.State == "" || result.State != s.expectedState {
		result = domain.GrantResult{Error: ErrCodeInvalidState, ErrorDescription: "invalid state"}
	} else if !result.Failed() && result.AccessToken == "" {
		result = domain.GrantResult{Error: "invalid_response", ErrorDescription: "No access token received from Google"}
	}

	s.deliver(result)

	if result.Failed() {
		writeHTML(w, resultHTML("Authorization failed", result.Message()))
		return
	}
	writeHTML(w, resultHTML("Authorization successful!", "You can close this window and return to the application."))
}

// deliver hands over the first result; later ones are dropped.
func (s *CallbackServer) deliver(result domain.GrantResult) {
	select {
	case s.resultChan <- result:
	default:
	}
}

// ParseFragment converts implicit grant redirect parameters to a GrantResult.
func ParseFragment(params url.Values) domain.GrantResult {
	expiresIn, _ := strconv.Atoi(params.Get("expires_in"))
	return domain.GrantResult{
		AccessToken:      params.Get("access_token"),
		TokenType:        params.Get("token_type"),
		ExpiresIn:        expiresIn,
		Scope:            params.Get("scope"),
		State:            params.Get("state"),
		Error:            params.Get("error"),
		ErrorDescription: params.Get("error_description"),
	}
}

// WaitForResult blocks until a result arrives, the server fails or ctx ends.
func (s *CallbackServer) WaitForResult(ctx context.Context) (domain.GrantResult, error) {
	select {
	case result := <-s.resultChan:
		return result, nil
	case err := <-s.errChan:
		return domain.GrantResult{}, err
	case <-ctx.Done():
		return domain.GrantResult{}, fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts down the callback server.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the redirect URI for this callback server.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.Port(), callbackPath)
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer")
	_, _ = fmt.Fprint(w, body)
}

// fragmentHTML posts the fragment back and swaps in the server's answer.
// The fragment is removed from the address bar first.
const fragmentHTML = `<!DOCTYPE html>
<html>
<head><title>Google Connector - Signing in</title></head>
<body>
<p id="status">Completing sign-in...</p>
<script>
(function () {
  var fragment = window.location.hash.substring(1);
  history.replaceState(null, "", window.location.pathname);
  fetch("` + fragmentPath + `", {
    method: "POST",
    headers: {"Content-Type": "application/x-www-form-urlencoded"},
    body: "fragment=" + encodeURIComponent(fragment)
  }).then(function (r) { return r.text(); }).then(function (page) {
    document.open(); document.write(page); document.close();
  }).catch(function () {
    document.getElementById("status").textContent = "Could not complete sign-in. Close this window and try again.";
  });
})();
</script>
</body>
</html>`

//nolint:misspell // CSS properties use American spelling
func resultHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>Google Connector - Sign in</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
            box-shadow: 0 4px 24px rgba(0,0,0,0.08);
        }
        h1 { color: #333F50; margin: 0 0 8px 0; font-size: 24px; font-weight: 600; }
        p { color: #7B8088; margin: 0; font-size: 16px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}

// GenerateState returns a random URL-safe state value.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
