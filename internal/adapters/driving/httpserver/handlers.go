package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
	"github.com/sbsheik/sc-gconnector-gis/internal/logger"
)

// handleStart issues a state and sends the browser to Google.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	authURL, err := s.services.Callback.Begin(r.Context())
	if err != nil {
		logger.Warn("Begin redirect grant: %v", err)
		writeError(w, err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// handleProviderCallback forwards to the handler page. The token is in the
// fragment, which the browser keeps across the redirect.
func (s *Server) handleProviderCallback(w http.ResponseWriter, r *http.Request) {
	if providerErr := r.URL.Query().Get("error"); providerErr != "" {
		logger.Warn("Google reported %q on redirect", providerErr)
		http.Redirect(w, r, s.services.Callback.ErrorRedirect(providerErr), http.StatusFound)
		return
	}
	http.Redirect(w, r, s.services.Callback.HandlerRedirect(r.URL.RawQuery), http.StatusFound)
}

func (s *Server) handleHandlerPage(w http.ResponseWriter, _ *http.Request) {
	render(w, handlerPage, handlerPageData{CompleteURL: driving.CompletePath})
}

type completeRequest struct {
	Fragment string `json:"fragment"`
}

type completeResponse struct {
	Message         string          `json:"message"`
	RedirectURL     string          `json:"redirectUrl"`
	RedirectDelayMs int             `json:"redirectDelayMs"`
	Profile         *domain.Profile `json:"profile"`
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, domain.NewOperationError(domain.ErrValidation, "Malformed request body", err))
		return
	}

	result, err := s.services.Callback.Complete(r.Context(), req.Fragment)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, completeResponse{
		Message:         result.Message,
		RedirectURL:     result.RedirectURL,
		RedirectDelayMs: result.RedirectDelayMillis,
		Profile:         result.Profile,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.services.Session.Status())
}

type enterpriseResponse struct {
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

func (s *Server) handleEnterprise(w http.ResponseWriter, _ *http.Request) {
	guard := s.services.Enterprise
	if guard == nil {
		writeJSON(w, http.StatusOK, enterpriseResponse{Reason: "not configured"})
		return
	}
	writeJSON(w, http.StatusOK, enterpriseResponse{
		Enabled: guard.Enabled(),
		Reason:  guard.Reason(),
		Params:  guard.AuthorizationParams(),
	})
}

func (s *Server) handlePickerPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, err := s.services.Picker.Session(id)
	if err != nil {
		writeError(w, err)
		return
	}

	render(w, pickerPage, pickerPageData{
		ScriptURL:    session.ScriptURL,
		AccessToken:  session.AccessToken,
		DeveloperKey: session.DeveloperKey,
		AppID:        session.AppID,
		ViewID:       string(session.Options.ViewID),
		MultiSelect:  session.Options.MultiSelect,
		Title:        session.Options.Title,
		ResultURL:    pickerResultURL(id),
	})
}

func (s *Server) handlePickerResult(w http.ResponseWriter, r *http.Request) {
	var resp domain.PickerResponse
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&resp); err != nil {
		writeError(w, domain.NewOperationError(domain.ErrValidation, "Malformed picker response", err))
		return
	}

	if err := s.services.Picker.Deliver(r.Context(), r.PathValue("id"), resp); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PickerURL returns the page URL for a picker session under base.
func PickerURL(base, id string) string {
	return base + "/picker/" + id
}

func pickerResultURL(id string) string {
	return PickerURL("", id) + "/result"
}
