// Package tui provides an interactive terminal user interface for gconnector.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session is the Google session. Required.
	Session driving.SessionService

	// Enterprise reports the organization identity provider. Optional.
	Enterprise driving.EnterpriseGuard
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(session driving.SessionService, enterprise driving.EnterpriseGuard) *Ports {
	return &Ports{
		Session:    session,
		Enterprise: enterprise,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}
