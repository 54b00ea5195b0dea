// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// StatusChanged carries a session status published by the core.
type StatusChanged struct {
	Status domain.SessionStatus
}

// InitCompleted is sent once session revalidation has finished.
type InitCompleted struct {
	Err error
}

// Action identifies a user-triggered session operation.
type Action string

// Session actions.
const (
	ActionConnect    Action = "connect"
	ActionDisconnect Action = "disconnect"
	ActionRefresh    Action = "refresh"
)

// ActionCompleted is sent when an action's call returns. For connect this is
// when the consent page has opened; the outcome arrives as StatusChanged.
type ActionCompleted struct {
	Action Action
	Err    error
}
