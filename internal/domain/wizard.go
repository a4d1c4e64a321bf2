package domain

import "context"

// WizardStep is the current step of the two-step scheduling wizard.
type WizardStep string

const (
	StepDetails       WizardStep = "details"
	StepTimeSelection WizardStep = "time_selection"
)

// WizardFields are the user-editable fields of a wizard session.
// Participants is kept as an ordered list; delivery joins/splits as needed.
type WizardFields struct {
	Title           string   `json:"title"`
	Participants    []string `json:"participants"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	DurationMinutes int      `json:"duration_minutes"`
	Agenda          string   `json:"agenda"`
	Location        string   `json:"location"`
}

// WizardState is a snapshot of one wizard session as exposed to delivery.
// Error is the single mutable per-step error slot: overwritten on each
// validation attempt, cleared on every successful transition or fetch.
// swagger:model WizardState
type WizardState struct {
	SessionID   string       `json:"session_id"`
	Step        WizardStep   `json:"step"`
	Fields      WizardFields `json:"fields"`
	Suggestions []TimeSlot   `json:"suggestions"`
	Error       string       `json:"error,omitempty"`
}

// WizardService orchestrates scheduling sessions. Every Open is a fresh
// session: the wizard has no identity across open/close cycles beyond the
// initial seed data passed in. Sessions are owned by the opening user;
// another user's session ID behaves like an unknown one.
type WizardService interface {
	Open(ctx context.Context, userID string, seed *ParsedMeetingRequest) (*WizardState, error)
	Get(ctx context.Context, userID, sessionID string) (*WizardState, error)
	UpdateFields(ctx context.Context, userID, sessionID string, fields WizardFields) (*WizardState, error)
	Next(ctx context.Context, userID, sessionID string) (*WizardState, error)
	Back(ctx context.Context, userID, sessionID string) (*WizardState, error)
	FetchSuggestions(ctx context.Context, userID, sessionID string) (*WizardState, error)
	SelectSlot(ctx context.Context, userID, sessionID string, index int) (*WizardState, error)
	Submit(ctx context.Context, userID, sessionID string) (*Meeting, *WizardState, error)
	Close(ctx context.Context, userID, sessionID string) error
}
