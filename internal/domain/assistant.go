package domain

import (
	"context"
	"time"
)

// MessageKind discriminates the chat message union: ordinary text messages
// versus action prompts the client renders as a button.
type MessageKind string

const (
	MessageKindText   MessageKind = "text"
	MessageKindAction MessageKind = "action"
)

// MessageRole is the author of a text message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one entry in an assistant transcript. Text messages carry
// Role, Text and Loading; action prompts carry only Action (the label doubles
// as the action identifier). The transcript is append/replace-only: the only
// in-place mutation is swapping a loading placeholder for its final text.
// swagger:model ChatMessage
type ChatMessage struct {
	ID        string      `json:"id"`
	Kind      MessageKind `json:"kind"`
	Role      MessageRole `json:"role,omitempty"`
	Text      string      `json:"text,omitempty"`
	Action    string      `json:"action,omitempty"`
	Loading   bool        `json:"loading,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ParsedMeetingRequest is the structured result of extracting meeting fields
// from one free-text request. All extracted fields are optional; Error is set
// when extraction failed, including the semantically-empty case where none of
// title, participants or date/time info could be recovered.
// swagger:model ParsedMeetingRequest
type ParsedMeetingRequest struct {
	Title           string   `json:"title,omitempty"`
	Participants    []string `json:"participants,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	DateTimeInfo    string   `json:"date_time_info,omitempty"`
	RawQuery        string   `json:"raw_query"`
	Error           string   `json:"error,omitempty"`
}

// Empty reports whether no useful field was extracted. An empty result must
// be surfaced as an extraction failure, not as a valid blank request.
func (r ParsedMeetingRequest) Empty() bool {
	return r.Title == "" && len(r.Participants) == 0 && r.DateTimeInfo == ""
}

// RequestExtractor turns a free-text scheduling request into a
// ParsedMeetingRequest. Transport failures surface as an error with the fixed
// user-facing message; malformed or empty model output surfaces as a result
// whose Error field is set.
type RequestExtractor interface {
	ExtractMeetingRequest(ctx context.Context, query string) (ParsedMeetingRequest, error)
}

// AssistantService runs the per-user conversation loop.
type AssistantService interface {
	// Transcript returns the user's transcript, seeding the fixed greeting
	// on first access.
	Transcript(ctx context.Context, userID string) ([]ChatMessage, error)
	// Send processes one user turn and returns the updated transcript.
	Send(ctx context.Context, userID, text string) ([]ChatMessage, error)
	// InvokeAction re-runs extraction against the most recent user message
	// and returns the result for seeding a wizard session. When re-extraction
	// fails it appends an error message to the transcript and returns
	// ok=false instead of an error.
	InvokeAction(ctx context.Context, userID string) (req *ParsedMeetingRequest, ok bool, err error)
	// Shutdown cancels pending action-prompt timers at teardown.
	Shutdown()
}
