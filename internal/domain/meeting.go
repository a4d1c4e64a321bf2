package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Meeting represents a scheduled meeting. Date is a calendar date
// (YYYY-MM-DD); StartTime and EndTime are 24-hour wall-clock times (HH:mm).
// swagger:model Meeting
type Meeting struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Date         string    `json:"date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Participants []string  `json:"participants"`
	Agenda       string    `json:"agenda,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Location     string    `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// NewlyScheduled marks a just-created meeting for UI highlighting.
	// It is presentation state: cleared by a one-shot timer, never persisted
	// as a durable attribute.
	NewlyScheduled bool `json:"newly_scheduled"`
}

// NewMeeting returns a new Meeting with the given fields. ID is set by the
// repository on create.
func NewMeeting(title, date, startTime, endTime string, participants []string, createdAt time.Time) *Meeting {
	return &Meeting{
		Title:        title,
		Date:         date,
		StartTime:    startTime,
		EndTime:      endTime,
		Participants: participants,
		CreatedAt:    createdAt,
	}
}

// TimeSlot is one candidate meeting window suggested by the assistant.
// Start and End are ISO-8601 timestamps as returned by the model.
// swagger:model TimeSlot
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MeetingFilter selects which meetings a listing returns.
type MeetingFilter string

const (
	FilterToday    MeetingFilter = "today"
	FilterThisWeek MeetingFilter = "week"
	FilterAll      MeetingFilter = "all"
)

// ParseMeetingFilter maps a query-string value to a MeetingFilter,
// defaulting to FilterAll for empty or unknown values.
func ParseMeetingFilter(s string) MeetingFilter {
	switch MeetingFilter(s) {
	case FilterToday, FilterThisWeek:
		return MeetingFilter(s)
	default:
		return FilterAll
	}
}

// ComputeEndTime returns startTime plus durationMinutes as HH:mm,
// wrapped modulo 24 hours. Day rollover is intentionally discarded:
// "23:50" + 20 minutes yields "00:10" with no next-day marker.
func ComputeEndTime(startTime string, durationMinutes int) (string, error) {
	if durationMinutes < 0 {
		return "", fmt.Errorf("invalid duration %d: must not be negative", durationMinutes)
	}
	hours, minutes, err := splitClock(startTime)
	if err != nil {
		return "", err
	}
	total := hours*60 + minutes + durationMinutes
	endHours := (total / 60) % 24
	endMinutes := total % 60
	return fmt.Sprintf("%02d:%02d", endHours, endMinutes), nil
}

func splitClock(s string) (hours, minutes int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:mm", s)
	}
	hours, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	minutes, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return hours, minutes, nil
}

// MeetingRepository defines the interface for meeting storage.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *Meeting) error
	GetByID(ctx context.Context, id string) (*Meeting, error)
	List(ctx context.Context) ([]*Meeting, error)
	SetNewlyScheduled(ctx context.Context, id string, newlyScheduled bool) error
}

// MeetingService defines the business logic around the meeting collection.
// Shutdown cancels pending one-shot timers (highlight clearing) at teardown.
type MeetingService interface {
	Schedule(ctx context.Context, meeting *Meeting) (*Meeting, error)
	GetByID(ctx context.Context, id string) (*Meeting, error)
	List(ctx context.Context, filter MeetingFilter) ([]*Meeting, error)
	Shutdown()
}

// SlotSuggester asks the language model for candidate meeting slots.
// A failed call returns an empty list plus an error carrying the fixed
// user-facing message; it never panics through to delivery.
type SlotSuggester interface {
	SuggestSlots(ctx context.Context, participants []string, date string, durationMinutes int) ([]TimeSlot, error)
}
