package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartmeet/internal/domain"
)

// Validation messages shown in the wizard's per-step error slot.
const (
	msgFillRequired       = "Please fill required fields first."
	msgFillForSuggestions = "Please fill in participants, date, and duration to get suggestions."
	msgSuggestionsFailed  = "Failed to fetch suggestions. Please try again or enter time manually."
	msgSubmitRequired     = "Please fill in all required fields: Title, Participants, Date, and Start Time."
	msgInvalidStartTime   = "Invalid start time format."
	msgInvalidDuration    = "Duration must be a positive number of minutes."
)

const defaultDurationMinutes = 30

// wizardSession is one open scheduling flow. generation guards the
// suggestion fetch: a response whose generation no longer matches the
// session's is stale and must not overwrite newer state.
type wizardSession struct {
	id          string
	userID      string
	step        domain.WizardStep
	fields      domain.WizardFields
	suggestions []domain.TimeSlot
	errMsg      string
	generation  uint64
	closed      bool
}

func (s *wizardSession) snapshot() *domain.WizardState {
	fields := s.fields
	fields.Participants = append([]string(nil), s.fields.Participants...)
	return &domain.WizardState{
		SessionID:   s.id,
		Step:        s.step,
		Fields:      fields,
		Suggestions: append([]domain.TimeSlot(nil), s.suggestions...),
		Error:       s.errMsg,
	}
}

type wizardService struct {
	meetings  domain.MeetingService
	suggester domain.SlotSuggester
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*wizardSession
}

// NewWizardService creates a WizardService backed by the given meeting
// service and slot suggester.
func NewWizardService(meetings domain.MeetingService, suggester domain.SlotSuggester) domain.WizardService {
	return &wizardService{
		meetings:  meetings,
		suggester: suggester,
		now:       time.Now,
		sessions:  make(map[string]*wizardSession),
	}
}

// Open starts a fresh session. Seed data from the assistant pre-fills the
// fields; the step always resets to details regardless of any prior session.
func (s *wizardService) Open(ctx context.Context, userID string, seed *domain.ParsedMeetingRequest) (*domain.WizardState, error) {
	sess := &wizardSession{
		id:     uuid.NewString(),
		userID: userID,
		step:   domain.StepDetails,
		fields: domain.WizardFields{
			Date:            s.now().Format("2006-01-02"),
			DurationMinutes: defaultDurationMinutes,
		},
	}

	if seed != nil && seed.Error == "" {
		sess.fields.Title = seed.Title
		sess.fields.Participants = append([]string(nil), seed.Participants...)
		sess.fields.Agenda = "Scheduled via AI: " + seed.RawQuery
		if seed.DurationMinutes > 0 {
			sess.fields.DurationMinutes = seed.DurationMinutes
		}
		if date, start, ok := parseDateTimeInfo(seed.DateTimeInfo); ok {
			sess.fields.Date = date
			sess.fields.StartTime = start
		}
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess.snapshot(), nil
}

// parseDateTimeInfo attempts to read a concrete timestamp or date out of the
// free-text date/time description. Phrases like "next Tuesday afternoon" are
// left for the user to resolve in the form.
func parseDateTimeInfo(info string) (date, startTime string, ok bool) {
	if info == "" {
		return "", "", false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, info); err == nil {
			return t.Format("2006-01-02"), t.Format("15:04"), true
		}
	}
	if t, err := time.Parse("2006-01-02", info); err == nil {
		return t.Format("2006-01-02"), "", true
	}
	return "", "", false
}

// lookup returns the session when it exists and belongs to userID. A
// session owned by someone else is indistinguishable from a missing one.
// Caller holds s.mu.
func (s *wizardService) lookup(userID, sessionID string) (*wizardSession, error) {
	sess, ok := s.sessions[sessionID]
	if !ok || sess.userID != userID {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *wizardService) Get(ctx context.Context, userID, sessionID string) (*domain.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.snapshot(), nil
}

// UpdateFields overwrites the editable fields. Suggestions and the current
// step are preserved; the error slot is left for the next validation attempt.
func (s *wizardService) UpdateFields(ctx context.Context, userID, sessionID string, fields domain.WizardFields) (*domain.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	fields.Participants = trimNonEmpty(fields.Participants)
	sess.fields = fields
	return sess.snapshot(), nil
}

// Next advances details -> time selection when title, participants, date and
// a positive duration are present; otherwise the step stays and the error
// slot is set.
func (s *wizardService) Next(ctx context.Context, userID, sessionID string) (*domain.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	f := sess.fields
	if f.Title == "" || len(f.Participants) == 0 || f.Date == "" || f.DurationMinutes <= 0 {
		sess.errMsg = msgFillRequired
		return sess.snapshot(), nil
	}
	sess.step = domain.StepTimeSelection
	sess.errMsg = ""
	return sess.snapshot(), nil
}

// Back returns to the details step unconditionally. Suggestions and any
// manually entered time survive the round trip.
func (s *wizardService) Back(ctx context.Context, userID, sessionID string) (*domain.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.step = domain.StepDetails
	sess.errMsg = ""
	return sess.snapshot(), nil
}

// FetchSuggestions asks the model for candidate slots. The call runs without
// holding the lock; the generation counter taken before the call decides
// whether its result is still current when it lands.
func (s *wizardService) FetchSuggestions(ctx context.Context, userID, sessionID string) (*domain.WizardState, error) {
	s.mu.Lock()
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	f := sess.fields
	if len(f.Participants) == 0 || f.Date == "" || f.DurationMinutes <= 0 {
		sess.errMsg = msgFillForSuggestions
		state := sess.snapshot()
		s.mu.Unlock()
		return state, nil
	}
	sess.generation++
	gen := sess.generation
	sess.suggestions = nil
	sess.errMsg = ""
	s.mu.Unlock()

	slots, err := s.suggester.SuggestSlots(ctx, f.Participants, f.Date, f.DurationMinutes)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.closed {
		return nil, domain.ErrSessionClosed
	}
	if gen != sess.generation {
		// A newer fetch superseded this one; drop the stale result.
		return sess.snapshot(), nil
	}
	if err != nil {
		sess.suggestions = nil
		sess.errMsg = msgSuggestionsFailed
		return sess.snapshot(), nil
	}
	sess.suggestions = slots
	sess.errMsg = ""
	return sess.snapshot(), nil
}

// SelectSlot copies a suggested slot's date and start time into the fields.
// The step does not advance.
func (s *wizardService) SelectSlot(ctx context.Context, userID, sessionID string, index int) (*domain.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sess.suggestions) {
		return nil, domain.NewValidationError(fmt.Sprintf("no suggestion at index %d", index))
	}
	slot := sess.suggestions[index]
	start, err := parseSlotStart(slot.Start)
	if err != nil {
		sess.errMsg = msgInvalidStartTime
		return sess.snapshot(), nil
	}
	sess.fields.Date = start.Format("2006-01-02")
	sess.fields.StartTime = start.Format("15:04")
	sess.errMsg = ""
	return sess.snapshot(), nil
}

func parseSlotStart(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Submit validates the final fields, computes the end time (start plus
// duration, wrapped modulo 24 hours) and hands the meeting to the meeting
// service. On success the session closes.
func (s *wizardService) Submit(ctx context.Context, userID, sessionID string) (*domain.Meeting, *domain.WizardState, error) {
	s.mu.Lock()
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	f := sess.fields
	if f.Title == "" || len(f.Participants) == 0 || f.Date == "" || f.StartTime == "" {
		sess.errMsg = msgSubmitRequired
		state := sess.snapshot()
		s.mu.Unlock()
		return nil, state, nil
	}
	// The details-step guard requires a positive duration, but PATCH can
	// change it afterwards, so re-check here.
	if f.DurationMinutes <= 0 {
		sess.errMsg = msgInvalidDuration
		state := sess.snapshot()
		s.mu.Unlock()
		return nil, state, nil
	}
	endTime, err := domain.ComputeEndTime(f.StartTime, f.DurationMinutes)
	if err != nil {
		sess.errMsg = msgInvalidStartTime
		state := sess.snapshot()
		s.mu.Unlock()
		return nil, state, nil
	}
	sess.errMsg = ""
	s.mu.Unlock()

	meeting := domain.NewMeeting(f.Title, f.Date, f.StartTime, endTime, f.Participants, time.Time{})
	meeting.Agenda = f.Agenda
	meeting.Location = f.Location

	created, err := s.meetings.Schedule(ctx, meeting)
	if err != nil {
		return nil, nil, fmt.Errorf("schedule meeting: %w", err)
	}

	s.mu.Lock()
	sess.closed = true
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return created, nil, nil
}

// Close discards the session. Closing an unknown session is not an error:
// the wizard has no identity across open/close cycles.
func (s *wizardService) Close(ctx context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, err := s.lookup(userID, sessionID); err == nil {
		sess.closed = true
		delete(s.sessions, sessionID)
	}
	return nil
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
