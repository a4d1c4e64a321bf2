package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"smartmeet/internal/domain"
)

// highlightTTL is how long a just-scheduled meeting keeps its highlight flag.
const highlightTTL = 5 * time.Second

type meetingService struct {
	repo           domain.MeetingRepository
	invitations    domain.InvitationSender
	logger         *slog.Logger
	contextTimeout time.Duration
	highlightTTL   time.Duration
	now            func() time.Time

	mu     sync.Mutex
	timers []*time.Timer
	closed bool
}

// NewMeetingService creates a MeetingService. invitations may be nil to skip
// invitation delivery entirely.
func NewMeetingService(repo domain.MeetingRepository, invitations domain.InvitationSender, logger *slog.Logger, timeout time.Duration) domain.MeetingService {
	return &meetingService{
		repo:           repo,
		invitations:    invitations,
		logger:         logger,
		contextTimeout: timeout,
		highlightTTL:   highlightTTL,
		now:            time.Now,
	}
}

// Schedule stores the meeting, marks it newly scheduled and arms a one-shot
// timer that clears the highlight. The timer handle is retained so Shutdown
// can cancel it; a fired or cancelled timer never writes into a torn-down
// service.
func (s *meetingService) Schedule(ctx context.Context, meeting *domain.Meeting) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if meeting.Title == "" || len(meeting.Participants) == 0 || meeting.Date == "" || meeting.StartTime == "" {
		return nil, domain.NewValidationError("title, participants, date and start time are required")
	}
	if meeting.EndTime == "" {
		return nil, domain.NewValidationError("end time is required")
	}

	meeting.CreatedAt = s.now()
	meeting.NewlyScheduled = true
	if err := s.repo.Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}

	s.scheduleHighlightClear(meeting.ID)

	if s.invitations != nil {
		sent, failed := s.invitations.SendInvitations(context.WithoutCancel(ctx), meeting)
		if len(failed) > 0 {
			s.logger.WarnContext(ctx, "some invitations failed", "meeting_id", meeting.ID, "sent", sent, "failed", failed)
		}
	}

	return meeting, nil
}

func (s *meetingService) scheduleHighlightClear(meetingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(s.highlightTTL, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
		ctx, cancel := context.WithTimeout(context.Background(), s.contextTimeout)
		defer cancel()
		if err := s.repo.SetNewlyScheduled(ctx, meetingID, false); err != nil {
			s.logger.Warn("failed to clear highlight", "meeting_id", meetingID, "err", err)
		}
		s.removeTimer(t)
	})
	s.timers = append(s.timers, t)
}

func (s *meetingService) removeTimer(t *time.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.timers {
		if other == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

func (s *meetingService) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.repo.GetByID(ctx, id)
}

// List returns meetings newest-first, optionally narrowed to today or the
// coming seven days. Filtering compares calendar dates in the server's local
// zone; timezone-correct scheduling is out of scope.
func (s *meetingService) List(ctx context.Context, filter domain.MeetingFilter) ([]*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	meetings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	if filter == domain.FilterAll || filter == "" {
		return meetings, nil
	}

	today := s.now().Format("2006-01-02")
	weekEnd := s.now().AddDate(0, 0, 7).Format("2006-01-02")
	out := make([]*domain.Meeting, 0, len(meetings))
	for _, m := range meetings {
		switch filter {
		case domain.FilterToday:
			if m.Date == today {
				out = append(out, m)
			}
		case domain.FilterThisWeek:
			if m.Date >= today && m.Date <= weekEnd {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// Shutdown cancels all pending highlight timers. Safe to call once during
// process teardown.
func (s *meetingService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
