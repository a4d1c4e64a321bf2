package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartmeet/internal/domain"
)

// fakeMeetingRepo implements domain.MeetingRepository for tests.
type fakeMeetingRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Meeting
	ordered []*domain.Meeting
	nextID  int
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{byID: make(map[string]*domain.Meeting)}
}

func (f *fakeMeetingRepo) Create(ctx context.Context, m *domain.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m.ID = fmt.Sprintf("mtg-%d", f.nextID)
	stored := *m
	f.byID[m.ID] = &stored
	f.ordered = append(f.ordered, &stored)
	return nil
}

func (f *fakeMeetingRepo) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *m
	return &out, nil
}

func (f *fakeMeetingRepo) List(ctx context.Context) ([]*domain.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Meeting, 0, len(f.ordered))
	for _, m := range f.ordered {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeMeetingRepo) SetNewlyScheduled(ctx context.Context, id string, newlyScheduled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.NewlyScheduled = newlyScheduled
	return nil
}

// fakeInvitationSender implements domain.InvitationSender for tests.
type fakeInvitationSender struct {
	mu     sync.Mutex
	sent   int
	failed []string
	calls  int
}

func (f *fakeInvitationSender) SendInvitations(ctx context.Context, meeting *domain.Meeting) (sent int, failed []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.sent, f.failed
}

func newTestMeetingService(repo domain.MeetingRepository, invitations domain.InvitationSender) *meetingService {
	svc := NewMeetingService(repo, invitations, discardLogger(), time.Second).(*meetingService)
	svc.highlightTTL = 10 * time.Millisecond
	return svc
}

func validMeeting() *domain.Meeting {
	return domain.NewMeeting("Sync", "2024-01-10", "10:00", "10:30", []string{"a@x.com"}, time.Time{})
}

func TestMeetingScheduleHighlight(t *testing.T) {
	repo := newFakeMeetingRepo()
	invitations := &fakeInvitationSender{}
	svc := newTestMeetingService(repo, invitations)
	defer svc.Shutdown()

	created, err := svc.Schedule(context.Background(), validMeeting())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.NewlyScheduled)
	assert.False(t, created.CreatedAt.IsZero())

	// The one-shot timer clears the highlight.
	require.Eventually(t, func() bool {
		m, err := repo.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		return !m.NewlyScheduled
	}, time.Second, time.Millisecond)

	invitations.mu.Lock()
	defer invitations.mu.Unlock()
	assert.Equal(t, 1, invitations.calls)
}

func TestMeetingScheduleValidation(t *testing.T) {
	svc := newTestMeetingService(newFakeMeetingRepo(), nil)
	defer svc.Shutdown()

	tests := []struct {
		name   string
		mutate func(m *domain.Meeting)
	}{
		{name: "missing title", mutate: func(m *domain.Meeting) { m.Title = "" }},
		{name: "missing participants", mutate: func(m *domain.Meeting) { m.Participants = nil }},
		{name: "missing date", mutate: func(m *domain.Meeting) { m.Date = "" }},
		{name: "missing start time", mutate: func(m *domain.Meeting) { m.StartTime = "" }},
		{name: "missing end time", mutate: func(m *domain.Meeting) { m.EndTime = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMeeting()
			tt.mutate(m)
			_, err := svc.Schedule(context.Background(), m)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestMeetingList(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc := newTestMeetingService(repo, nil)
	defer svc.Shutdown()
	svc.now = func() time.Time { return time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC) }

	add := func(date string) {
		m := validMeeting()
		m.Date = date
		_, err := svc.Schedule(context.Background(), m)
		require.NoError(t, err)
	}
	add("2024-01-08") // today
	add("2024-01-12") // within the week
	add("2024-01-15") // weekEnd boundary
	add("2024-01-16") // past the week
	add("2024-01-05") // in the past

	ctx := context.Background()

	all, err := svc.List(ctx, domain.FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	today, err := svc.List(ctx, domain.FilterToday)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "2024-01-08", today[0].Date)

	week, err := svc.List(ctx, domain.FilterThisWeek)
	require.NoError(t, err)
	require.Len(t, week, 3)
	for _, m := range week {
		assert.GreaterOrEqual(t, m.Date, "2024-01-08")
		assert.LessOrEqual(t, m.Date, "2024-01-15")
	}
}

func TestMeetingGetByID(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc := newTestMeetingService(repo, nil)
	defer svc.Shutdown()

	created, err := svc.Schedule(context.Background(), validMeeting())
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMeetingShutdownCancelsHighlightTimers(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc := newTestMeetingService(repo, nil)
	svc.highlightTTL = 50 * time.Millisecond

	created, err := svc.Schedule(context.Background(), validMeeting())
	require.NoError(t, err)

	svc.Shutdown()
	time.Sleep(100 * time.Millisecond)

	m, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, m.NewlyScheduled)
}
