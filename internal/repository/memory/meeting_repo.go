// Package memory holds the in-memory storage adapters. The application keeps
// no durable state: the meeting collection lives for the lifetime of the
// process, which is the scope the product defines.
package memory

import (
	"context"
	"sort"
	"sync"

	"smartmeet/internal/domain"
	"smartmeet/internal/ident"
)

type meetingRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Meeting
	ordered []string // IDs, insertion order
}

// NewMeetingRepository returns an empty in-memory MeetingRepository.
func NewMeetingRepository() domain.MeetingRepository {
	return &meetingRepository{byID: make(map[string]*domain.Meeting)}
}

func (r *meetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if meeting.ID == "" {
		meeting.ID = ident.New()
	}
	stored := *meeting
	stored.Participants = append([]string(nil), meeting.Participants...)
	r.byID[meeting.ID] = &stored
	r.ordered = append(r.ordered, meeting.ID)
	return nil
}

func (r *meetingRepository) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *m
	return &out, nil
}

// List returns all meetings newest-first: most recently created on top, the
// order the dashboard renders.
func (r *meetingRepository) List(ctx context.Context) ([]*domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Meeting, 0, len(r.ordered))
	for _, id := range r.ordered {
		m := *r.byID[id]
		out = append(out, &m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *meetingRepository) SetNewlyScheduled(ctx context.Context, id string, newlyScheduled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.NewlyScheduled = newlyScheduled
	return nil
}
