package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartmeet/internal/domain"
)

func TestMeetingRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns an id and copies the input", func(t *testing.T) {
		repo := NewMeetingRepository()
		m := domain.NewMeeting("Sync", "2024-01-10", "10:00", "10:30", []string{"a@x.com"}, time.Now())

		require.NoError(t, repo.Create(ctx, m))
		require.NotEmpty(t, m.ID)

		// Mutating the caller's copy must not leak into storage.
		m.Title = "changed"
		m.Participants[0] = "changed@x.com"

		got, err := repo.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sync", got.Title)
		assert.Equal(t, []string{"a@x.com"}, got.Participants)
	})

	t.Run("get unknown id", func(t *testing.T) {
		repo := NewMeetingRepository()
		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list returns newest first", func(t *testing.T) {
		repo := NewMeetingRepository()
		base := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
		for i, title := range []string{"oldest", "middle", "newest"} {
			m := domain.NewMeeting(title, "2024-01-10", "10:00", "10:30", []string{"a@x.com"}, base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, repo.Create(ctx, m))
		}

		got, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "newest", got[0].Title)
		assert.Equal(t, "middle", got[1].Title)
		assert.Equal(t, "oldest", got[2].Title)
	})

	t.Run("set newly scheduled", func(t *testing.T) {
		repo := NewMeetingRepository()
		m := domain.NewMeeting("Sync", "2024-01-10", "10:00", "10:30", []string{"a@x.com"}, time.Now())
		m.NewlyScheduled = true
		require.NoError(t, repo.Create(ctx, m))

		require.NoError(t, repo.SetNewlyScheduled(ctx, m.ID, false))
		got, err := repo.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.False(t, got.NewlyScheduled)

		assert.ErrorIs(t, repo.SetNewlyScheduled(ctx, "nope", false), domain.ErrNotFound)
	})
}
