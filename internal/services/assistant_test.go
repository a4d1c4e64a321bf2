package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartmeet/internal/domain"
)

// fakeExtractor implements domain.RequestExtractor for tests.
type fakeExtractor struct {
	result domain.ParsedMeetingRequest
	err    error

	lastQuery string
	calls     int
}

func (f *fakeExtractor) ExtractMeetingRequest(ctx context.Context, query string) (domain.ParsedMeetingRequest, error) {
	f.calls++
	f.lastQuery = query
	if f.err != nil {
		return domain.ParsedMeetingRequest{}, f.err
	}
	result := f.result
	result.RawQuery = query
	return result, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAssistant(extractor domain.RequestExtractor) *assistantService {
	svc := NewAssistantService(extractor, discardLogger(), time.Second).(*assistantService)
	svc.actionDelay = 5 * time.Millisecond
	return svc
}

func TestAssistantTranscriptSeedsGreeting(t *testing.T) {
	svc := newTestAssistant(&fakeExtractor{})
	defer svc.Shutdown()

	messages, err := svc.Transcript(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, domain.MessageKindText, messages[0].Kind)
	assert.Equal(t, domain.RoleAssistant, messages[0].Role)
	assert.Equal(t, greetingText, messages[0].Text)
	assert.False(t, messages[0].Loading)
}

func TestAssistantSend(t *testing.T) {
	ctx := context.Background()

	t.Run("successful extraction summarizes and offers the action", func(t *testing.T) {
		extractor := &fakeExtractor{result: domain.ParsedMeetingRequest{
			Title:           "Project Sync",
			Participants:    []string{"john@example.com", "priya@example.com"},
			DurationMinutes: 30,
			DateTimeInfo:    "next Tuesday afternoon",
		}}
		svc := newTestAssistant(extractor)
		defer svc.Shutdown()

		messages, err := svc.Send(ctx, "u1", "schedule a sync")
		require.NoError(t, err)
		// Greeting, user message, reply.
		require.Len(t, messages, 3)
		assert.Equal(t, domain.RoleUser, messages[1].Role)
		assert.Equal(t, "schedule a sync", messages[1].Text)

		reply := messages[2]
		assert.Equal(t, domain.RoleAssistant, reply.Role)
		assert.False(t, reply.Loading)
		assert.Contains(t, reply.Text, "Okay, I can help with that. I understood:")
		assert.Contains(t, reply.Text, "- Title: Project Sync")
		assert.Contains(t, reply.Text, "- Participants: john@example.com, priya@example.com")
		assert.Contains(t, reply.Text, "- Duration: 30 minutes")
		assert.Contains(t, reply.Text, "- When: next Tuesday afternoon")
		assert.Contains(t, reply.Text, "Would you like me to open the scheduler with these details?")

		// The action prompt lands after the delay.
		require.Eventually(t, func() bool {
			got, err := svc.Transcript(ctx, "u1")
			require.NoError(t, err)
			last := got[len(got)-1]
			return last.Kind == domain.MessageKindAction
		}, time.Second, time.Millisecond)

		got, err := svc.Transcript(ctx, "u1")
		require.NoError(t, err)
		last := got[len(got)-1]
		assert.Equal(t, actionLabel, last.Action)
	})

	t.Run("extraction error record is acknowledged without an action", func(t *testing.T) {
		extractor := &fakeExtractor{result: domain.ParsedMeetingRequest{Error: "AI couldn't extract enough information. Please be more specific."}}
		svc := newTestAssistant(extractor)
		defer svc.Shutdown()

		messages, err := svc.Send(ctx, "u1", "hello")
		require.NoError(t, err)
		reply := messages[len(messages)-1]
		assert.Contains(t, reply.Text, "I encountered an issue: AI couldn't extract enough information. Please be more specific.")
		assert.Contains(t, reply.Text, "Could you please rephrase or provide more details?")

		time.Sleep(20 * time.Millisecond)
		got, err := svc.Transcript(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, domain.MessageKindText, got[len(got)-1].Kind)
	})

	t.Run("transport failure yields the generic apology", func(t *testing.T) {
		extractor := &fakeExtractor{err: errors.New("gateway down")}
		svc := newTestAssistant(extractor)
		defer svc.Shutdown()

		messages, err := svc.Send(ctx, "u1", "schedule a sync")
		require.NoError(t, err)
		assert.Equal(t, msgProcessError, messages[len(messages)-1].Text)
	})

	t.Run("no loading placeholder survives the turn", func(t *testing.T) {
		svc := newTestAssistant(&fakeExtractor{result: domain.ParsedMeetingRequest{Title: "Sync"}})
		defer svc.Shutdown()

		messages, err := svc.Send(ctx, "u1", "schedule a sync")
		require.NoError(t, err)
		for _, m := range messages {
			assert.False(t, m.Loading)
			assert.NotEqual(t, thinkingText, m.Text)
		}
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		svc := newTestAssistant(&fakeExtractor{})
		defer svc.Shutdown()

		_, err := svc.Send(ctx, "u1", "   ")
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("conversations are per user", func(t *testing.T) {
		svc := newTestAssistant(&fakeExtractor{result: domain.ParsedMeetingRequest{Title: "Sync"}})
		defer svc.Shutdown()

		_, err := svc.Send(ctx, "u1", "schedule a sync")
		require.NoError(t, err)
		other, err := svc.Transcript(ctx, "u2")
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})
}

func TestAssistantInvokeAction(t *testing.T) {
	ctx := context.Background()

	t.Run("re-extracts the most recent user message", func(t *testing.T) {
		extractor := &fakeExtractor{result: domain.ParsedMeetingRequest{Title: "Sync", Participants: []string{"a@x.com"}}}
		svc := newTestAssistant(extractor)
		defer svc.Shutdown()

		_, err := svc.Send(ctx, "u1", "first request")
		require.NoError(t, err)
		_, err = svc.Send(ctx, "u1", "second request")
		require.NoError(t, err)

		parsed, ok, err := svc.InvokeAction(ctx, "u1")
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, parsed)
		assert.Equal(t, "Sync", parsed.Title)
		assert.Equal(t, "second request", extractor.lastQuery)
		assert.Equal(t, 3, extractor.calls)
	})

	t.Run("re-extraction failure appends an error message", func(t *testing.T) {
		extractor := &fakeExtractor{result: domain.ParsedMeetingRequest{Title: "Sync"}}
		svc := newTestAssistant(extractor)
		defer svc.Shutdown()

		_, err := svc.Send(ctx, "u1", "schedule a sync")
		require.NoError(t, err)

		// Let the pending action prompt land before the next turn.
		require.Eventually(t, func() bool {
			got, err := svc.Transcript(ctx, "u1")
			require.NoError(t, err)
			return got[len(got)-1].Kind == domain.MessageKindAction
		}, time.Second, time.Millisecond)

		extractor.err = errors.New("gateway down")
		parsed, ok, err := svc.InvokeAction(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, parsed)

		messages, err := svc.Transcript(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, msgActionError, messages[len(messages)-1].Text)
	})

	t.Run("no user message yet", func(t *testing.T) {
		svc := newTestAssistant(&fakeExtractor{})
		defer svc.Shutdown()

		_, _, err := svc.InvokeAction(ctx, "u1")
		assert.True(t, domain.IsValidation(err))
	})
}

func TestAssistantShutdownStopsPendingPrompts(t *testing.T) {
	svc := newTestAssistant(&fakeExtractor{result: domain.ParsedMeetingRequest{Title: "Sync"}})
	svc.actionDelay = 50 * time.Millisecond

	messages, err := svc.Send(context.Background(), "u1", "schedule a sync")
	require.NoError(t, err)
	before := len(messages)

	svc.Shutdown()
	time.Sleep(100 * time.Millisecond)

	got, err := svc.Transcript(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, got, before)
}
