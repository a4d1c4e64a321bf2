package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"smartmeet/internal/domain"
	"smartmeet/internal/ident"
)

const (
	greetingText = "Hello! How can I help you schedule a meeting today? Try something like: " +
		"'Schedule a 30-min meeting with John (john@example.com) and Priya (priya@example.com) next Tuesday afternoon.'"
	thinkingText    = "Thinking..."
	actionLabel     = "Open Scheduler"
	msgProcessError = "Sorry, I couldn't process your request right now. Please try again later."
	msgActionError  = "Sorry, I couldn't retrieve the details to pre-fill the scheduler. Please try again."

	// actionPromptDelay is the pause before the scheduler offer appears,
	// so the summary is readable first.
	actionPromptDelay = 500 * time.Millisecond
)

// conversation is one user's transcript. Turns are serialized: the mutex is
// held across the extraction call, matching the single in-flight request per
// user action of the product.
type conversation struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
}

type assistantService struct {
	extractor      domain.RequestExtractor
	logger         *slog.Logger
	contextTimeout time.Duration
	actionDelay    time.Duration
	now            func() time.Time

	mu            sync.Mutex
	conversations map[string]*conversation
	timers        []*time.Timer
	closed        bool
}

// NewAssistantService creates the conversation loop service.
func NewAssistantService(extractor domain.RequestExtractor, logger *slog.Logger, timeout time.Duration) domain.AssistantService {
	return &assistantService{
		extractor:      extractor,
		logger:         logger,
		contextTimeout: timeout,
		actionDelay:    actionPromptDelay,
		now:            time.Now,
		conversations:  make(map[string]*conversation),
	}
}

func (s *assistantService) conversationFor(userID string) *conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[userID]
	if !ok {
		conv = &conversation{
			messages: []domain.ChatMessage{{
				ID:        ident.New(),
				Kind:      domain.MessageKindText,
				Role:      domain.RoleAssistant,
				Text:      greetingText,
				Timestamp: s.now(),
			}},
		}
		s.conversations[userID] = conv
	}
	return conv
}

func (s *assistantService) Transcript(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	conv := s.conversationFor(userID)
	conv.mu.Lock()
	defer conv.mu.Unlock()
	return append([]domain.ChatMessage(nil), conv.messages...), nil
}

// Send runs one user turn: append the user message and a loading
// placeholder, extract once, then replace the placeholder with either a
// summary of the extracted fields or an error acknowledgement. On success an
// action prompt is appended after a short delay.
func (s *assistantService) Send(ctx context.Context, userID, text string) ([]domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("message text is required")
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conv := s.conversationFor(userID)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	conv.messages = append(conv.messages, domain.ChatMessage{
		ID:        ident.New(),
		Kind:      domain.MessageKindText,
		Role:      domain.RoleUser,
		Text:      text,
		Timestamp: s.now(),
	})

	placeholderID := ident.New()
	conv.messages = append(conv.messages, domain.ChatMessage{
		ID:        placeholderID,
		Kind:      domain.MessageKindText,
		Role:      domain.RoleAssistant,
		Text:      thinkingText,
		Loading:   true,
		Timestamp: s.now(),
	})

	parsed, err := s.extractor.ExtractMeetingRequest(ctx, text)

	var reply string
	offerAction := false
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "extraction failed", "user_id", userID, "err", err)
		reply = msgProcessError
	case parsed.Error != "":
		reply = fmt.Sprintf("I encountered an issue: %s. Could you please rephrase or provide more details?", parsed.Error)
	default:
		reply = summarize(parsed)
		offerAction = true
	}

	conv.replace(placeholderID, domain.ChatMessage{
		ID:        ident.New(),
		Kind:      domain.MessageKindText,
		Role:      domain.RoleAssistant,
		Text:      reply,
		Timestamp: s.now(),
	})

	if offerAction {
		s.scheduleActionPrompt(conv)
	}
	return append([]domain.ChatMessage(nil), conv.messages...), nil
}

// replace swaps the message with the given ID for the final one. Caller
// holds conv.mu.
func (c *conversation) replace(id string, final domain.ChatMessage) {
	for i := range c.messages {
		if c.messages[i].ID == id {
			c.messages[i] = final
			return
		}
	}
	c.messages = append(c.messages, final)
}

// summarize formats the extracted fields the way the assistant reports them.
func summarize(parsed domain.ParsedMeetingRequest) string {
	var b strings.Builder
	b.WriteString("Okay, I can help with that. I understood:\n")
	if parsed.Title != "" {
		fmt.Fprintf(&b, "- Title: %s\n", parsed.Title)
	}
	if len(parsed.Participants) > 0 {
		fmt.Fprintf(&b, "- Participants: %s\n", strings.Join(parsed.Participants, ", "))
	}
	if parsed.DurationMinutes > 0 {
		fmt.Fprintf(&b, "- Duration: %d minutes\n", parsed.DurationMinutes)
	}
	if parsed.DateTimeInfo != "" {
		fmt.Fprintf(&b, "- When: %s\n", parsed.DateTimeInfo)
	}
	b.WriteString("\nWould you like me to open the scheduler with these details?")
	return b.String()
}

func (s *assistantService) scheduleActionPrompt(conv *conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(s.actionDelay, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
		conv.mu.Lock()
		conv.messages = append(conv.messages, domain.ChatMessage{
			ID:        ident.New(),
			Kind:      domain.MessageKindAction,
			Action:    actionLabel,
			Timestamp: s.now(),
		})
		conv.mu.Unlock()
		s.removeTimer(t)
	})
	s.timers = append(s.timers, t)
}

func (s *assistantService) removeTimer(t *time.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.timers {
		if other == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// InvokeAction re-runs extraction against the most recent user message, not
// a cached result, and returns the parsed request for seeding the wizard.
func (s *assistantService) InvokeAction(ctx context.Context, userID string) (*domain.ParsedMeetingRequest, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conv := s.conversationFor(userID)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	var lastQuery string
	for i := len(conv.messages) - 1; i >= 0; i-- {
		m := conv.messages[i]
		if m.Kind == domain.MessageKindText && m.Role == domain.RoleUser {
			lastQuery = m.Text
			break
		}
	}
	if lastQuery == "" {
		return nil, false, domain.NewValidationError("no meeting request to schedule yet")
	}

	parsed, err := s.extractor.ExtractMeetingRequest(ctx, lastQuery)
	if err != nil || parsed.Error != "" {
		if err != nil {
			s.logger.WarnContext(ctx, "action re-extraction failed", "user_id", userID, "err", err)
		}
		conv.messages = append(conv.messages, domain.ChatMessage{
			ID:        ident.New(),
			Kind:      domain.MessageKindText,
			Role:      domain.RoleAssistant,
			Text:      msgActionError,
			Timestamp: s.now(),
		})
		return nil, false, nil
	}
	return &parsed, true, nil
}

// Shutdown cancels pending action-prompt timers.
func (s *assistantService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
