package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"google.golang.org/genai"

	"smartmeet/internal/domain"
)

// User-facing gateway failure messages. Callers surface these verbatim; the
// underlying transport error is only logged.
const (
	MsgSuggestionsFailed = "Failed to get suggestions from AI. Please try manually or check your connection/API key."
	MsgExtractionFailed  = "Failed to understand your request via AI. Please try rephrasing or check your connection/API key."
)

// Client wraps Genkit with the Google Gemini plugin. It implements
// domain.SlotSuggester and domain.RequestExtractor.
type Client struct {
	genkit *genkit.Genkit
	model  ai.Model
	logger *slog.Logger
}

// NewClient creates an LLM client for the given Gemini API key and model.
func NewClient(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*Client, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{APIKey: apiKey}))
	model := googlegenai.GoogleAIModel(g, modelName)
	if model == nil {
		return nil, fmt.Errorf("unknown gemini model %q", modelName)
	}
	return &Client{genkit: g, model: model, logger: logger}, nil
}

// SuggestSlots asks for candidate slots and parses the response. Suggestion
// quality matters more than latency here, so generation keeps the model's
// default deliberation.
func (c *Client) SuggestSlots(ctx context.Context, participants []string, date string, durationMinutes int) ([]domain.TimeSlot, error) {
	resp, err := genkit.Generate(ctx, c.genkit,
		ai.WithModel(c.model),
		ai.WithPrompt(suggestionPrompt(participants, date, durationMinutes)),
		ai.WithConfig(&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		}),
	)
	if err != nil {
		c.logger.ErrorContext(ctx, "suggestion request failed", "err", err)
		return nil, fmt.Errorf("%s", MsgSuggestionsFailed)
	}
	return ParseSuggestedSlots(resp.Text()), nil
}

// ExtractMeetingRequest parses a free-text scheduling request into structured
// fields. Extraction is latency-sensitive, so thinking is disabled.
func (c *Client) ExtractMeetingRequest(ctx context.Context, query string) (domain.ParsedMeetingRequest, error) {
	resp, err := genkit.Generate(ctx, c.genkit,
		ai.WithModel(c.model),
		ai.WithPrompt(extractionPrompt(query)),
		ai.WithConfig(&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(int32(0))},
		}),
	)
	if err != nil {
		c.logger.ErrorContext(ctx, "extraction request failed", "err", err)
		return domain.ParsedMeetingRequest{}, fmt.Errorf("%s", MsgExtractionFailed)
	}
	return ParseMeetingRequest(resp.Text(), query), nil
}
