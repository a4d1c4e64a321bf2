package controllers

import (
	"log/slog"
	"net/http"

	"smartmeet/internal/delivery/http/helpers"
	"smartmeet/internal/delivery/http/middleware"
	"smartmeet/internal/domain"
)

// SendMessageRequest is the request body for POST /assistant/messages.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// Validate implements Validator.
func (r SendMessageRequest) Validate() []string {
	var errs []string
	if r.Text == "" {
		errs = append(errs, "text is required")
	}
	return errs
}

// TranscriptResponse is the data payload for assistant transcript responses.
type TranscriptResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// TranscriptSuccessResponse is the success envelope for transcript responses.
type TranscriptSuccessResponse struct {
	Data  TranscriptResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ScheduleActionResponse is the data payload for POST /assistant/schedule.
// When Scheduled is true, Wizard is the freshly opened session seeded from
// re-extraction; otherwise Messages carries the updated transcript with the
// error acknowledgement appended.
type ScheduleActionResponse struct {
	Scheduled bool                 `json:"scheduled"`
	Wizard    *domain.WizardState  `json:"wizard,omitempty"`
	Messages  []domain.ChatMessage `json:"messages,omitempty"`
}

// ScheduleActionSuccessResponse is the success envelope for POST /assistant/schedule.
type ScheduleActionSuccessResponse struct {
	Data  ScheduleActionResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type AssistantController struct {
	Logger    *slog.Logger
	Assistant domain.AssistantService
	Wizard    domain.WizardService
}

func NewAssistantController(logger *slog.Logger, assistant domain.AssistantService, wizard domain.WizardService) *AssistantController {
	return &AssistantController{Logger: logger, Assistant: assistant, Wizard: wizard}
}

// Transcript godoc
// @Summary Get the assistant transcript
// @Description Returns the caller's conversation, seeding the greeting on first access.
// @Tags assistant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.TranscriptSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /assistant/messages [get]
func (c *AssistantController) Transcript(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	messages, err := c.Assistant.Transcript(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TranscriptResponse{Messages: messages})
}

// Send godoc
// @Summary Send a message to the assistant
// @Description Runs one conversation turn: extraction of the free-text request, then a summary or error acknowledgement. Returns the updated transcript.
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body SendMessageRequest true "User message"
// @Success 200 {object} controllers.TranscriptSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /assistant/messages [post]
func (c *AssistantController) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SendMessageRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	messages, err := c.Assistant.Send(r.Context(), userID, req.Text)
	if err != nil {
		if domain.IsValidation(err) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TranscriptResponse{Messages: messages})
}

// Schedule godoc
// @Summary Invoke the "Open Scheduler" action
// @Description Re-runs extraction against the most recent user message and opens a wizard session seeded with the result. If re-extraction fails, the transcript gains an error message and no session opens.
// @Tags assistant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ScheduleActionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /assistant/schedule [post]
func (c *AssistantController) Schedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	parsed, extracted, err := c.Assistant.InvokeAction(r.Context(), userID)
	if err != nil {
		if domain.IsValidation(err) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if !extracted {
		messages, terr := c.Assistant.Transcript(r.Context(), userID)
		if terr != nil {
			messages = nil
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, ScheduleActionResponse{Scheduled: false, Messages: messages})
		return
	}
	state, err := c.Wizard.Open(r.Context(), userID, parsed)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ScheduleActionResponse{Scheduled: true, Wizard: state})
}
