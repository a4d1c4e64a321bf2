package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"smartmeet/internal/delivery/http/helpers"
	"smartmeet/internal/delivery/http/middleware"
	"smartmeet/internal/domain"
)

// OpenWizardRequest is the request body for POST /wizard. Seed is optional
// pre-fill data, typically the assistant's extraction result.
type OpenWizardRequest struct {
	Seed *domain.ParsedMeetingRequest `json:"seed"`
}

// UpdateWizardFieldsRequest is the request body for PATCH /wizard/{sessionID}.
type UpdateWizardFieldsRequest struct {
	Fields domain.WizardFields `json:"fields"`
}

// SelectSlotRequest is the request body for POST /wizard/{sessionID}/select.
type SelectSlotRequest struct {
	Index int `json:"index"`
}

// WizardStateSuccessResponse is the success envelope for wizard state responses.
type WizardStateSuccessResponse struct {
	Data  *domain.WizardState `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// SubmitWizardResponse is the data payload for POST /wizard/{sessionID}/submit.
// On success Meeting is set; when validation blocks the submit, State carries
// the per-step error and the session stays open.
type SubmitWizardResponse struct {
	Meeting *domain.Meeting     `json:"meeting,omitempty"`
	State   *domain.WizardState `json:"state,omitempty"`
}

// SubmitWizardSuccessResponse is the success envelope for POST /wizard/{sessionID}/submit.
type SubmitWizardSuccessResponse struct {
	Data  SubmitWizardResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type WizardController struct {
	Logger  *slog.Logger
	Service domain.WizardService
}

func NewWizardController(logger *slog.Logger, svc domain.WizardService) *WizardController {
	return &WizardController{Logger: logger, Service: svc}
}

// Open godoc
// @Summary Open a scheduling wizard session
// @Description Starts a fresh two-step wizard session, optionally seeded with assistant extraction data. Always opens at the details step.
// @Tags wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param seed body OpenWizardRequest false "Optional pre-fill data"
// @Success 201 {object} controllers.WizardStateSuccessResponse "data contains the session state"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /wizard [post]
func (c *WizardController) Open(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req OpenWizardRequest
	if r.ContentLength > 0 {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
	}
	state, err := c.Service.Open(r.Context(), userID, req.Seed)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, state)
}

// Get godoc
// @Summary Get wizard session state
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.WizardStateSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /wizard/{sessionID} [get]
func (c *WizardController) Get(w http.ResponseWriter, r *http.Request) {
	c.withSession(w, r, func(userID, sessionID string) (*domain.WizardState, error) {
		return c.Service.Get(r.Context(), userID, sessionID)
	})
}

// UpdateFields godoc
// @Summary Update wizard fields
// @Description Overwrites the editable fields. Step and suggestions are preserved.
// @Tags wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param fields body UpdateWizardFieldsRequest true "New field values"
// @Success 200 {object} controllers.WizardStateSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /wizard/{sessionID} [patch]
func (c *WizardController) UpdateFields(w http.ResponseWriter, r *http.Request) {
	var req UpdateWizardFieldsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	c.withSession(w, r, func(userID, sessionID string) (*domain.WizardState, error) {
		return c.Service.UpdateFields(r.Context(), userID, sessionID, req.Fields)
	})
}

// Next godoc
// @Summary Advance to time selection
// @Description Guarded: title, participants, date and a positive duration are required. On failure the step stays and state.error is set.
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.WizardStateSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /wizard/{sessionID}/next [post]
func (c *WizardController) Next(w http.ResponseWriter, r *http.Request) {
	c.withSession(w, r, func(userID, sessionID string) (*domain.WizardState, error) {
		return c.Service.Next(r.Context(), userID, sessionID)
	})
}

// Back godoc
// @Summary Return to the details step
// @Description Unconditional. Suggestions and entered time survive the round trip.
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.WizardStateSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /wizard/{sessionID}/back [post]
func (c *WizardController) Back(w http.ResponseWriter, r *http.Request) {
	c.withSession(w, r, func(userID, sessionID string) (*domain.WizardState, error) {
		return c.Service.Back(r.Context(), userID, sessionID)
	})
}

// FetchSuggestions godoc
// @Summary Fetch AI time-slot suggestions
// @Description Explicit action; requires participants, date and duration. A gateway failure leaves the list empty and sets a retry-oriented state.error.
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.WizardStateSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /wizard/{sessionID}/suggestions [post]
func (c *WizardController) FetchSuggestions(w http.ResponseWriter, r *http.Request) {
	c.withSession(w, r, func(userID, sessionID string) (*domain.WizardState, error) {
		return c.Service.FetchSuggestions(r.Context(), userID, sessionID)
	})
}

// SelectSlot godoc
// @Summary Select a suggested slot
// @Description Copies the slot's date and start time into the fields without advancing the step.
// @Tags wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Param slot body SelectSlotRequest true "Zero-based suggestion index"
// @Success 200 {object} controllers.WizardStateSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /wizard/{sessionID}/select [post]
func (c *WizardController) SelectSlot(w http.ResponseWriter, r *http.Request) {
	var req SelectSlotRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	c.withSession(w, r, func(userID, sessionID string) (*domain.WizardState, error) {
		return c.Service.SelectSlot(r.Context(), userID, sessionID, req.Index)
	})
}

// Submit godoc
// @Summary Submit the wizard
// @Description Validates the final fields, computes the end time (start plus duration, wrapped modulo 24h), creates the meeting and closes the session.
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.SubmitWizardSuccessResponse "meeting on success; state with error when validation blocks"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /wizard/{sessionID}/submit [post]
func (c *WizardController) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	sessionID := r.PathValue("sessionID")
	meeting, state, err := c.Service.Submit(r.Context(), userID, sessionID)
	if err != nil {
		c.writeWizardError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SubmitWizardResponse{Meeting: meeting, State: state})
}

// Close godoc
// @Summary Cancel a wizard session
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 204 "session discarded"
// @Router /wizard/{sessionID} [delete]
func (c *WizardController) Close(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	_ = c.Service.Close(r.Context(), userID, r.PathValue("sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// withSession runs a session operation and writes the resulting state,
// mapping the shared error cases.
func (c *WizardController) withSession(w http.ResponseWriter, r *http.Request, op func(userID, sessionID string) (*domain.WizardState, error)) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionID")
		return
	}
	state, err := op(userID, sessionID)
	if err != nil {
		c.writeWizardError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

func (c *WizardController) writeWizardError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "wizard session not found")
	case domain.IsValidation(err):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
