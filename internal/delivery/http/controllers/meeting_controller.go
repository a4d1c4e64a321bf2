package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"smartmeet/internal/delivery/http/helpers"
	"smartmeet/internal/delivery/http/middleware"
	"smartmeet/internal/domain"
)

// ListMeetingsResponse is the data payload for GET /meetings.
type ListMeetingsResponse struct {
	Meetings []*domain.Meeting `json:"meetings"`
}

// ListMeetingsSuccessResponse is the success envelope for GET /meetings (200).
type ListMeetingsSuccessResponse struct {
	Data  ListMeetingsResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// GetMeetingSuccessResponse is the success envelope for GET /meetings/{meetingID} (200).
type GetMeetingSuccessResponse struct {
	Data  *domain.Meeting   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type MeetingController struct {
	Logger  *slog.Logger
	Service domain.MeetingService
}

func NewMeetingController(logger *slog.Logger, svc domain.MeetingService) *MeetingController {
	return &MeetingController{Logger: logger, Service: svc}
}

// List godoc
// @Summary List meetings
// @Description Returns meetings newest-first. filter narrows to today or the coming week.
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param filter query string false "today | week | all (default all)"
// @Success 200 {object} controllers.ListMeetingsSuccessResponse "data contains meetings"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meetings [get]
func (c *MeetingController) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	filter := domain.ParseMeetingFilter(r.URL.Query().Get("filter"))
	meetings, err := c.Service.List(r.Context(), filter)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if meetings == nil {
		meetings = []*domain.Meeting{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListMeetingsResponse{Meetings: meetings})
}

// GetByID godoc
// @Summary Get a meeting by ID
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param meetingID path string true "Meeting ID"
// @Success 200 {object} controllers.GetMeetingSuccessResponse "data contains the meeting"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meetings/{meetingID} [get]
func (c *MeetingController) GetByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	meetingID := r.PathValue("meetingID")
	if meetingID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing meetingID")
		return
	}
	meeting, err := c.Service.GetByID(r.Context(), meetingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "meeting not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, meeting)
}
