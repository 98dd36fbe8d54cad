package controllers

import (
	"log/slog"
	"net/http"

	"meetupfinder/internal/delivery/http/helpers"
	"meetupfinder/internal/delivery/http/middleware"
	"meetupfinder/internal/domain"
)

// AttendResponse is the response body for POST /meetups/{eventID}/attend.
// Status is one of ok, already_attending or unauthenticated.
type AttendResponse struct {
	Status    string `json:"status"`
	Attendees int    `json:"attendees"`
}

// AttendSuccessResponse is the response envelope for POST /meetups/{eventID}/attend.
type AttendSuccessResponse struct {
	Data  AttendResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AttendeeController handles attendance joins.
type AttendeeController struct {
	Logger     *slog.Logger
	Events     domain.EventService
	Attendance domain.AttendanceManager
}

func NewAttendeeController(logger *slog.Logger, events domain.EventService, attendance domain.AttendanceManager) *AttendeeController {
	return &AttendeeController{
		Logger:     logger,
		Events:     events,
		Attendance: attendance,
	}
}

// Attend godoc
// @Summary Attend a meetup
// @Description Adds the authenticated user to the attendee set. Idempotent: a second call reports already_attending. Anonymous callers get 401 with status unauthenticated.
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.AttendSuccessResponse "status ok or already_attending"
// @Failure 401 {object} controllers.AttendSuccessResponse "status unauthenticated"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meetups/{eventID}/attend [post]
func (c *AttendeeController) Attend(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	if user == nil {
		helpers.WriteJSONSuccess(w, http.StatusUnauthorized, AttendResponse{Status: domain.JoinUnauthenticated.String()})
		return
	}

	event, err := c.Events.GetEvent(r.Context(), eventID)
	if err != nil {
		if helpers.WriteDomainError(w, err) {
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}

	status, err := c.Attendance.Join(r.Context(), event, user)
	if err != nil {
		if helpers.WriteDomainError(w, err) {
			return
		}
		c.Logger.ErrorContext(r.Context(), "attend failed", "event_id", eventID, "user_id", user.ID, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not record attendance")
		return
	}
	code := http.StatusOK
	if status == domain.JoinUnauthenticated {
		code = http.StatusUnauthorized
	}
	helpers.WriteJSONSuccess(w, code, AttendResponse{Status: status.String(), Attendees: len(event.Attending)})
}
