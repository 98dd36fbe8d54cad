package controllers

import (
	"log/slog"
	"net/http"

	"meetupfinder/internal/delivery/http/helpers"
	"meetupfinder/internal/delivery/http/middleware"
	"meetupfinder/internal/domain"
)

// ListingSuccessResponse is the success response envelope for listing endpoints (200).
type ListingSuccessResponse struct {
	Data  *domain.TaggedListing `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// DetailSuccessResponse is the success response envelope for GET /meetups/{eventID} (200).
type DetailSuccessResponse struct {
	Data  *domain.EventDetailView `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// EventSuccessResponse is the success response envelope for event writes.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CommentRequest is the request body for POST /meetups/{eventID}/comments.
type CommentRequest struct {
	Body string `json:"body"`
}

// CommentSuccessResponse is the success response envelope for POST /meetups/{eventID}/comments (201).
type CommentSuccessResponse struct {
	Data  *domain.Comment   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DeleteEventResponse is the response body for DELETE /meetups/{eventID}.
type DeleteEventResponse struct {
	Status string `json:"status"`
}

// EventController serves meetup listings, detail views and event writes.
type EventController struct {
	Logger   *slog.Logger
	Listings domain.EventListingService
	Events   domain.EventService
}

// NewEventController creates an EventController with the given logger and services.
func NewEventController(logger *slog.Logger, listings domain.EventListingService, events domain.EventService) *EventController {
	return &EventController{
		Logger:   logger,
		Listings: listings,
		Events:   events,
	}
}

func (c *EventController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if helpers.WriteDomainError(w, err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
}

// Upcoming godoc
// @Summary List upcoming meetups near a location
// @Description Events whose end date has not passed, nearest first, with aggregated tags. On a store failure the response is an empty listing with empty=true and fallback_city_id set.
// @Tags meetups
// @Produce json
// @Param lon query number true "Reference longitude"
// @Param lat query number true "Reference latitude"
// @Param max_distance query number false "Maximum distance in meters"
// @Param limit query int false "Maximum number of events"
// @Success 200 {object} controllers.ListingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or missing_location"
// @Router /meetups [get]
func (c *EventController) Upcoming(w http.ResponseWriter, r *http.Request) {
	c.nearby(w, r, domain.Upcoming)
}

// Past godoc
// @Summary List past meetups near a location
// @Description Events whose end date has passed, nearest first, with aggregated tags.
// @Tags meetups
// @Produce json
// @Param lon query number true "Reference longitude"
// @Param lat query number true "Reference latitude"
// @Param max_distance query number false "Maximum distance in meters"
// @Param limit query int false "Maximum number of events"
// @Success 200 {object} controllers.ListingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or missing_location"
// @Router /meetups/past [get]
func (c *EventController) Past(w http.ResponseWriter, r *http.Request) {
	c.nearby(w, r, domain.Past)
}

func (c *EventController) nearby(w http.ResponseWriter, r *http.Request, when domain.TimeWindow) {
	filter, err := helpers.ParseSearchFilter(r, when)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	var listing *domain.TaggedListing
	if when == domain.Past {
		listing, err = c.Listings.Past(r.Context(), filter)
	} else {
		listing, err = c.Listings.Upcoming(r.Context(), filter)
	}
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, listing)
}

// Recent godoc
// @Summary List recently added meetups
// @Description Events ordered by creation time, newest first. Not location-aware.
// @Tags meetups
// @Produce json
// @Param owner query string false "Only events owned by this user ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListingSuccessResponse
// @Router /meetups/recent [get]
func (c *EventController) Recent(w http.ResponseWriter, r *http.Request) {
	criteria := domain.ListCriteria{
		OwnerID:    r.URL.Query().Get("owner"),
		Pagination: helpers.ParsePagination(r),
	}
	listing, err := c.Listings.Recent(r.Context(), criteria)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, listing)
}

// Show godoc
// @Summary Get a meetup
// @Description Returns the event with rendered description and comments. allow_edit is true for the owner; show_attend_button is false once the viewer attends.
// @Tags meetups
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.DetailSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meetups/{eventID} [get]
func (c *EventController) Show(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	viewer, _ := middleware.UserFromContext(r.Context())
	view, err := c.Listings.Detail(r.Context(), eventID, viewer)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// Create godoc
// @Summary Create a meetup
// @Description Creates an event owned by the authenticated user. Requires Bearer token.
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.EventInput true "Event fields"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /meetups [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var input domain.EventInput
	if !helpers.DecodeAndValidate(w, r, &input) {
		return
	}
	event, err := c.Events.CreateEvent(r.Context(), user, input)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// Update godoc
// @Summary Update a meetup
// @Description Replaces the editable fields of an event. Only the owner may edit. Requires Bearer token.
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body domain.EventInput true "Event fields"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /meetups/{eventID} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var input domain.EventInput
	if !helpers.DecodeAndValidate(w, r, &input) {
		return
	}
	event, err := c.Events.UpdateEvent(r.Context(), r.PathValue("eventID"), user, input)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete a meetup
// @Description Deletes the event with its comments and attendees. Only the owner may delete. Requires Bearer token.
// @Tags meetups
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.DeleteEventResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /meetups/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Events.DeleteEvent(r.Context(), r.PathValue("eventID"), user); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}

// Comment godoc
// @Summary Comment on a meetup
// @Description Adds a markdown comment to the event. Requires Bearer token.
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body controllers.CommentRequest true "Comment body (markdown)"
// @Success 201 {object} controllers.CommentSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /meetups/{eventID}/comments [post]
func (c *EventController) Comment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, err := c.Events.AddComment(r.Context(), r.PathValue("eventID"), user, req.Body)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, comment)
}
