package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"meetupfinder/internal/delivery/http/helpers"
	"meetupfinder/internal/delivery/http/middleware"
	"meetupfinder/internal/domain"
)

// UpdateEmailRequest is the request body for PUT /users/me/email.
type UpdateEmailRequest struct {
	Email string `json:"email"`
}

// Validate implements helpers.Validator.
func (u UpdateEmailRequest) Validate() []string {
	if strings.TrimSpace(u.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// ProfileResponse is the response body for GET /users/{userID}.
type ProfileResponse struct {
	User        *domain.User           `json:"user"`
	Events      []*domain.Event        `json:"events"`
	OwnedEvents int                    `json:"owned_events"`
	TotalEvents int                    `json:"total_events"`
	Pagination  helpers.PaginationMeta `json:"pagination"`
}

// ProfileSuccessResponse is the success response envelope for profile endpoints (200).
type ProfileSuccessResponse struct {
	Data  ProfileResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UserSuccessResponse is the success response envelope for PUT /users/me/email (200).
type UserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UserController handles user profile endpoints.
type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

// NewUserController creates a UserController with the given logger and service.
func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *UserController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if helpers.WriteDomainError(w, err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
}

// Profile godoc
// @Summary Get a user profile
// @Description Returns the user and the events they own, newest first.
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID} [get]
func (c *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	c.writeProfile(w, r, r.PathValue("userID"))
}

// Me godoc
// @Summary Get current user profile
// @Description Returns the authenticated user's profile. Requires Bearer token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me [get]
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	c.writeProfile(w, r, userID)
}

func (c *UserController) writeProfile(w http.ResponseWriter, r *http.Request, userID string) {
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}
	page := helpers.ParsePagination(r)
	profile, err := c.Service.Profile(r.Context(), userID, page)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ProfileResponse{
		User:        profile.User,
		Events:      profile.Events,
		OwnedEvents: profile.OwnedEvents,
		TotalEvents: profile.TotalEvents,
		Pagination:  helpers.NewPaginationMeta(page.Page, page.PageSize, profile.OwnedEvents),
	})
}

// UpdateEmail godoc
// @Summary Update current user's email
// @Description Sets the contact address used for attendance confirmations. Email must be unique. Requires Bearer token.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.UpdateEmailRequest true "New email"
// @Success 200 {object} controllers.UserSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /users/me/email [put]
func (c *UserController) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateEmailRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.UpdateEmail(r.Context(), userID, req.Email)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}
