package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "meetupfinder/docs"
	"meetupfinder/internal/delivery/http/controllers"
	"meetupfinder/internal/delivery/http/middleware"
	"meetupfinder/internal/domain"
)

// RouterDeps holds what the router needs to wire routes and auth.
type RouterDeps struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	Users          middleware.UserLookup
	AllowedOrigins []string

	Events    *controllers.EventController
	Attendees *controllers.AttendeeController
	Profiles  *controllers.UserController
}

// NewRouter initializes the HTTP router with all application routes,
// wrapped in CORS and request logging.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(d.Verifier, d.Logger)
	optionalAuth := middleware.OptionalAuth(d.Verifier, d.Logger)
	loadUser := middleware.LoadUser(d.Users, d.Logger)
	withUser := func(h http.HandlerFunc) http.HandlerFunc { return requireAuth(loadUser(h)) }
	maybeUser := func(h http.HandlerFunc) http.HandlerFunc { return optionalAuth(loadUser(h)) }

	// Listings
	mux.HandleFunc("GET /meetups", d.Events.Upcoming)
	mux.HandleFunc("GET /meetups/past", d.Events.Past)
	mux.HandleFunc("GET /meetups/recent", d.Events.Recent)
	mux.HandleFunc("GET /meetups/{eventID}", maybeUser(d.Events.Show))

	// Event writes
	mux.HandleFunc("POST /meetups", withUser(d.Events.Create))
	mux.HandleFunc("PUT /meetups/{eventID}", withUser(d.Events.Update))
	mux.HandleFunc("DELETE /meetups/{eventID}", withUser(d.Events.Delete))
	mux.HandleFunc("POST /meetups/{eventID}/comments", withUser(d.Events.Comment))

	// Attendance: anonymous callers get an unauthenticated status, not a bare 401.
	mux.HandleFunc("POST /meetups/{eventID}/attend", maybeUser(d.Attendees.Attend))

	// Users
	mux.HandleFunc("GET /users/me", requireAuth(d.Profiles.Me))
	mux.HandleFunc("PUT /users/me/email", requireAuth(d.Profiles.UpdateEmail))
	mux.HandleFunc("GET /users/{userID}", d.Profiles.Profile)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(d.Logger, middleware.CORS(d.AllowedOrigins, mux))
}
