package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"meetupfinder/internal/delivery/http/helpers"
	"meetupfinder/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeListingService implements domain.EventListingService for handler tests.
type fakeListingService struct {
	listing      *domain.TaggedListing
	detail       *domain.EventDetailView
	err          error
	lastFilter   domain.SearchFilter
	lastCriteria domain.ListCriteria
	lastViewer   *domain.User
	lastEventID  string
}

func (f *fakeListingService) BuildListing(entries []domain.ListingEntry, opts domain.ListingOptions) *domain.TaggedListing {
	return f.listing
}

func (f *fakeListingService) BuildDetail(event *domain.Event, viewer *domain.User) *domain.EventDetailView {
	return f.detail
}

func (f *fakeListingService) Upcoming(ctx context.Context, filter domain.SearchFilter) (*domain.TaggedListing, error) {
	f.lastFilter = filter
	return f.listing, f.err
}

func (f *fakeListingService) Past(ctx context.Context, filter domain.SearchFilter) (*domain.TaggedListing, error) {
	f.lastFilter = filter
	return f.listing, f.err
}

func (f *fakeListingService) Recent(ctx context.Context, criteria domain.ListCriteria) (*domain.TaggedListing, error) {
	f.lastCriteria = criteria
	return f.listing, f.err
}

func (f *fakeListingService) Detail(ctx context.Context, eventID string, viewer *domain.User) (*domain.EventDetailView, error) {
	f.lastEventID = eventID
	f.lastViewer = viewer
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	event       *domain.Event
	comment     *domain.Comment
	err         error
	lastEventID string
	lastActor   *domain.User
	lastInput   domain.EventInput
	lastBody    string
	deleted     bool
}

func (f *fakeEventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	f.lastEventID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) CreateEvent(ctx context.Context, owner *domain.User, input domain.EventInput) (*domain.Event, error) {
	f.lastActor, f.lastInput = owner, input
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, eventID string, actor *domain.User, input domain.EventInput) (*domain.Event, error) {
	f.lastEventID, f.lastActor, f.lastInput = eventID, actor, input
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, eventID string, actor *domain.User) error {
	f.lastEventID, f.lastActor = eventID, actor
	if f.err != nil {
		return f.err
	}
	f.deleted = true
	return nil
}

func (f *fakeEventService) AddComment(ctx context.Context, eventID string, actor *domain.User, body string) (*domain.Comment, error) {
	f.lastEventID, f.lastActor, f.lastBody = eventID, actor, body
	if f.err != nil {
		return nil, f.err
	}
	return f.comment, nil
}

// fakeAttendance implements domain.AttendanceManager, appending like the real one.
type fakeAttendance struct {
	err   error
	calls int
}

func (f *fakeAttendance) Join(ctx context.Context, event *domain.Event, user *domain.User) (domain.JoinStatus, error) {
	f.calls++
	if user == nil {
		return domain.JoinUnauthenticated, nil
	}
	if f.err != nil {
		return domain.JoinFailed, f.err
	}
	if event.IsAttending(user.ID) {
		return domain.JoinAlreadyAttending, nil
	}
	event.Attending = append(event.Attending, domain.Attendee{User: user.Ref()})
	return domain.JoinOK, nil
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	user       *domain.User
	profile    *domain.UserProfile
	err        error
	lastUserID string
	lastPage   domain.PaginationParams
	lastEmail  string
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.lastUserID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUserService) Profile(ctx context.Context, userID string, page domain.PaginationParams) (*domain.UserProfile, error) {
	f.lastUserID, f.lastPage = userID, page
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func (f *fakeUserService) UpdateEmail(ctx context.Context, userID, email string) (*domain.User, error) {
	f.lastUserID, f.lastEmail = userID, email
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

// decodeEnvelope decodes the response envelope, unmarshalling data into dest when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if dest != nil && len(raw.Data) > 0 && string(raw.Data) != "null" {
		require.NoError(t, json.Unmarshal(raw.Data, dest))
	}
	return raw.Error
}
