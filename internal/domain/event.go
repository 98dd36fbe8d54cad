package domain

import (
	"context"
	"time"
	"unicode/utf8"
)

// Preview rules for event descriptions shown in listings.
const (
	PreviewLength = 250
	PreviewSuffix = "..."
)

// Point is a geographic coordinate in longitude/latitude order.
// swagger:model Point
type Point struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Comment is a markdown note attached to an event.
// swagger:model Comment
type Comment struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	User      UserRef   `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// Attendee records a user planning to attend an event.
// swagger:model Attendee
type Attendee struct {
	User      UserRef   `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is a meetup gathering. Comments and Attending are owned by the event record.
// swagger:model Event
type Event struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	DescriptionShort string     `json:"description_short"`
	Tags             string     `json:"tags"`
	Location         Point      `json:"location"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	Owner            UserRef    `json:"owner"`
	Comments         []Comment  `json:"comments"`
	Attending        []Attendee `json:"attending"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsAttending reports whether userID is in the attendee set. IDs are compared by value.
func (e *Event) IsAttending(userID string) bool {
	if userID == "" {
		return false
	}
	for _, a := range e.Attending {
		if a.User.ID == userID {
			return true
		}
	}
	return false
}

// Preview returns the first PreviewLength characters of description followed by
// PreviewSuffix. The suffix is appended even when the description is shorter.
func Preview(description string) string {
	if utf8.RuneCountInString(description) <= PreviewLength {
		return description + PreviewSuffix
	}
	runes := []rune(description)
	return string(runes[:PreviewLength]) + PreviewSuffix
}

// NearbyEvent is an event returned by a proximity search together with its
// distance in meters from the reference point.
type NearbyEvent struct {
	Event    *Event
	Distance float64
}

// TimeWindow restricts a proximity search relative to now.
type TimeWindow int

const (
	// Upcoming selects events whose end date is after now.
	Upcoming TimeWindow = iota
	// Past selects events whose end date is before now.
	Past
)

func (w TimeWindow) String() string {
	if w == Past {
		return "past"
	}
	return "upcoming"
}

// SearchFilter describes a proximity search. Location is required for ranking;
// callers carry it between requests.
type SearchFilter struct {
	When              TimeWindow
	Location          *Point
	MaxDistanceMeters float64
	Limit             int
}

// ListCriteria filters plain (non-geographic) listings.
type ListCriteria struct {
	OwnerID    string
	Pagination PaginationParams
}

// EventInput holds the user-editable fields of an event.
type EventInput struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required"`
	Tags        string    `json:"tags" validate:"max=500"`
	Longitude   float64   `json:"longitude" validate:"longitude"`
	Latitude    float64   `json:"latitude" validate:"latitude"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	LoadByID(ctx context.Context, id string) (*Event, error)
	SearchByProximity(ctx context.Context, filter SearchFilter) ([]*NearbyEvent, error)
	ListRecent(ctx context.Context, criteria ListCriteria) ([]*Event, error)
	CountAll(ctx context.Context) (int, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, eventID string, comment *Comment) error
	// AddAttendee inserts userID into the event's attendee set. added is false
	// when the user was already present; the store guarantees uniqueness.
	AddAttendee(ctx context.Context, eventID, userID string, at time.Time) (added bool, err error)
}

// EventService defines the write paths for events.
type EventService interface {
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	CreateEvent(ctx context.Context, owner *User, input EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, actor *User, input EventInput) (*Event, error)
	DeleteEvent(ctx context.Context, eventID string, actor *User) error
	AddComment(ctx context.Context, eventID string, actor *User, body string) (*Comment, error)
}
