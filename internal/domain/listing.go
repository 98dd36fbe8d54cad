package domain

import (
	"context"
	"html/template"
)

// MaxListingTags caps the tag set attached to a listing.
const MaxListingTags = 20

// TextRenderer converts markdown into HTML that is safe to embed.
type TextRenderer interface {
	Render(markdown string) template.HTML
}

// ListingEntry is one row fed to the listing builder. Distance is set only for
// rows coming from a proximity search.
type ListingEntry struct {
	Event    *Event
	Distance *float64
}

// EntriesFromEvents wraps plain events as listing entries.
func EntriesFromEvents(events []*Event) []ListingEntry {
	out := make([]ListingEntry, 0, len(events))
	for _, e := range events {
		out = append(out, ListingEntry{Event: e})
	}
	return out
}

// EntriesFromNearby wraps proximity results as listing entries, keeping distance.
func EntriesFromNearby(nearby []*NearbyEvent) []ListingEntry {
	out := make([]ListingEntry, 0, len(nearby))
	for _, n := range nearby {
		d := n.Distance
		out = append(out, ListingEntry{Event: n.Event, Distance: &d})
	}
	return out
}

// ListingOptions carries display metadata for a listing.
type ListingOptions struct {
	Title    string
	Location *Point
}

// EventPreview is an event as shown in a listing.
// swagger:model EventPreview
type EventPreview struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	PreviewHTML template.HTML `json:"preview_html"`
	Tags        string        `json:"tags"`
	Location    Point         `json:"location"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	Owner       UserRef       `json:"owner"`
	Attendees   int           `json:"attendees"`
	Distance    *float64      `json:"distance,omitempty"`
}

// TaggedListing is the presentation-ready result of a listing request.
// Empty is set when the store failed and the listing is a degraded fallback.
// swagger:model TaggedListing
type TaggedListing struct {
	Title          string         `json:"title"`
	Events         []EventPreview `json:"events"`
	Tags           []string       `json:"tags"`
	Location       *Point         `json:"location,omitempty"`
	FallbackCityID string         `json:"fallback_city_id,omitempty"`
	Empty          bool           `json:"empty"`
}

// CommentView is a comment with its body rendered.
// swagger:model CommentView
type CommentView struct {
	Comment
	BodyHTML template.HTML `json:"body_html"`
}

// EventDetailView is the single-event view. It is built from a copy of the
// event; the persisted record is never modified.
// swagger:model EventDetailView
type EventDetailView struct {
	Event            Event         `json:"event"`
	DescriptionHTML  template.HTML `json:"description_html"`
	Comments         []CommentView `json:"comments"`
	AllowEdit        bool          `json:"allow_edit"`
	ShowAttendButton bool          `json:"show_attend_button"`
}

// EventListingService builds listings and detail views.
type EventListingService interface {
	BuildListing(entries []ListingEntry, opts ListingOptions) *TaggedListing
	BuildDetail(event *Event, viewer *User) *EventDetailView
	Upcoming(ctx context.Context, filter SearchFilter) (*TaggedListing, error)
	Past(ctx context.Context, filter SearchFilter) (*TaggedListing, error)
	Recent(ctx context.Context, criteria ListCriteria) (*TaggedListing, error)
	Detail(ctx context.Context, eventID string, viewer *User) (*EventDetailView, error)
}
