package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"meetupfinder/internal/domain"
)

// Listing titles.
const (
	TitleUpcoming = "Upcoming events"
	TitlePast     = "Past events"
	TitleRecent   = "Recently added events"
)

// ListingConfig holds defaults applied to listing requests.
type ListingConfig struct {
	MaxDistanceMeters float64
	SearchLimit       int
	FallbackCityID    string
	Timeout           time.Duration
}

type listingService struct {
	eventRepo domain.EventRepository
	renderer  domain.TextRenderer
	logger    *slog.Logger
	cfg       ListingConfig
}

// NewListingService creates an EventListingService backed by the given repository and renderer.
func NewListingService(eventRepo domain.EventRepository, renderer domain.TextRenderer, logger *slog.Logger, cfg ListingConfig) domain.EventListingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &listingService{
		eventRepo: eventRepo,
		renderer:  renderer,
		logger:    logger,
		cfg:       cfg,
	}
}

func (s *listingService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}

func (s *listingService) Upcoming(ctx context.Context, filter domain.SearchFilter) (*domain.TaggedListing, error) {
	filter.When = domain.Upcoming
	return s.nearby(ctx, filter, TitleUpcoming)
}

func (s *listingService) Past(ctx context.Context, filter domain.SearchFilter) (*domain.TaggedListing, error) {
	filter.When = domain.Past
	return s.nearby(ctx, filter, TitlePast)
}

func (s *listingService) nearby(ctx context.Context, filter domain.SearchFilter, title string) (*domain.TaggedListing, error) {
	if filter.Location == nil {
		return nil, domain.ErrMissingLocation
	}
	if filter.MaxDistanceMeters <= 0 {
		filter.MaxDistanceMeters = s.cfg.MaxDistanceMeters
	}
	if filter.Limit <= 0 {
		filter.Limit = s.cfg.SearchLimit
	}

	searchCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	results, err := s.eventRepo.SearchByProximity(searchCtx, filter)
	if err != nil {
		if errors.Is(err, domain.ErrMissingLocation) || callerGone(ctx, err) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "proximity search failed", "when", filter.When.String(), "err", err)
		return s.emptyListing(title, filter.Location), nil
	}
	return s.BuildListing(domain.EntriesFromNearby(results), domain.ListingOptions{
		Title:    title,
		Location: filter.Location,
	}), nil
}

func (s *listingService) Recent(ctx context.Context, criteria domain.ListCriteria) (*domain.TaggedListing, error) {
	listCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	events, err := s.eventRepo.ListRecent(listCtx, criteria)
	if err != nil {
		if callerGone(ctx, err) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "list recent events failed", "err", err)
		return s.emptyListing(TitleRecent, nil), nil
	}
	return s.BuildListing(domain.EntriesFromEvents(events), domain.ListingOptions{Title: TitleRecent}), nil
}

// callerGone reports whether err is a cancellation caused by the caller's own
// context. Expiry of the service's store timeout does not count: that is a
// failed search and gets the empty fallback.
func callerGone(caller context.Context, err error) bool {
	return caller.Err() != nil && errors.Is(err, domain.ErrCancelled)
}

func (s *listingService) emptyListing(title string, loc *domain.Point) *domain.TaggedListing {
	return &domain.TaggedListing{
		Title:          title,
		Events:         []domain.EventPreview{},
		Tags:           []string{},
		Location:       loc,
		FallbackCityID: s.cfg.FallbackCityID,
		Empty:          true,
	}
}

// BuildListing renders previews and aggregates tags. Entries keep the order
// in which the repository returned them.
func (s *listingService) BuildListing(entries []domain.ListingEntry, opts domain.ListingOptions) *domain.TaggedListing {
	previews := make([]domain.EventPreview, 0, len(entries))
	events := make([]*domain.Event, 0, len(entries))
	for _, entry := range entries {
		e := entry.Event
		if e == nil {
			continue
		}
		events = append(events, e)
		previews = append(previews, domain.EventPreview{
			ID:          e.ID,
			Title:       e.Title,
			PreviewHTML: s.renderer.Render(domain.Preview(e.Description)),
			Tags:        e.Tags,
			Location:    e.Location,
			StartDate:   formatDate(e.StartDate),
			EndDate:     formatDate(e.EndDate),
			Owner:       e.Owner,
			Attendees:   len(e.Attending),
			Distance:    entry.Distance,
		})
	}
	return &domain.TaggedListing{
		Title:          opts.Title,
		Events:         previews,
		Tags:           AggregateTags(events),
		Location:       opts.Location,
		FallbackCityID: s.cfg.FallbackCityID,
	}
}

// BuildDetail renders a copy of event for viewer. viewer may be nil.
func (s *listingService) BuildDetail(event *domain.Event, viewer *domain.User) *domain.EventDetailView {
	ev := *event
	ev.Comments = append([]domain.Comment(nil), event.Comments...)
	ev.Attending = append([]domain.Attendee(nil), event.Attending...)

	authenticated := viewer != nil && viewer.ID != ""

	comments := make([]domain.CommentView, 0, len(ev.Comments))
	for _, c := range ev.Comments {
		comments = append(comments, domain.CommentView{
			Comment:  c,
			BodyHTML: s.renderer.Render(c.Body),
		})
	}

	return &domain.EventDetailView{
		Event:            ev,
		DescriptionHTML:  s.renderer.Render(ev.Description),
		Comments:         comments,
		AllowEdit:        authenticated && viewer.ID == ev.Owner.ID,
		ShowAttendButton: !(authenticated && ev.IsAttending(viewer.ID)),
	}
}

func (s *listingService) Detail(ctx context.Context, eventID string, viewer *domain.User) (*domain.EventDetailView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	event, err := s.eventRepo.LoadByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	return s.BuildDetail(event, viewer), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
