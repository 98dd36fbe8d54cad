package services

import (
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"meetupfinder/internal/domain"
)

// mockEventRepository is an in-memory domain.EventRepository for service tests.
type mockEventRepository struct {
	mu             sync.Mutex
	events         map[string]*domain.Event
	nearby         []*domain.NearbyEvent
	recent         []*domain.Event
	count          int
	ownerCounts    map[string]int
	err            error
	blockUntilDone bool
	addAttendeeFn  func(eventID, userID string) (bool, error)

	lastFilter   domain.SearchFilter
	lastCriteria domain.ListCriteria
	created      []*domain.Event
	updated      []*domain.Event
	deleted      []string
	comments     map[string][]*domain.Comment
	attendeeAdds int
}

func newMockEventRepository(events ...*domain.Event) *mockEventRepository {
	m := &mockEventRepository{
		events:   make(map[string]*domain.Event),
		comments: make(map[string][]*domain.Comment),
	}
	for _, e := range events {
		m.events[e.ID] = e
	}
	return m
}

// waitCancelled stands in for a query that never returns before ctx ends, and
// fails the way the postgres store does.
func waitCancelled(ctx context.Context, op string) error {
	<-ctx.Done()
	return &domain.RepositoryError{Op: op, Err: fmt.Errorf("%w: %v", domain.ErrCancelled, ctx.Err())}
}

func (m *mockEventRepository) LoadByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ev
	cp.DescriptionShort = domain.Preview(ev.Description)
	return &cp, nil
}

func (m *mockEventRepository) SearchByProximity(ctx context.Context, filter domain.SearchFilter) ([]*domain.NearbyEvent, error) {
	m.lastFilter = filter
	if filter.Location == nil {
		return nil, domain.ErrMissingLocation
	}
	if m.blockUntilDone {
		return nil, waitCancelled(ctx, "search events by proximity")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.nearby, nil
}

func (m *mockEventRepository) ListRecent(ctx context.Context, criteria domain.ListCriteria) ([]*domain.Event, error) {
	m.lastCriteria = criteria
	if m.blockUntilDone {
		return nil, waitCancelled(ctx, "list recent events")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.recent, nil
}

func (m *mockEventRepository) CountAll(ctx context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.count, nil
}

func (m *mockEventRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.ownerCounts[ownerID], nil
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	event.ID = "ev-new"
	m.created = append(m.created, event)
	return nil
}

func (m *mockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	m.updated = append(m.updated, event)
	return nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockEventRepository) AddComment(ctx context.Context, eventID string, comment *domain.Comment) error {
	if m.err != nil {
		return m.err
	}
	m.comments[eventID] = append(m.comments[eventID], comment)
	return nil
}

func (m *mockEventRepository) AddAttendee(ctx context.Context, eventID, userID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addAttendeeFn != nil {
		return m.addAttendeeFn(eventID, userID)
	}
	if m.err != nil {
		return false, m.err
	}
	m.attendeeAdds++
	return true, nil
}

// fakeRenderer wraps input so tests can see what was rendered.
type fakeRenderer struct {
	calls []string
}

func (f *fakeRenderer) Render(markdown string) template.HTML {
	f.calls = append(f.calls, markdown)
	return template.HTML("<p>" + markdown + "</p>")
}

type fakeEmailService struct {
	sent []*domain.AttendanceEmailData
	err  error
}

func (f *fakeEmailService) SendAttendanceConfirmation(ctx context.Context, data *domain.AttendanceEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

type fakeUserRepo struct {
	users  map[string]*domain.User
	err    error
	emails map[string]string
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*domain.User), emails: make(map[string]string)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateEmail(ctx context.Context, id, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	f.emails[id] = email
	cp := *u
	cp.Email = email
	return &cp, nil
}
