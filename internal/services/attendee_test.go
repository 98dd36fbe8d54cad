package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetupfinder/internal/domain"
)

func newTestAttendanceManager(repo domain.EventRepository, email domain.EmailService) domain.AttendanceManager {
	return NewAttendanceManager(repo, email, discardLogger(), AttendanceConfig{
		BaseURL: "https://meetups.example.com/",
		Timeout: time.Second,
	})
}

func TestAttendanceManager_Join_Idempotent(t *testing.T) {
	repo := newMockEventRepository()
	email := &fakeEmailService{}
	mgr := newTestAttendanceManager(repo, email)
	ev := &domain.Event{ID: "ev-1", Title: "Go meetup"}
	user := &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}

	status, err := mgr.Join(context.Background(), ev, user)
	require.NoError(t, err)
	assert.Equal(t, domain.JoinOK, status)

	// a different in-memory representation of the same id
	same := &domain.User{ID: string([]byte("u1"))}
	status, err = mgr.Join(context.Background(), ev, same)
	require.NoError(t, err)
	assert.Equal(t, domain.JoinAlreadyAttending, status)

	assert.Len(t, ev.Attending, 1)
	assert.Equal(t, 1, repo.attendeeAdds)
	require.Len(t, email.sent, 1)
	assert.Equal(t, "ada@example.com", email.sent[0].Email)
	assert.Equal(t, "https://meetups.example.com/meetups/ev-1", email.sent[0].EventURL)
}

func TestAttendanceManager_Join_Unauthenticated(t *testing.T) {
	repo := newMockEventRepository()
	mgr := newTestAttendanceManager(repo, nil)
	ev := &domain.Event{ID: "ev-1", Attending: []domain.Attendee{{User: domain.UserRef{ID: "u0"}}}}

	for _, user := range []*domain.User{nil, {}} {
		status, err := mgr.Join(context.Background(), ev, user)
		require.NoError(t, err)
		assert.Equal(t, domain.JoinUnauthenticated, status)
	}
	assert.Len(t, ev.Attending, 1)
	assert.Equal(t, 0, repo.attendeeAdds)
}

func TestAttendanceManager_Join_PersistFailureRollsBack(t *testing.T) {
	repo := newMockEventRepository()
	storeErr := &domain.RepositoryError{Op: "add attendee", Err: errors.New("write timeout")}
	repo.err = storeErr
	email := &fakeEmailService{}
	mgr := newTestAttendanceManager(repo, email)
	ev := &domain.Event{ID: "ev-1", Attending: []domain.Attendee{{User: domain.UserRef{ID: "u0"}}}}

	status, err := mgr.Join(context.Background(), ev, &domain.User{ID: "u1"})

	assert.Equal(t, domain.JoinFailed, status)
	var repoErr *domain.RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, []domain.Attendee{{User: domain.UserRef{ID: "u0"}}}, ev.Attending)
	assert.Empty(t, email.sent)
}

func TestAttendanceManager_Join_LostRace(t *testing.T) {
	repo := newMockEventRepository()
	repo.addAttendeeFn = func(eventID, userID string) (bool, error) { return false, nil }
	mgr := newTestAttendanceManager(repo, nil)
	ev := &domain.Event{ID: "ev-1"}

	status, err := mgr.Join(context.Background(), ev, &domain.User{ID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, domain.JoinAlreadyAttending, status)
	assert.Empty(t, ev.Attending)
}

func TestAttendanceManager_Join_EmailFailureKeepsOK(t *testing.T) {
	repo := newMockEventRepository()
	mgr := newTestAttendanceManager(repo, &fakeEmailService{err: errors.New("ses down")})
	ev := &domain.Event{ID: "ev-1"}

	status, err := mgr.Join(context.Background(), ev, &domain.User{ID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.JoinOK, status)
	assert.Len(t, ev.Attending, 1)
}

func TestAttendanceManager_Join_ConcurrentRequests(t *testing.T) {
	// Each request loads its own copy of the event; the store decides uniqueness.
	stored := map[string]bool{}
	var mu sync.Mutex
	repo := newMockEventRepository()
	repo.addAttendeeFn = func(eventID, userID string) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		key := eventID + ":" + userID
		if stored[key] {
			return false, nil
		}
		stored[key] = true
		return true, nil
	}
	mgr := newTestAttendanceManager(repo, nil)

	const n = 8
	statuses := make([]domain.JoinStatus, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ev := &domain.Event{ID: "ev-1"}
			statuses[i], _ = mgr.Join(context.Background(), ev, &domain.User{ID: "u1"})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, s := range statuses {
		if s == domain.JoinOK {
			ok++
		} else {
			assert.Equal(t, domain.JoinAlreadyAttending, s)
		}
	}
	assert.Equal(t, 1, ok)
}
