package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetupfinder/internal/domain"
)

func TestUserService_Profile(t *testing.T) {
	users := newFakeUserRepo(&domain.User{ID: "u1", Name: "Ada"})
	events := newMockEventRepository()
	events.recent = []*domain.Event{{ID: "e1", Owner: domain.UserRef{ID: "u1"}}}
	events.count = 42
	events.ownerCounts = map[string]int{"u1": 3, "u2": 9}
	svc := NewUserService(users, events, time.Second)

	page := domain.PaginationParams{Page: 1, PageSize: 20}
	got, err := svc.Profile(context.Background(), "u1", page)
	require.NoError(t, err)

	assert.Equal(t, "Ada", got.User.Name)
	assert.Len(t, got.Events, 1)
	assert.Equal(t, 3, got.OwnedEvents)
	assert.Equal(t, 42, got.TotalEvents)
	assert.Equal(t, domain.ListCriteria{OwnerID: "u1", Pagination: page}, events.lastCriteria)
}

func TestUserService_Profile_Errors(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(), newMockEventRepository(), time.Second)
		_, err := svc.Profile(context.Background(), "nobody", domain.PaginationParams{})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("event listing fails", func(t *testing.T) {
		events := newMockEventRepository()
		events.err = errors.New("db down")
		svc := NewUserService(newFakeUserRepo(&domain.User{ID: "u1"}), events, time.Second)
		_, err := svc.Profile(context.Background(), "u1", domain.PaginationParams{})
		require.Error(t, err)
	})
}

func TestUserService_UpdateEmail(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		wantEmail string
		wantErr   error
	}{
		{"valid email is normalized", "  Ada@Example.COM ", "ada@example.com", nil},
		{"invalid email", "not-an-email", "", domain.ErrInvalidInput},
		{"empty email", "", "", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserRepo(&domain.User{ID: "u1"})
			svc := NewUserService(users, newMockEventRepository(), time.Second)

			got, err := svc.UpdateEmail(context.Background(), "u1", tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, users.emails)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, got.Email)
			assert.Equal(t, tt.wantEmail, users.emails["u1"])
		})
	}
}

func TestUserService_UpdateEmail_Duplicate(t *testing.T) {
	users := newFakeUserRepo(&domain.User{ID: "u1"})
	users.err = domain.ErrDuplicateEmail
	svc := NewUserService(users, newMockEventRepository(), time.Second)

	_, err := svc.UpdateEmail(context.Background(), "u1", "taken@example.com")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}
