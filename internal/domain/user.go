package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// User represents a registered user
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref returns the lightweight reference embedded in events.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Username: u.Username}
}

// UserRef is the user reference stored on events, comments and attendees.
// swagger:model UserRef
type UserRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateEmail(ctx context.Context, id, email string) (*User, error)
}

// UserProfile is a user with one page of the events they own. OwnedEvents
// counts every event the user owns; TotalEvents counts all events in the store.
type UserProfile struct {
	User        *User    `json:"user"`
	Events      []*Event `json:"events"`
	OwnedEvents int      `json:"owned_events"`
	TotalEvents int      `json:"total_events"`
}

// UserService defines profile operations for users.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	Profile(ctx context.Context, userID string, page PaginationParams) (*UserProfile, error)
	UpdateEmail(ctx context.Context, userID, email string) (*User, error)
}
