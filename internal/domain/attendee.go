package domain

import "context"

// JoinStatus is the outcome of an attendance join.
type JoinStatus int

const (
	JoinOK JoinStatus = iota
	JoinAlreadyAttending
	JoinUnauthenticated
	// JoinFailed accompanies a persistence error; the attendee set is unchanged.
	JoinFailed
)

// String returns the status code used in API responses.
func (s JoinStatus) String() string {
	switch s {
	case JoinOK:
		return "ok"
	case JoinAlreadyAttending:
		return "already_attending"
	case JoinUnauthenticated:
		return "unauthenticated"
	case JoinFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AttendanceManager manages the attendee set of an event.
type AttendanceManager interface {
	// Join adds user to event.Attending. It is idempotent: joining twice yields
	// JoinOK then JoinAlreadyAttending. A nil user yields JoinUnauthenticated.
	// The error is non-nil only when persistence fails.
	Join(ctx context.Context, event *Event, user *User) (JoinStatus, error)
}
