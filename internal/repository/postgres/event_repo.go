package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"meetupfinder/internal/domain"
)

// earthRadiusMeters is the mean Earth radius used by the great-circle distance.
const earthRadiusMeters = 6371000

// Postgres error codes handled by the repositories.
const (
	pqInvalidTextRepresentation = "22P02"
	pqForeignKeyViolation       = "23503"
	pqUniqueViolation           = "23505"
)

const eventColumns = `e.id, e.title, e.description, e.tags, e.lng, e.lat, e.start_date, e.end_date,
		e.owner_id, u.name, u.username, e.created_at, e.updated_at`

type eventRepository struct {
	DB  *sql.DB
	now func() time.Time
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB:  db,
		now: time.Now,
	}
}

// storeError wraps err as a RepositoryError, reporting cancellation distinctly.
func storeError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &domain.RepositoryError{Op: op, Err: fmt.Errorf("%w: %v", domain.ErrCancelled, err)}
	}
	return &domain.RepositoryError{Op: op, Err: err}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, extra ...any) (*domain.Event, error) {
	e := &domain.Event{}
	var tags sql.NullString
	dest := []any{
		&e.ID, &e.Title, &e.Description, &tags, &e.Location.Lng, &e.Location.Lat,
		&e.StartDate, &e.EndDate, &e.Owner.ID, &e.Owner.Name, &e.Owner.Username,
		&e.CreatedAt, &e.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if tags.Valid {
		e.Tags = tags.String
	}
	e.DescriptionShort = domain.Preview(e.Description)
	e.Comments = []domain.Comment{}
	e.Attending = []domain.Attendee{}
	return e, nil
}

func (r *eventRepository) LoadByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN users u ON u.id = e.owner_id
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isPQCode(err, pqInvalidTextRepresentation) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError(ctx, "load event", err)
	}

	comments, err := r.listComments(ctx, e.ID)
	if err != nil {
		return nil, storeError(ctx, "load event comments", err)
	}
	e.Comments = comments

	attendees, err := r.listAttendees(ctx, []string{e.ID})
	if err != nil {
		return nil, storeError(ctx, "load event attendees", err)
	}
	if a, ok := attendees[e.ID]; ok {
		e.Attending = a
	}
	return e, nil
}

func (r *eventRepository) listComments(ctx context.Context, eventID string) ([]domain.Comment, error) {
	query := `
		SELECT c.id, c.body, c.user_id, u.name, u.username, c.created_at
		FROM event_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.event_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.Body, &c.User.ID, &c.User.Name, &c.User.Username, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// listAttendees returns the attendees of each event, in join order.
func (r *eventRepository) listAttendees(ctx context.Context, eventIDs []string) (map[string][]domain.Attendee, error) {
	out := make(map[string][]domain.Attendee, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT a.event_id, a.user_id, u.name, u.username, a.created_at
		FROM event_attendees a
		JOIN users u ON u.id = a.user_id
		WHERE a.event_id = ANY($1)
		ORDER BY a.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID string
		var a domain.Attendee
		if err := rows.Scan(&eventID, &a.User.ID, &a.User.Name, &a.User.Username, &a.CreatedAt); err != nil {
			return nil, err
		}
		out[eventID] = append(out[eventID], a)
	}
	return out, rows.Err()
}

func (r *eventRepository) attachAttendees(ctx context.Context, events []*domain.Event) error {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	byEvent, err := r.listAttendees(ctx, ids)
	if err != nil {
		return err
	}
	for _, e := range events {
		if a, ok := byEvent[e.ID]; ok {
			e.Attending = a
		}
	}
	return nil
}

func (r *eventRepository) SearchByProximity(ctx context.Context, filter domain.SearchFilter) ([]*domain.NearbyEvent, error) {
	if filter.Location == nil {
		return nil, domain.ErrMissingLocation
	}
	window := "e.end_date < $3"
	if filter.When == domain.Upcoming {
		window = "e.end_date > $3"
	}
	args := []any{filter.Location.Lng, filter.Location.Lat, r.now()}
	outer := ""
	if filter.MaxDistanceMeters > 0 {
		args = append(args, filter.MaxDistanceMeters)
		outer = fmt.Sprintf("WHERE distance <= $%d", len(args))
	}
	limit := ""
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		limit = fmt.Sprintf("LIMIT $%d", len(args))
	}
	// Haversine distance in meters from ($1 lng, $2 lat). LEAST clamps rounding
	// overshoot near antipodal points, where asin would otherwise be out of domain.
	query := fmt.Sprintf(`
		SELECT id, title, description, tags, lng, lat, start_date, end_date,
			owner_id, owner_name, owner_username, created_at, updated_at, distance
		FROM (
			SELECT e.id, e.title, e.description, e.tags, e.lng, e.lat, e.start_date, e.end_date,
				e.owner_id, u.name AS owner_name, u.username AS owner_username, e.created_at, e.updated_at,
				2 * %d * asin(sqrt(LEAST(1,
					power(sin(radians(e.lat - $2) / 2), 2) +
					cos(radians($2)) * cos(radians(e.lat)) * power(sin(radians(e.lng - $1) / 2), 2)
				))) AS distance
			FROM events e
			JOIN users u ON u.id = e.owner_id
			WHERE %s
		) nearby
		%s
		ORDER BY distance ASC, id ASC
		%s
	`, earthRadiusMeters, window, outer, limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(ctx, "search events by proximity", err)
	}
	defer rows.Close()

	results := make([]*domain.NearbyEvent, 0)
	events := make([]*domain.Event, 0)
	for rows.Next() {
		var distance float64
		e, err := scanEvent(rows, &distance)
		if err != nil {
			return nil, storeError(ctx, "search events by proximity", err)
		}
		results = append(results, &domain.NearbyEvent{Event: e, Distance: distance})
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(ctx, "search events by proximity", err)
	}
	if err := r.attachAttendees(ctx, events); err != nil {
		return nil, storeError(ctx, "load event attendees", err)
	}
	return results, nil
}

func (r *eventRepository) ListRecent(ctx context.Context, criteria domain.ListCriteria) ([]*domain.Event, error) {
	var args []any
	where := ""
	if criteria.OwnerID != "" {
		args = append(args, criteria.OwnerID)
		where = "WHERE e.owner_id = $1"
	}
	page := ""
	if criteria.Pagination.PageSize > 0 {
		args = append(args, criteria.Pagination.PageSize, criteria.Pagination.Offset())
		page = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM events e
		JOIN users u ON u.id = e.owner_id
		%s
		ORDER BY e.created_at DESC
		%s
	`, eventColumns, where, page)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(ctx, "list recent events", err)
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, storeError(ctx, "list recent events", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(ctx, "list recent events", err)
	}
	if err := r.attachAttendees(ctx, events); err != nil {
		return nil, storeError(ctx, "load event attendees", err)
	}
	return events, nil
}

func (r *eventRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, storeError(ctx, "count events", err)
	}
	return n, nil
}

func (r *eventRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE owner_id = $1`, ownerID).Scan(&n)
	if err != nil {
		if isPQCode(err, pqInvalidTextRepresentation) {
			return 0, nil
		}
		return 0, storeError(ctx, "count owner events", err)
	}
	return n, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, tags, lng, lat, start_date, end_date, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Tags, e.Location.Lng, e.Location.Lat,
		e.StartDate, e.EndDate, e.Owner.ID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return storeError(ctx, "create event", err)
	}
	return nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, tags = $3, lng = $4, lat = $5,
			start_date = $6, end_date = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Title, e.Description, e.Tags, e.Location.Lng, e.Location.Lat,
		e.StartDate, e.EndDate, e.UpdatedAt, e.ID,
	)
	if err != nil {
		if isPQCode(err, pqInvalidTextRepresentation) {
			return domain.ErrNotFound
		}
		return storeError(ctx, "update event", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the event; comments and attendees go with it (ON DELETE CASCADE).
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if isPQCode(err, pqInvalidTextRepresentation) {
			return domain.ErrNotFound
		}
		return storeError(ctx, "delete event", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) AddComment(ctx context.Context, eventID string, c *domain.Comment) error {
	query := `
		INSERT INTO event_comments (id, event_id, user_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, c.ID, eventID, c.User.ID, c.Body, c.CreatedAt)
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) || isPQCode(err, pqInvalidTextRepresentation) {
			return domain.ErrNotFound
		}
		return storeError(ctx, "add comment", err)
	}
	return nil
}

// AddAttendee is an atomic add-to-set: the (event_id, user_id) primary key
// rejects a second insert of the same user, so concurrent joins cannot both succeed.
func (r *eventRepository) AddAttendee(ctx context.Context, eventID, userID string, at time.Time) (bool, error) {
	query := `
		INSERT INTO event_attendees (event_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID, at)
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) || isPQCode(err, pqInvalidTextRepresentation) {
			return false, domain.ErrNotFound
		}
		return false, storeError(ctx, "add attendee", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, storeError(ctx, "add attendee", err)
	}
	return rows == 1, nil
}

func isPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
