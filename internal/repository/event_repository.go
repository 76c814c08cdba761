package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/giorgimart/cityvibe/internal/model"
)

// EventRepo provides access to the events table. Events are created by
// authenticated users and are immutable afterwards except for the
// attendees_count column, which is bumped inside the check-in
// transaction. All timestamp fields are assumed to be stored in UTC.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, title, category, description, time, latitude, longitude,
	location_name, price, attendees_count, created_by, created_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Category, &e.Description, &e.Time,
		&e.Latitude, &e.Longitude, &e.LocationName,
		&e.Price, &e.AttendeesCount, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event. When the record has no ID a fresh UUID is
// generated and written back to it.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	const q = `INSERT INTO events
		(id, title, category, description, time, latitude, longitude, location_name, price, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.Title, e.Category, e.Description, e.Time.UTC(),
		e.Latitude, e.Longitude, e.LocationName, e.Price, e.CreatedBy)
	return err
}

// GetByID returns a single event. ErrEventNotFound is returned when no
// event exists with the given id.
func (r *EventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	return e, err
}

// ListUpcoming returns all events scheduled at or after now, ascending by
// time. It feeds the public browse endpoint and the recommendation scorer.
func (r *EventRepo) ListUpcoming(ctx context.Context, now time.Time) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE time >= ? ORDER BY time ASC`
	return r.queryEvents(ctx, q, now.UTC())
}

// ListAll returns the full catalog ascending by time, past events
// included. The mood suggestion flow sends this list to the completion
// API and reconciles suggested titles against it.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events ORDER BY time ASC`
	return r.queryEvents(ctx, q)
}

func (r *EventRepo) queryEvents(ctx context.Context, q string, args ...any) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// IncrementAttendeesTx bumps the attendee counter for an event within the
// scope of an existing transaction. The caller must commit or rollback.
func (r *EventRepo) IncrementAttendeesTx(ctx context.Context, tx *sql.Tx, eventID string) error {
	const q = `UPDATE events SET attendees_count = attendees_count + 1 WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}
