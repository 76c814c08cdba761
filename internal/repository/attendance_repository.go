package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/giorgimart/cityvibe/internal/model"
)

// AttendanceRepo provides access to the attendance ledger. Attendance
// rows are append-only: they are created exclusively by the check-in
// award transaction and never updated or deleted. The table carries
// UNIQUE(user_id, event_id), which is what makes the award idempotent
// under concurrent requests.
type AttendanceRepo struct {
	db       *sql.DB
	profiles *ProfileRepo
	events   *EventRepo
}

// NewAttendanceRepo returns a new AttendanceRepo bound to the given
// database. The profile and event repos supply the credit and counter
// statements that run inside the award transaction.
func NewAttendanceRepo(db *sql.DB, profiles *ProfileRepo, events *EventRepo) *AttendanceRepo {
	return &AttendanceRepo{db: db, profiles: profiles, events: events}
}

// createTx inserts the attendance row inside the given transaction. A
// duplicate-key violation on (user_id, event_id) maps to
// ErrAlreadyAttended; the insert itself is the lock against double
// awards, so there is no read-before-write existence check.
func (r *AttendanceRepo) createTx(ctx context.Context, tx *sql.Tx, rec *model.Attendance) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	const q = `INSERT INTO attendance (id, user_id, event_id, earned_credits) VALUES (?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, rec.ID, rec.UserID, rec.EventID, rec.EarnedCredits)
	if isDuplicateKey(err) {
		return ErrAlreadyAttended
	}
	return err
}

// Award records an attendance and pays out the credits in a single
// transaction: insert the ledger row, add credits to the profile, bump
// the event's attendee counter. It returns the user's new credit total.
// ErrAlreadyAttended is returned with no side effects when the user has
// already checked in to the event; concurrent duplicate requests race on
// the unique key and exactly one commit succeeds.
func (r *AttendanceRepo) Award(ctx context.Context, userID, eventID string, credits uint32) (uint32, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rec := &model.Attendance{UserID: userID, EventID: eventID, EarnedCredits: credits}
	if err := r.createTx(ctx, tx, rec); err != nil {
		return 0, err
	}
	total, err := r.profiles.AddCreditsTx(ctx, tx, userID, credits)
	if err != nil {
		return 0, err
	}
	if err := r.events.IncrementAttendeesTx(ctx, tx, eventID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return total, nil
}

// AttendanceDetail is an attendance row joined with its event, returned
// by ListByUser for the profile history view.
type AttendanceDetail struct {
	EventID       string    `json:"event_id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	EventTime     time.Time `json:"event_time"`
	EarnedCredits uint32    `json:"earned_credits"`
	CheckedInAt   time.Time `json:"checked_in_at"`
}

// ListByUser returns the user's check-in history, most recent first.
func (r *AttendanceRepo) ListByUser(ctx context.Context, userID string) ([]AttendanceDetail, error) {
	const q = `SELECT a.event_id, e.title, e.category, e.time, a.earned_credits, a.created_at
		FROM attendance a
		JOIN events e ON e.id = a.event_id
		WHERE a.user_id = ?
		ORDER BY a.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AttendanceDetail{}
	for rows.Next() {
		var d AttendanceDetail
		if err := rows.Scan(&d.EventID, &d.Title, &d.Category, &d.EventTime, &d.EarnedCredits, &d.CheckedInAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CategoriesAttended returns the distinct categories of all events the
// user has checked in to. The recommendation scorer boosts events that
// fall in one of these categories.
func (r *AttendanceRepo) CategoriesAttended(ctx context.Context, userID string) ([]string, error) {
	const q = `SELECT DISTINCT e.category
		FROM attendance a
		JOIN events e ON e.id = a.event_id
		WHERE a.user_id = ?`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cats, nil
}
