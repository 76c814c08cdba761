package model

import "time"

// Attendance is the append-only ledger entry recording that a user checked
// in to an event. The UNIQUE(user_id, event_id) constraint on the table is
// the sole idempotence guard for the credit award: rows are never updated
// or deleted.
//
// Fields:
//  ID            – UUID primary key.
//  UserID        – UUID of the attending user.
//  EventID       – UUID of the attended event.
//  EarnedCredits – credits awarded when the row was inserted.
//  CreatedAt     – check-in timestamp.
type Attendance struct {
	ID            string    // attendance.id
	UserID        string    // attendance.user_id
	EventID       string    // attendance.event_id
	EarnedCredits uint32    // attendance.earned_credits
	CreatedAt     time.Time // attendance.created_at
}
