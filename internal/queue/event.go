// Package queue defines message payloads exchanged over the message broker.
package queue

// CheckinRecordedEvent is published after a check-in award commits. It
// carries enough information for downstream consumers to log, notify
// friends, or feed analytics without querying the primary database.
type CheckinRecordedEvent struct {
	UserID          string `json:"user_id"`
	EventID         string `json:"event_id"`
	EventTitle      string `json:"event_title"`
	Category        string `json:"category"`
	LocationName    string `json:"location_name"`
	EarnedCredits   uint32 `json:"earned_credits"`
	NewTotalCredits uint32 `json:"new_total_credits"`
	CheckedInAt     string `json:"checked_in_at"`
}
