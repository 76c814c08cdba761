package model

import "time"

// Event represents a row in the `events` table. Events are created by
// users and browsed by everyone; once created only the attendee counter
// changes, incremented by the check-in flow.
//
// Fields:
//  ID             – UUID primary key of the event.
//  Title          – display title, matched case-insensitively by the mood
//                   suggestion reconciliation.
//  Category       – one of the fixed category tags (e.g. "music", "sports").
//  Description    – free-text description shown on the detail page.
//  Time           – scheduled start, stored in UTC.
//  Latitude       – location latitude in degrees.
//  Longitude      – location longitude in degrees.
//  LocationName   – human-readable venue name.
//  Price          – credits awarded for attending (despite the column name
//                   this is a reward, not a cost).
//  AttendeesCount – number of recorded check-ins, monotonically increasing.
//  CreatedBy      – UUID of the creating user.
//  CreatedAt      – timestamp of creation.
type Event struct {
	ID             string    // events.id
	Title          string    // events.title
	Category       string    // events.category
	Description    string    // events.description
	Time           time.Time // events.time
	Latitude       float64   // events.latitude
	Longitude      float64   // events.longitude
	LocationName   string    // events.location_name
	Price          uint32    // events.price
	AttendeesCount uint32    // events.attendees_count
	CreatedBy      string    // events.created_by
	CreatedAt      time.Time // events.created_at
}
