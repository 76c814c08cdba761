// Package service implements the core procedures behind the HTTP
// handlers: the proximity-gated check-in award, the personalized
// recommendation scorer and the mood suggestion flow. Services depend on
// small consumer-side interfaces so the flows can be exercised in tests
// without a database or a live completion gateway.
package service

import (
	"context"
	"errors"

	"github.com/giorgimart/cityvibe/internal/geo"
	"github.com/giorgimart/cityvibe/internal/model"
	"github.com/giorgimart/cityvibe/internal/repository"
)

// DefaultCheckInCredits is the fixed award paid per check-in. The
// original behavior ignores the event's stored credit value entirely;
// set AwardFromEvent to pay that value instead.
const DefaultCheckInCredits uint32 = 50

// ErrTooFarAway is returned when the reported position fails the
// proximity gate. The gate trusts the client-reported coordinates and is
// a UX guard, not a security boundary: nothing stops a client from
// fabricating a nearby position.
var ErrTooFarAway = errors.New("too far from event location")

// EventGetter loads a single event by id.
type EventGetter interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
}

// AttendanceAwarder records an attendance and pays out credits
// atomically, returning the user's new total. Implementations must
// guarantee at most one award per (user, event) pair and return
// repository.ErrAlreadyAttended for duplicates.
type AttendanceAwarder interface {
	Award(ctx context.Context, userID, eventID string, credits uint32) (uint32, error)
}

// CheckInService awards a one-time credit bonus for attending an event.
type CheckInService struct {
	events         EventGetter
	attendance     AttendanceAwarder
	awardFromEvent bool
}

// NewCheckInService constructs a CheckInService. When awardFromEvent is
// true the award equals the event's stored credit value; otherwise the
// fixed DefaultCheckInCredits is paid regardless of the event.
func NewCheckInService(events EventGetter, attendance AttendanceAwarder, awardFromEvent bool) *CheckInService {
	if events == nil || attendance == nil {
		panic("nil dependency passed to NewCheckInService")
	}
	return &CheckInService{events: events, attendance: attendance, awardFromEvent: awardFromEvent}
}

// CheckInResult is the outcome of a check-in attempt. AlreadyAttended is
// the idempotent no-op case: the user had a prior attendance row and no
// credits moved. Event is the event that was checked in to; callers use
// it to enrich notifications without re-querying.
type CheckInResult struct {
	AlreadyAttended bool
	EarnedCredits   uint32
	NewTotalCredits uint32
	Event           *model.Event
}

// CheckIn verifies the event exists, applies the proximity gate when a
// position was reported, and awards the credits exactly once. The caller
// supplies the already-resolved user identity; the service never reaches
// into ambient auth state. A nil reported position skips the gate (the
// client performed the distance check before invoking us).
func (s *CheckInService) CheckIn(ctx context.Context, userID, eventID string, reported *geo.Point) (*CheckInResult, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if reported != nil {
		venue := geo.Point{Lat: event.Latitude, Lng: event.Longitude}
		if !geo.WithinCheckInRadius(*reported, venue) {
			return nil, ErrTooFarAway
		}
	}

	credits := DefaultCheckInCredits
	if s.awardFromEvent {
		credits = event.Price
	}

	total, err := s.attendance.Award(ctx, userID, eventID, credits)
	if errors.Is(err, repository.ErrAlreadyAttended) {
		return &CheckInResult{AlreadyAttended: true, Event: event}, nil
	}
	if err != nil {
		return nil, err
	}
	return &CheckInResult{EarnedCredits: credits, NewTotalCredits: total, Event: event}, nil
}
