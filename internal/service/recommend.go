package service

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/giorgimart/cityvibe/internal/model"
	"github.com/giorgimart/cityvibe/internal/repository"
)

// Score weights. An attended-category match outweighs a hobby match, and
// the jitter range is small enough that it only reorders events whose
// base scores tie or differ by the hobby/category margin fractions.
const (
	categoryBoost = 10.0
	hobbyBoost    = 5.0
	jitterRange   = 2.0
)

// UpcomingEventsLister returns all events at or after now, time ascending.
type UpcomingEventsLister interface {
	ListUpcoming(ctx context.Context, now time.Time) ([]model.Event, error)
}

// ProfileGetter loads a user's profile.
type ProfileGetter interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
}

// AttendedCategoriesLister returns the distinct categories of events the
// user has checked in to.
type AttendedCategoriesLister interface {
	CategoriesAttended(ctx context.Context, userID string) ([]string, error)
}

// RecommendationScorer ranks the upcoming event catalog for one user:
// events in categories the user attended before score higher, events
// whose category or title contain one of the user's hobby keywords score
// higher still, and a small random jitter injects variety across calls.
type RecommendationScorer struct {
	events     UpcomingEventsLister
	profiles   ProfileGetter
	attendance AttendedCategoriesLister

	// jitter returns a value in [0, jitterRange). Injectable so tests can
	// pin it to zero and assert the deterministic part of the ordering.
	jitter func() float64
	now    func() time.Time
}

// NewRecommendationScorer constructs a scorer with the default jitter
// and clock sources.
func NewRecommendationScorer(events UpcomingEventsLister, profiles ProfileGetter, attendance AttendedCategoriesLister) *RecommendationScorer {
	if events == nil || profiles == nil || attendance == nil {
		panic("nil dependency passed to NewRecommendationScorer")
	}
	return &RecommendationScorer{
		events:     events,
		profiles:   profiles,
		attendance: attendance,
		jitter:     func() float64 { return rand.Float64() * jitterRange },
		now:        time.Now,
	}
}

// ScoredEvent pairs an event with its personalization score.
type ScoredEvent struct {
	model.Event
	Score float64
}

// BaseScore computes the deterministic part of an event's score for a
// user: +10 when the event's category is one the user attended before,
// +5 when any hobby keyword appears as a substring of the category or
// title. Matching is case-insensitive; attendedCategories keys must be
// lower-cased.
func BaseScore(e model.Event, attendedCategories map[string]bool, hobbies []string) float64 {
	score := 0.0
	category := strings.ToLower(e.Category)
	title := strings.ToLower(e.Title)

	if attendedCategories[category] {
		score += categoryBoost
	}
	for _, h := range hobbies {
		h = strings.ToLower(h)
		if h == "" {
			continue
		}
		if strings.Contains(category, h) || strings.Contains(title, h) {
			score += hobbyBoost
			break
		}
	}
	return score
}

// Recommend returns the full upcoming catalog in scored order, highest
// first. A user without a profile is scored on attendance history alone.
func (s *RecommendationScorer) Recommend(ctx context.Context, userID string) ([]ScoredEvent, error) {
	var hobbies []string
	profile, err := s.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		hobbies = profile.Hobbies
	case errors.Is(err, repository.ErrProfileNotFound):
		// score without hobby boosts
	default:
		return nil, err
	}

	cats, err := s.attendance.CategoriesAttended(ctx, userID)
	if err != nil {
		return nil, err
	}
	attended := make(map[string]bool, len(cats))
	for _, c := range cats {
		attended[strings.ToLower(c)] = true
	}

	events, err := s.events.ListUpcoming(ctx, s.now())
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredEvent, 0, len(events))
	for _, e := range events {
		scored = append(scored, ScoredEvent{
			Event: e,
			Score: BaseScore(e, attended, hobbies) + s.jitter(),
		})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored, nil
}
