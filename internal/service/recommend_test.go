package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giorgimart/cityvibe/internal/model"
	"github.com/giorgimart/cityvibe/internal/repository"
)

type fakeUpcomingLister struct{ events []model.Event }

func (f *fakeUpcomingLister) ListUpcoming(context.Context, time.Time) ([]model.Event, error) {
	return f.events, nil
}

type fakeProfileStore struct{ profile *model.Profile }

func (f *fakeProfileStore) GetByUserID(context.Context, string) (*model.Profile, error) {
	if f.profile == nil {
		return nil, repository.ErrProfileNotFound
	}
	return f.profile, nil
}

type fakeCategoryLister struct{ cats []string }

func (f *fakeCategoryLister) CategoriesAttended(context.Context, string) ([]string, error) {
	return f.cats, nil
}

func TestBaseScore(t *testing.T) {
	attended := map[string]bool{"music": true}

	base := model.Event{Title: "Pottery Workshop", Category: "art"}
	categoryMatch := model.Event{Title: "Old Town Jam Session", Category: "music"}
	hobbyMatch := model.Event{Title: "Beginner Chess Night", Category: "games"}
	bothMatch := model.Event{Title: "Vinyl Listening Party", Category: "music"}

	hobbies := []string{"Chess", "vinyl"}

	assert.Equal(t, 0.0, BaseScore(base, attended, hobbies))
	assert.Equal(t, 10.0, BaseScore(categoryMatch, attended, hobbies))
	assert.Equal(t, 5.0, BaseScore(hobbyMatch, attended, hobbies))
	assert.Equal(t, 15.0, BaseScore(bothMatch, attended, hobbies))

	// exactly +10 separates otherwise-identical events
	twin := categoryMatch
	twin.Category = "theater"
	assert.Equal(t, categoryBoost,
		BaseScore(categoryMatch, attended, nil)-BaseScore(twin, attended, nil))
}

func TestBaseScore_CaseInsensitive(t *testing.T) {
	attended := map[string]bool{"music": true}
	e := model.Event{Title: "JAZZ AT FABRIKA", Category: "Music"}
	assert.Equal(t, 10.0, BaseScore(e, attended, nil))
	assert.Equal(t, 15.0, BaseScore(e, attended, []string{"jazz"}))
}

func TestRecommend_OrdersByBaseScoreWithoutJitter(t *testing.T) {
	events := []model.Event{
		{ID: "low", Title: "Pottery Workshop", Category: "art"},
		{ID: "high", Title: "Jazz at Fabrika", Category: "music"},
		{ID: "mid", Title: "Beginner Chess Night", Category: "games"},
	}
	scorer := NewRecommendationScorer(
		&fakeUpcomingLister{events: events},
		&fakeProfileStore{profile: &model.Profile{UserID: "u", Hobbies: []string{"chess"}}},
		&fakeCategoryLister{cats: []string{"music"}},
	)
	scorer.jitter = func() float64 { return 0 }

	out, err := scorer.Recommend(context.Background(), "u")
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "high", out[0].ID)
	assert.Equal(t, "mid", out[1].ID)
	assert.Equal(t, "low", out[2].ID)
	assert.Equal(t, 10.0, out[0].Score)
}

func TestRecommend_JitterStaysInRange(t *testing.T) {
	scorer := NewRecommendationScorer(
		&fakeUpcomingLister{events: []model.Event{{ID: "e", Category: "art"}}},
		&fakeProfileStore{},
		&fakeCategoryLister{},
	)
	for i := 0; i < 200; i++ {
		out, err := scorer.Recommend(context.Background(), "u")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.GreaterOrEqual(t, out[0].Score, 0.0)
		assert.Less(t, out[0].Score, jitterRange)
	}
}

func TestRecommend_MissingProfileTolerated(t *testing.T) {
	scorer := NewRecommendationScorer(
		&fakeUpcomingLister{events: []model.Event{{ID: "e", Category: "music"}}},
		&fakeProfileStore{profile: nil},
		&fakeCategoryLister{cats: []string{"music"}},
	)
	scorer.jitter = func() float64 { return 0 }

	out, err := scorer.Recommend(context.Background(), "u")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 10.0, out[0].Score)
}
