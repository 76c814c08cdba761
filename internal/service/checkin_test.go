package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giorgimart/cityvibe/internal/geo"
	"github.com/giorgimart/cityvibe/internal/model"
	"github.com/giorgimart/cityvibe/internal/repository"
)

// fakeEventStore serves events from a map.
type fakeEventStore struct {
	events map[string]*model.Event
}

func (f *fakeEventStore) GetByID(_ context.Context, id string) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return e, nil
}

// fakeLedger mimics the attendance repository: a mutex-guarded map with
// the same uniqueness guarantee the UNIQUE(user_id, event_id) key gives
// the real one, so concurrent awards race exactly like they do in MySQL.
type fakeLedger struct {
	mu       sync.Mutex
	attended map[[2]string]uint32
	credits  map[string]uint32
	awards   int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		attended: map[[2]string]uint32{},
		credits:  map[string]uint32{},
	}
}

func (f *fakeLedger) Award(_ context.Context, userID, eventID string, credits uint32) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]string{userID, eventID}
	if _, ok := f.attended[key]; ok {
		return 0, repository.ErrAlreadyAttended
	}
	f.attended[key] = credits
	f.credits[userID] += credits
	f.awards++
	return f.credits[userID], nil
}

func tbilisiEvent(id string) *model.Event {
	return &model.Event{
		ID:        id,
		Title:     "Sunset Yoga at Turtle Lake",
		Category:  "wellness",
		Time:      time.Now().Add(2 * time.Hour),
		Latitude:  41.7151,
		Longitude: 44.8271,
		Price:     120,
	}
}

func TestCheckIn_AwardsOnce(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewCheckInService(&fakeEventStore{events: map[string]*model.Event{
		"ev-1": tbilisiEvent("ev-1"),
	}}, ledger, false)

	ctx := context.Background()
	at := &geo.Point{Lat: 41.7151, Lng: 44.8271}

	first, err := svc.CheckIn(ctx, "user-1", "ev-1", at)
	require.NoError(t, err)
	assert.False(t, first.AlreadyAttended)
	assert.Equal(t, uint32(50), first.EarnedCredits)
	assert.Equal(t, uint32(50), first.NewTotalCredits)

	second, err := svc.CheckIn(ctx, "user-1", "ev-1", at)
	require.NoError(t, err)
	assert.True(t, second.AlreadyAttended)
	assert.Zero(t, second.EarnedCredits)

	// balance unchanged between the two calls
	assert.Equal(t, uint32(50), ledger.credits["user-1"])
	assert.Equal(t, 1, ledger.awards)
}

func TestCheckIn_ConcurrentDuplicates(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewCheckInService(&fakeEventStore{events: map[string]*model.Event{
		"ev-1": tbilisiEvent("ev-1"),
	}}, ledger, false)

	const workers = 16
	var wg sync.WaitGroup
	results := make([]*CheckInResult, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.CheckIn(context.Background(), "user-1", "ev-1", nil)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, res := range results {
		require.NoError(t, errs[i])
		if !res.AlreadyAttended {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, uint32(50), ledger.credits["user-1"])
}

func TestCheckIn_UnknownEvent(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewCheckInService(&fakeEventStore{events: map[string]*model.Event{}}, ledger, false)

	_, err := svc.CheckIn(context.Background(), "user-1", "missing", nil)
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
	assert.Empty(t, ledger.attended)
	assert.Empty(t, ledger.credits)
}

func TestCheckIn_ProximityGate(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewCheckInService(&fakeEventStore{events: map[string]*model.Event{
		"ev-1": tbilisiEvent("ev-1"),
	}}, ledger, false)

	t.Run("200m away is rejected", func(t *testing.T) {
		far := &geo.Point{Lat: 41.7169, Lng: 44.8271}
		_, err := svc.CheckIn(context.Background(), "user-2", "ev-1", far)
		assert.ErrorIs(t, err, ErrTooFarAway)
		assert.Empty(t, ledger.attended)
	})

	t.Run("no reported position skips the gate", func(t *testing.T) {
		res, err := svc.CheckIn(context.Background(), "user-2", "ev-1", nil)
		require.NoError(t, err)
		assert.Equal(t, uint32(50), res.EarnedCredits)
	})
}

func TestCheckIn_AwardFromEventPrice(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewCheckInService(&fakeEventStore{events: map[string]*model.Event{
		"ev-1": tbilisiEvent("ev-1"),
	}}, ledger, true)

	res, err := svc.CheckIn(context.Background(), "user-1", "ev-1", nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(120), res.EarnedCredits)
	assert.Equal(t, uint32(120), res.NewTotalCredits)
}
