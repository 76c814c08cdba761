package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversine(t *testing.T) {
	// Liberty Square, Tbilisi.
	event := Point{Lat: 41.7151, Lng: 44.8271}

	t.Run("identical coordinates", func(t *testing.T) {
		d := Haversine(event, event)
		require.Equal(t, 0.0, d)
		assert.True(t, WithinCheckInRadius(event, event))
	})

	t.Run("roughly 200m north is rejected", func(t *testing.T) {
		reported := Point{Lat: 41.7169, Lng: 44.8271}
		d := Haversine(reported, event)
		assert.InDelta(t, 200, d, 10)
		assert.False(t, WithinCheckInRadius(reported, event))
	})

	t.Run("just inside the radius is admitted", func(t *testing.T) {
		// ~55m north of the event.
		reported := Point{Lat: 41.7156, Lng: 44.8271}
		d := Haversine(reported, event)
		assert.Less(t, d, CheckInRadiusMeters)
		assert.True(t, WithinCheckInRadius(reported, event))
	})

	t.Run("symmetric", func(t *testing.T) {
		a := Point{Lat: 41.7151, Lng: 44.8271}
		b := Point{Lat: 41.6938, Lng: 44.8015}
		assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-9)
	})
}
