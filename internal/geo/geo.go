// Package geo computes great-circle distances between coordinate pairs.
// It backs the proximity gate of the check-in flow: a check-in is only
// admitted when the caller's reported position lies within a fixed radius
// of the event's stored location.
package geo

import "math"

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// CheckInRadiusMeters is the admission threshold for event check-ins. A
// reported position farther than this from the event location is rejected.
const CheckInRadiusMeters = 100.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

// WithinCheckInRadius reports whether the reported position is close enough
// to the event location to admit a check-in.
func WithinCheckInRadius(reported, event Point) bool {
	return Haversine(reported, event) <= CheckInRadiusMeters
}
