package geo

import (
	"math"

	"github.com/jcmacallan-svg/ww1/internal/domain"
)

// earthRadiusKm is the mean Earth radius.
const earthRadiusKm = 6371.0088

// Distance returns the great-circle distance between two points in km.
// Symmetric, zero for identical points.
func Distance(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// TravelMinutes converts a distance to travel time at a flat average
// speed. Non-positive speeds fall back to a walking-pace 4 km/h so a
// malformed catalogue cannot divide by zero.
func TravelMinutes(km, speedKmph float64) float64 {
	if speedKmph <= 0 {
		speedKmph = 4
	}
	return km / speedKmph * 60
}

// MidIndex returns the splice position "near the middle" of a stop list
// of length n, used for lunch insertion.
func MidIndex(n int) int {
	if n <= 0 {
		return 0
	}
	return n / 2
}
