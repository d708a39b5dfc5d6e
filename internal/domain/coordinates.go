package domain

import "fmt"

// Immutable geographic coordinates (latitude, longitude), WGS 84.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsZero reports whether the point is the zero value, which the planner
// treats as "not resolved" rather than a real location.
func (c Coordinates) IsZero() bool { return c.Lat == 0 && c.Lon == 0 }

// Validate checks that the point lies inside the WGS 84 value range.
func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("invalid latitude: %f (must be between -90 and 90)", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("invalid longitude: %f (must be between -180 and 180)", c.Lon)
	}
	return nil
}
