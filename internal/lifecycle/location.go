package lifecycle

import (
	"fmt"
	"math"
)

// Location is a validated GPS fix.
type Location struct {
	Latitude  float64
	Longitude float64
}

// ValidateLocation checks an optional coordinate pair. Both values are
// required, must be in range, and (0,0) is treated as "no fix".
func ValidateLocation(lat, lon *float64) (Location, error) {
	if lat == nil || lon == nil {
		return Location{}, fmt.Errorf("%w: latitude and longitude are required", ErrInvalidLocation)
	}
	if math.IsNaN(*lat) || math.IsNaN(*lon) {
		return Location{}, fmt.Errorf("%w: coordinates are not numbers", ErrInvalidLocation)
	}
	if *lat < -90 || *lat > 90 {
		return Location{}, fmt.Errorf("%w: latitude %.6f out of range", ErrInvalidLocation, *lat)
	}
	if *lon < -180 || *lon > 180 {
		return Location{}, fmt.Errorf("%w: longitude %.6f out of range", ErrInvalidLocation, *lon)
	}
	if *lat == 0 && *lon == 0 {
		return Location{}, fmt.Errorf("%w: (0,0) is not a real position", ErrInvalidLocation)
	}
	return Location{Latitude: *lat, Longitude: *lon}, nil
}

// MapsURL links a coordinate pair to Google Maps.
func MapsURL(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%.6f,%.6f", lat, lon)
}
