package utils

import (
	"errors"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000

var ErrInvalidLocation = errors.New("invalid location data")

// CalculateHaversineDistance returns the great-circle distance between two coordinates in meters.
func CalculateHaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)

	// rounding can push a past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(a))
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

// ValidateCoordinates rejects non-finite and out-of-range coordinates.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return ErrInvalidLocation
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidLocation
	}
	return nil
}

// Geofence is a circular area around a fixed point.
type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

func NewGeofence(lat, lon, radiusMeters float64) Geofence {
	return Geofence{Latitude: lat, Longitude: lon, RadiusMeters: radiusMeters}
}

// Distance returns the distance in meters from the geofence center.
func (g Geofence) Distance(lat, lon float64) float64 {
	return CalculateHaversineDistance(g.Latitude, g.Longitude, lat, lon)
}

// Contains reports whether (lat, lon) lies within the radius. The boundary is inclusive.
func (g Geofence) Contains(lat, lon float64) (bool, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return false, err
	}
	return g.Distance(lat, lon) <= g.RadiusMeters, nil
}
