package geo

import "math"

const earthRadiusKm = 6371.0

// Geofence is a circular boundary around a reference coordinate. A point is
// inside the fence when its great-circle distance from the center is at most
// RadiusMeters (boundary inclusive).
type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

func NewGeofence(lat, lng, radiusMeters float64) *Geofence {
	return &Geofence{Latitude: lat, Longitude: lng, RadiusMeters: radiusMeters}
}

func (g *Geofence) Contains(lat, lng float64) bool {
	return HaversineMeters(lat, lng, g.Latitude, g.Longitude) <= g.RadiusMeters
}

// HaversineMeters returns the great-circle distance between two coordinates
// in meters. Coincident points yield exactly 0.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lng1Rad := lng1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lng2Rad := lng2 * math.Pi / 180

	deltaLat := lat2Rad - lat1Rad
	deltaLng := lng2Rad - lng1Rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c * 1000
}
