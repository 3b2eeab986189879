package geo

import (
	"math"
	"testing"
)

func TestHaversineMeters_CoincidentPoints(t *testing.T) {
	d := HaversineMeters(33.7550, -84.3900, 33.7550, -84.3900)
	if d != 0 {
		t.Errorf("Expected 0 distance for coincident points, got %f", d)
	}
}

func TestHaversineMeters_KnownDistance(t *testing.T) {
	// One degree of latitude is roughly 111.19 km at this radius.
	d := HaversineMeters(33.0, -84.0, 34.0, -84.0)
	if math.Abs(d-111195) > 200 {
		t.Errorf("Expected ~111195m for one degree of latitude, got %f", d)
	}
}

func TestGeofence_Contains(t *testing.T) {
	fence := NewGeofence(33.7550, -84.3900, 150)

	tests := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{"center", 33.7550, -84.3900, true},
		{"inside, ~130m north", 33.75617, -84.3900, true},
		{"outside, ~220m north", 33.7570, -84.3900, false},
		{"far away", 34.0, -85.0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fence.Contains(tc.lat, tc.lng)
			if got != tc.want {
				d := HaversineMeters(tc.lat, tc.lng, fence.Latitude, fence.Longitude)
				t.Errorf("Contains(%f, %f) = %v, want %v (distance %fm)", tc.lat, tc.lng, got, tc.want, d)
			}
		})
	}
}

func TestGeofence_BoundaryInclusive(t *testing.T) {
	// Place a point due north of the center, then size the fence to exactly
	// that distance. The boundary itself must count as inside.
	center := NewGeofence(33.7550, -84.3900, 0)
	lat, lng := 33.7563, -84.3900
	d := HaversineMeters(lat, lng, center.Latitude, center.Longitude)

	exact := NewGeofence(center.Latitude, center.Longitude, d)
	if !exact.Contains(lat, lng) {
		t.Errorf("Point at exactly radius distance should be inside the fence")
	}

	smaller := NewGeofence(center.Latitude, center.Longitude, d-0.001)
	if smaller.Contains(lat, lng) {
		t.Errorf("Point strictly beyond the radius should be outside the fence")
	}
}
