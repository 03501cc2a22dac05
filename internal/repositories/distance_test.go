package repositories

import (
	"math"
	"testing"
)

func TestHaversineZeroDistance(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{48.8566, 2.3522},
		{-33.8688, 151.2093},
		{89.9, 179.9},
	}
	for _, p := range points {
		if d := HaversineDistanceKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("distance from (%v,%v) to itself = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestHaversineSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{48.8566, 2.3522, 48.90, 2.40},
		{43.25, 76.90, 43.30, 76.95},
		{-10, 20, 30, -40},
	}
	for _, p := range pairs {
		ab := HaversineDistanceKm(p[0], p[1], p[2], p[3])
		ba := HaversineDistanceKm(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("distance not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestHaversineParisScenario(t *testing.T) {
	// Artisan in central Paris, 3 km search radius.
	lat, lon := 48.8566, 2.3522

	if d := HaversineDistanceKm(lat, lon, 48.8566, 2.3522); d > 3 {
		t.Errorf("request at the same point must be within radius, got %v km", d)
	}

	far := HaversineDistanceKm(lat, lon, 48.90, 2.40)
	if far < 7 || far > 9 {
		t.Errorf("expected ~7.8 km to (48.90, 2.40), got %v", far)
	}
	if far <= 3 {
		t.Errorf("request %v km away must be excluded from a 3 km search", far)
	}
}

// Every point within the exact radius must also be inside the bounding box,
// so box pre-filtering never loses a match.
func TestBoundingBoxSupersetOfRadius(t *testing.T) {
	lat, lon, radius := 48.8566, 2.3522, 3.0
	box := BoundingBox(lat, lon, radius)

	for dLat := -0.06; dLat <= 0.06; dLat += 0.005 {
		for dLon := -0.09; dLon <= 0.09; dLon += 0.005 {
			pLat, pLon := lat+dLat, lon+dLon
			d := HaversineDistanceKm(lat, lon, pLat, pLon)
			if d <= radius && !box.Contains(pLat, pLon) {
				t.Fatalf("point (%v,%v) at %v km is inside the radius but outside the box", pLat, pLon, d)
			}
		}
	}
}

func TestBoundingBoxPolarCosineFloor(t *testing.T) {
	box := BoundingBox(90, 0, 3)
	if math.IsInf(box.MaxLon, 0) || math.IsNaN(box.MaxLon) {
		t.Fatalf("longitude delta must stay finite at the pole, got %v", box.MaxLon)
	}
}
