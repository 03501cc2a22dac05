package services

import (
	"context"
	"math"
	"testing"

	"ustaBack/internal/models"
)

func TestFindNearbyRequestsFiltersByExactDistance(t *testing.T) {
	requests := newStubRequestStore()
	// The box query over-selects: the second point sits inside the bounding
	// box corner but more than 5km away by great-circle distance.
	requests.searchIn = []models.ServiceRequest{
		{ID: 1, Latitude: 48.8600, Longitude: 2.3550},
		{ID: 2, Latitude: 48.8566 + 5.0/111, Longitude: 2.3522 + 5.0/(111*math.Cos(48.8566*math.Pi/180))},
	}
	svc := &JobMatchingService{Requests: requests}

	matches, err := svc.FindNearbyRequests(context.Background(), 48.8566, 2.3522, "plumbing", 5)
	if err != nil {
		t.Fatalf("FindNearbyRequests: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != 1 {
		t.Fatalf("expected only the close request, got %+v", matches)
	}
	if matches[0].DistanceKm == nil || *matches[0].DistanceKm <= 0 || *matches[0].DistanceKm > 5 {
		t.Fatalf("distance not annotated: %+v", matches[0].DistanceKm)
	}
}

func TestFindNearbyRequestsSortsNearestFirst(t *testing.T) {
	requests := newStubRequestStore()
	requests.searchIn = []models.ServiceRequest{
		{ID: 1, Latitude: 48.89, Longitude: 2.3522},
		{ID: 2, Latitude: 48.8566, Longitude: 2.3522},
		{ID: 3, Latitude: 48.87, Longitude: 2.3522},
	}
	svc := &JobMatchingService{Requests: requests}

	matches, err := svc.FindNearbyRequests(context.Background(), 48.8566, 2.3522, "plumbing", 10)
	if err != nil {
		t.Fatalf("FindNearbyRequests: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].ID != 2 || matches[1].ID != 3 || matches[2].ID != 1 {
		t.Fatalf("wrong order: %d %d %d", matches[0].ID, matches[1].ID, matches[2].ID)
	}
	for i := 1; i < len(matches); i++ {
		if *matches[i-1].DistanceKm > *matches[i].DistanceKm {
			t.Fatalf("not sorted by distance: %+v", matches)
		}
	}
}

func TestFindNearbyRequestsDefaultsRadius(t *testing.T) {
	requests := newStubRequestStore()
	svc := &JobMatchingService{Requests: requests}

	if _, err := svc.FindNearbyRequests(context.Background(), 48.8566, 2.3522, "plumbing", 0); err != nil {
		t.Fatalf("FindNearbyRequests: %v", err)
	}

	wantDelta := DefaultSearchRadiusKm / 111
	gotDelta := (requests.lastBox.MaxLat - requests.lastBox.MinLat) / 2
	if math.Abs(gotDelta-wantDelta) > 1e-9 {
		t.Fatalf("default radius not applied, half-height = %v, want %v", gotDelta, wantDelta)
	}
}

func TestFindNearbyRequestsUsesConfiguredRadius(t *testing.T) {
	requests := newStubRequestStore()
	svc := &JobMatchingService{Requests: requests, DefaultRadiusKm: 7}

	if _, err := svc.FindNearbyRequests(context.Background(), 48.8566, 2.3522, "plumbing", 0); err != nil {
		t.Fatalf("FindNearbyRequests: %v", err)
	}

	wantDelta := 7.0 / 111
	gotDelta := (requests.lastBox.MaxLat - requests.lastBox.MinLat) / 2
	if math.Abs(gotDelta-wantDelta) > 1e-9 {
		t.Fatalf("configured radius not applied, half-height = %v, want %v", gotDelta, wantDelta)
	}
}
