package services

import (
	"context"
	"sort"

	"ustaBack/internal/models"
	"ustaBack/internal/repositories"
)

// DefaultSearchRadiusKm is used when the artisan does not pass a radius.
const DefaultSearchRadiusKm = 3.0

type RequestSearcher interface {
	SearchInBox(ctx context.Context, serviceType, status string, box repositories.Box) ([]models.ServiceRequest, error)
}

type JobMatchingService struct {
	Requests RequestSearcher

	// DefaultRadiusKm is the configured fallback radius. Zero means
	// DefaultSearchRadiusKm.
	DefaultRadiusKm float64
}

// FindNearbyRequests returns open requests of the given service type within
// maxDistanceKm of the artisan, nearest first. The bounding-box query
// over-selects near the corners, so results are post-filtered by exact
// haversine distance.
func (s *JobMatchingService) FindNearbyRequests(ctx context.Context, lat, lon float64, serviceType string, maxDistanceKm float64) ([]models.ServiceRequest, error) {
	if maxDistanceKm <= 0 {
		maxDistanceKm = s.DefaultRadiusKm
	}
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultSearchRadiusKm
	}

	box := repositories.BoundingBox(lat, lon, maxDistanceKm)
	candidates, err := s.Requests.SearchInBox(ctx, serviceType, models.StatusInProgress, box)
	if err != nil {
		return nil, err
	}

	matches := make([]models.ServiceRequest, 0, len(candidates))
	for _, req := range candidates {
		d := repositories.HaversineDistanceKm(lat, lon, req.Latitude, req.Longitude)
		if d <= maxDistanceKm {
			distance := d
			req.DistanceKm = &distance
			matches = append(matches, req)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return *matches[i].DistanceKm < *matches[j].DistanceKm
	})
	return matches, nil
}
