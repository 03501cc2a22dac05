package repositories

import (
	"math"
)

const earthRadiusKm = 6371.0

// minCosLat keeps the longitude delta finite near the poles.
const minCosLat = 1e-6

// HaversineDistanceKm returns the great-circle distance between two points
// in kilometers.
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Box is a latitude/longitude rectangle used as a cheap pre-filter before the
// exact haversine distance check. It over-selects near the corners.
type Box struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// BoundingBox returns the box enclosing the circle of radiusKm around the
// given point. One degree of latitude is ~111 km; a degree of longitude
// shrinks with the cosine of the latitude.
func BoundingBox(lat, lon, radiusKm float64) Box {
	latDelta := radiusKm / 111.0

	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < minCosLat {
		cosLat = minCosLat
	}
	lonDelta := radiusKm / (111.0 * cosLat)

	return Box{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLon: lon - lonDelta,
		MaxLon: lon + lonDelta,
	}
}

// Contains reports whether the point lies inside the box.
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}
