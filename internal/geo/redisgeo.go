package geo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// NearbyPoint is a member returned from Redis GEO queries.
type NearbyPoint struct {
	ID     int
	DistKm float64
	Lon    float64
	Lat    float64
}

// Locator keeps one GEO set per service category under a key prefix and
// answers radius queries against it. Artisan locations and open requests
// each get their own prefix.
type Locator struct {
	rdb          *redis.Client
	keyPrefix    string
	memberPrefix string
}

func NewArtisanLocator(rdb *redis.Client) *Locator {
	return &Locator{rdb: rdb, keyPrefix: "artisans", memberPrefix: "artisan"}
}

func NewRequestLocator(rdb *redis.Client) *Locator {
	return &Locator{rdb: rdb, keyPrefix: "requests", memberPrefix: "request"}
}

func (l *Locator) key(category string) string {
	return fmt.Sprintf("%s:%s", l.keyPrefix, strings.ToLower(strings.TrimSpace(category)))
}

func (l *Locator) member(id int) string {
	return fmt.Sprintf("%s:%d", l.memberPrefix, id)
}

func (l *Locator) parseMember(member string) (int, error) {
	parts := strings.Split(member, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid member %q", member)
	}
	return strconv.Atoi(parts[1])
}

func (l *Locator) Update(ctx context.Context, id int, lon, lat float64, category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("geo: empty category")
	}
	return l.rdb.GeoAdd(ctx, l.key(category), &redis.GeoLocation{
		Name:      l.member(id),
		Longitude: lon,
		Latitude:  lat,
	}).Err()
}

func (l *Locator) Remove(ctx context.Context, id int, category string) error {
	return l.rdb.ZRem(ctx, l.key(category), l.member(id)).Err()
}

// Nearby returns members within radiusKm of the point, nearest first.
func (l *Locator) Nearby(ctx context.Context, category string, lon, lat, radiusKm float64) ([]NearbyPoint, error) {
	locations, err := l.rdb.GeoSearchLocation(ctx, l.key(category), &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  lon,
			Latitude:   lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, err
	}

	points := make([]NearbyPoint, 0, len(locations))
	for _, loc := range locations {
		id, err := l.parseMember(loc.Name)
		if err != nil {
			// foreign member in the set, skip it
			continue
		}
		points = append(points, NearbyPoint{
			ID:     id,
			DistKm: loc.Dist,
			Lon:    loc.Longitude,
			Lat:    loc.Latitude,
		})
	}
	return points, nil
}
