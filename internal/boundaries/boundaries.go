// Package boundaries answers point queries against park boundary polygons stored in SQLite
package boundaries

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

const table = "park_boundaries"

// Park is a park matched by a location query
type Park struct {
	Code     string
	Name     string
	Distance float64 // Distance in miles from the query point to the park's center
}

// HaversineDistance calculates distance in miles between two lat/lon points
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusMiles = 3959.0

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// Containing returns the parks whose boundary contains the point
func Containing(db *sql.DB, lat, lon float64) ([]Park, error) {
	rows, err := db.Query(`
		SELECT park_code, park_name, geometry, center_lat, center_lon
		FROM `+table+`
		WHERE ? BETWEEN bbox_min_lat AND bbox_max_lat
		  AND ? BETWEEN bbox_min_lon AND bbox_max_lon
	`, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("querying boundaries: %w", err)
	}
	defer rows.Close()

	parks := []Park{}
	for rows.Next() {
		var code, name, geometry string
		var centerLat, centerLon float64
		if err := rows.Scan(&code, &name, &geometry, &centerLat, &centerLon); err != nil {
			return nil, fmt.Errorf("scanning boundary: %w", err)
		}

		var ring [][]float64
		if err := json.Unmarshal([]byte(geometry), &ring); err != nil {
			return nil, fmt.Errorf("decoding geometry for %s: %w", code, err)
		}
		if !pointInRing(ring, lon, lat) {
			continue
		}
		parks = append(parks, Park{
			Code:     code,
			Name:     name,
			Distance: HaversineDistance(lat, lon, centerLat, centerLon),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading boundaries: %w", err)
	}

	sort.Slice(parks, func(i, j int) bool {
		return parks[i].Distance < parks[j].Distance
	})
	return parks, nil
}

// Nearby returns parks whose center is within maxMiles of the point, closest first
func Nearby(db *sql.DB, lat, lon, maxMiles float64) ([]Park, error) {
	// Rough degree box around the point, widened by half so edge cases survive
	latDelta := maxMiles / 69.0 * 1.5
	lonDelta := maxMiles / (69.0 * math.Max(math.Cos(lat*math.Pi/180), 0.01)) * 1.5

	rows, err := db.Query(`
		SELECT park_code, park_name, center_lat, center_lon
		FROM `+table+`
		WHERE center_lat BETWEEN ? AND ?
		  AND center_lon BETWEEN ? AND ?
	`, lat-latDelta, lat+latDelta, lon-lonDelta, lon+lonDelta)
	if err != nil {
		return nil, fmt.Errorf("querying boundaries: %w", err)
	}
	defer rows.Close()

	parks := []Park{}
	for rows.Next() {
		var p Park
		var centerLat, centerLon float64
		if err := rows.Scan(&p.Code, &p.Name, &centerLat, &centerLon); err != nil {
			return nil, fmt.Errorf("scanning boundary: %w", err)
		}

		p.Distance = HaversineDistance(lat, lon, centerLat, centerLon)
		if p.Distance <= maxMiles {
			parks = append(parks, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading boundaries: %w", err)
	}

	sort.Slice(parks, func(i, j int) bool {
		return parks[i].Distance < parks[j].Distance
	})
	return parks, nil
}

// pointInRing is the even-odd ray casting test; ring points are [x, y] = [lon, lat]
func pointInRing(ring [][]float64, x, y float64) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		if len(ring[i]) < 2 || len(ring[j]) < 2 {
			continue
		}
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
