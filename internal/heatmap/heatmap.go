// Package heatmap turns located expense records into weighted points for the
// map screen's spending heatmap.
package heatmap

import (
	"math"

	"github.com/HilmanThoriq/finterra-app/internal/core"
)

// Tolerance is the cluster merge distance in degrees, roughly 11 meters.
// Plain Euclidean distance in degree space, not geodesic: the approximation
// only holds at small scales, which is all the map screen ever shows.
const Tolerance = 0.0001

// MinWeight keeps low-spend clusters visible on the heatmap layer.
const MinWeight = 0.2

// Point is one rendered heatmap point. Weight is in [MinWeight, 1.0].
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Weight    float64 `json:"weight"`
}

type cluster struct {
	lat, lng float64 // anchor: coordinates of the first record that formed it
	total    int64
}

// Generate clusters the located records and normalizes cluster spending into
// point weights. Records without a coordinate are skipped. Returns nil when
// nothing has a location, in which case the heatmap layer is not rendered.
//
// Clustering is a sequential scan: each coordinate joins the first existing
// cluster within Tolerance, and clusters are never rebalanced once formed.
// Quadratic in the worst case, fine at personal-expense scale.
func Generate(records []core.Expense) []Point {
	var clusters []cluster
	for _, e := range records {
		if e.Location == nil {
			continue
		}
		lat, lng := e.Location.Latitude, e.Location.Longitude
		joined := false
		for i := range clusters {
			if distance(lat, lng, clusters[i].lat, clusters[i].lng) < Tolerance {
				clusters[i].total += e.Amount.Units
				joined = true
				break
			}
		}
		if !joined {
			clusters = append(clusters, cluster{lat: lat, lng: lng, total: e.Amount.Units})
		}
	}
	if len(clusters) == 0 {
		return nil
	}

	var max int64
	for _, c := range clusters {
		if c.total > max {
			max = c.total
		}
	}

	points := make([]Point, len(clusters))
	for i, c := range clusters {
		w := float64(c.total) / float64(max)
		if w < MinWeight {
			w = MinWeight
		}
		points[i] = Point{Latitude: c.lat, Longitude: c.lng, Weight: w}
	}
	return points
}

func distance(lat1, lng1, lat2, lng2 float64) float64 {
	dlat := lat1 - lat2
	dlng := lng1 - lng2
	return math.Sqrt(dlat*dlat + dlng*dlng)
}
