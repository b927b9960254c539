package planner

import (
	"math"

	"travel-journal-backend/internal/models"
)

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance between two points
// in kilometers. Pure and deterministic.
func DistanceKm(a, b models.Coordinates) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLng := degToRad(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLng*sinLng
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// recomputeSegments reassigns Order to the 1-based position of every entry
// and recomputes every segment distance from scratch against the current
// order. Entry 0 gets a nil segment. The whole list is always recomputed,
// never patched, so a change anywhere is reflected in every later segment.
func recomputeSegments(entries []models.RouteEntry) {
	for i := range entries {
		entries[i].Order = i + 1
		if i == 0 {
			entries[i].SegmentDistanceKm = nil
			continue
		}
		d := DistanceKm(entries[i-1].Place.Coordinates, entries[i].Place.Coordinates)
		entries[i].SegmentDistanceKm = &d
	}
}

// analyticTotalKm sums the non-nil segment distances. Zero or one entries
// yield 0.
func analyticTotalKm(entries []models.RouteEntry) float64 {
	var total float64
	for i := range entries {
		if entries[i].SegmentDistanceKm != nil {
			total += *entries[i].SegmentDistanceKm
		}
	}
	return total
}
