package walkshed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreatCircleDistance(t *testing.T) {
	p1 := GeoPoint{
		Lon: 37.6417350769043,
		Lat: 55.751849391735284,
	}
	p2 := GeoPoint{
		Lon: 37.668514251708984,
		Lat: 55.73261980350401,
	}
	res := 2.71693096539 // kilometers
	gcd := greatCircleDistance(p1, p2)
	assert.InDelta(t, res, gcd, 0.0005)
}

func TestFindCentroid(t *testing.T) {
	line := []GeoPoint{
		{Lon: 29.005, Lat: 41.0425},
		{Lon: 29.010, Lat: 41.0450},
		{Lon: 29.007, Lat: 41.0412},
	}
	centroid := findCentroid(line)
	// Centroid must land inside the bounding box of the inputs.
	assert.Greater(t, centroid.Lon, 29.005)
	assert.Less(t, centroid.Lon, 29.010)
	assert.Greater(t, centroid.Lat, 41.0412)
	assert.Less(t, centroid.Lat, 41.0450)
}

func TestFindCentroidSinglePoint(t *testing.T) {
	pt := GeoPoint{Lon: 29.007149, Lat: 41.041224}
	assert.Equal(t, pt, findCentroid([]GeoPoint{pt}))
}

func TestBudgetFromWalkTime(t *testing.T) {
	// 15 minutes at 5 km/h is the usual "15-minute city" budget.
	assert.InDelta(t, 1250.0, BudgetFromWalkTime(15, 5), 1e-9)
	assert.InDelta(t, 1200.0, BudgetFromWalkTime(15, 4.8), 1e-9)
}
