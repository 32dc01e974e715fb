package walkshed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// gridNetwork builds a 10x10 street grid with ~200 m spacing: one polyline
// per row and one per column, so intersections deduplicate into single nodes.
func gridNetwork(t *testing.T) *Network {
	t.Helper()
	const size = 10
	deltaLat := radiansTodegrees(200.0 / (earthRadius * 1000.0))
	deltaLon := deltaLat // not metrically square, irrelevant here
	origin := GeoPoint{Lon: 29.000, Lat: 41.000}

	polylines := []Polyline{}
	for row := 0; row < size; row++ {
		pts := make([]GeoPoint, size)
		for col := 0; col < size; col++ {
			pts[col] = GeoPoint{Lon: origin.Lon + float64(col)*deltaLon, Lat: origin.Lat + float64(row)*deltaLat}
		}
		polylines = append(polylines, Polyline{Geometry: pts})
	}
	for col := 0; col < size; col++ {
		pts := make([]GeoPoint, size)
		for row := 0; row < size; row++ {
			pts[row] = GeoPoint{Lon: origin.Lon + float64(col)*deltaLon, Lat: origin.Lat + float64(row)*deltaLat}
		}
		polylines = append(polylines, Polyline{Geometry: pts})
	}

	net, err := NewNetwork(polylines)
	require.NoError(t, err)
	require.Equal(t, size*size, net.NodesNum())
	return net
}

// bruteForceNearest mirrors the index contract: minimum planar distance,
// ties broken by lowest node id.
func bruteForceNearest(net *Network, pt orb.Point) NodeID {
	best := NodeID(-1)
	bestDist := -1.0
	for _, node := range net.Nodes() {
		dist := planar.Distance(pt, node.GeomEuclidean)
		if bestDist < 0 || dist < bestDist || (dist == bestDist && node.ID < best) {
			best = node.ID
			bestDist = dist
		}
	}
	return best
}

func TestNearestNodeMatchesBruteForce(t *testing.T) {
	net := gridNetwork(t)
	index := NewNearestNodeIndex(net)

	queries := []orb.Point{
		{0, 0},
		{-950, -950},
		{950, 950},
		{123.4, -567.8},
		{-1, 899},
		{1700, 40},   // outside the grid
		{-5000, 300}, // far outside the grid
	}
	for _, query := range queries {
		got, err := index.NearestNode(query)
		require.NoError(t, err)
		want := bruteForceNearest(net, query)
		assert.Equal(t, want, got, "query %v", query)

		// Optimality: no node is strictly closer than the returned one.
		gotNode, ok := net.Node(got)
		require.True(t, ok)
		gotDist := planar.Distance(query, gotNode.GeomEuclidean)
		for _, node := range net.Nodes() {
			assert.GreaterOrEqual(t, planar.Distance(query, node.GeomEuclidean), gotDist)
		}
	}
}

func TestNearestNodeAtNodeCoordinates(t *testing.T) {
	net := gridNetwork(t)
	index := NewNearestNodeIndex(net)
	for _, node := range net.Nodes() {
		got, err := index.NearestNode(node.GeomEuclidean)
		require.NoError(t, err)
		assert.Equal(t, node.ID, got)
	}
}

func TestNearestNodeGeo(t *testing.T) {
	net := gridNetwork(t)
	index := NewNearestNodeIndex(net)

	// Querying slightly off the south-west corner must give the corner node.
	corner := net.Nodes()[0]
	query := GeoPoint{Lon: corner.Geom.Lon - 1e-5, Lat: corner.Geom.Lat - 1e-5}
	got, err := index.NearestNodeGeo(query, net.Projector())
	require.NoError(t, err)
	assert.Equal(t, corner.ID, got)
}

func TestNearestNodeEmptyNetwork(t *testing.T) {
	net, err := NewNetwork(nil)
	require.NoError(t, err)
	index := NewNearestNodeIndex(net)
	_, err = index.NearestNode(orb.Point{0, 0})
	assert.ErrorIs(t, err, ErrNoSuchNode)
}
