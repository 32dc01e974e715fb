package walkshed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainPolyline returns a polyline running north with the given number of
// vertices and an exact planar spacing in meters between consecutive ones.
func chainPolyline(start GeoPoint, vertices int, spacingMeters float64) Polyline {
	deltaLat := radiansTodegrees(spacingMeters / (earthRadius * 1000.0))
	pts := make([]GeoPoint, vertices)
	for i := 0; i < vertices; i++ {
		pts[i] = GeoPoint{Lon: start.Lon, Lat: start.Lat + float64(i)*deltaLat}
	}
	return Polyline{Geometry: pts}
}

func TestNewNetworkSharedEndpointDeduplication(t *testing.T) {
	shared := GeoPoint{Lon: 29.010, Lat: 41.045}
	polylines := []Polyline{
		{Geometry: []GeoPoint{{Lon: 29.005, Lat: 41.042}, {Lon: 29.007, Lat: 41.043}, shared}},
		{Geometry: []GeoPoint{shared, {Lon: 29.012, Lat: 41.046}, {Lon: 29.014, Lat: 41.047}}},
	}
	net, err := NewNetwork(polylines)
	require.NoError(t, err)

	// 6 input vertices, 5 distinct coordinates: the shared endpoint merges.
	assert.Equal(t, 5, net.NodesNum())
	assert.Equal(t, 4, net.EdgesNum())
}

func TestNewNetworkSnapTolerance(t *testing.T) {
	// Two endpoints a hair apart merge under a loose tolerance and stay
	// distinct under the default one.
	a := GeoPoint{Lon: 29.010, Lat: 41.045}
	b := GeoPoint{Lon: 29.010 + 5e-6, Lat: 41.045}
	polylines := []Polyline{
		{Geometry: []GeoPoint{{Lon: 29.005, Lat: 41.042}, a}},
		{Geometry: []GeoPoint{b, {Lon: 29.014, Lat: 41.047}}},
	}

	strict, err := NewNetwork(polylines)
	require.NoError(t, err)
	assert.Equal(t, 4, strict.NodesNum())

	loose, err := NewNetwork(polylines, WithSnapTolerance(1e-4))
	require.NoError(t, err)
	assert.Equal(t, 3, loose.NodesNum())
}

func TestNewNetworkMalformedGeometry(t *testing.T) {
	polylines := []Polyline{
		{Geometry: []GeoPoint{{Lon: 29.005, Lat: 41.042}, {Lon: 29.007, Lat: 41.043}}},
		{Geometry: []GeoPoint{{Lon: 29.010, Lat: 41.045}}},
	}
	net, err := NewNetwork(polylines)
	assert.ErrorIs(t, err, ErrMalformedGeometry)
	// No partial network on failure.
	assert.Nil(t, net)
}

func TestNewNetworkParallelEdges(t *testing.T) {
	a := GeoPoint{Lon: 29.005, Lat: 41.042}
	b := GeoPoint{Lon: 29.007, Lat: 41.043}
	// Divided roadway modeled as two separate segments between the same pair.
	net, err := NewNetwork([]Polyline{
		{Geometry: []GeoPoint{a, b}},
		{Geometry: []GeoPoint{a, b}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, net.NodesNum())
	assert.Equal(t, 2, net.EdgesNum())
}

func TestNewNetworkDeterministicIDs(t *testing.T) {
	polylines := []Polyline{
		chainPolyline(GeoPoint{Lon: 29.005, Lat: 41.042}, 4, 100),
		chainPolyline(GeoPoint{Lon: 29.010, Lat: 41.042}, 3, 150),
	}
	first, err := NewNetwork(polylines)
	require.NoError(t, err)
	second, err := NewNetwork(polylines)
	require.NoError(t, err)

	require.Equal(t, first.NodesNum(), second.NodesNum())
	for i, node := range first.Nodes() {
		assert.Equal(t, node.ID, second.Nodes()[i].ID)
		assert.Equal(t, node.Geom, second.Nodes()[i].Geom)
	}
	for i, edge := range first.Edges() {
		assert.Equal(t, edge.ID, second.Edges()[i].ID)
		assert.Equal(t, edge.SourceNodeID, second.Edges()[i].SourceNodeID)
		assert.Equal(t, edge.TargetNodeID, second.Edges()[i].TargetNodeID)
	}
}

func TestNewNetworkEdgeLengths(t *testing.T) {
	net, err := NewNetwork([]Polyline{chainPolyline(GeoPoint{Lon: 29.005, Lat: 41.042}, 4, 100)})
	require.NoError(t, err)
	require.Equal(t, 3, net.EdgesNum())
	for _, edge := range net.Edges() {
		assert.InDelta(t, 100.0, edge.LengthMeters, 0.01)
	}
}

func TestNewNetworkFirstIDs(t *testing.T) {
	net, err := NewNetwork(
		[]Polyline{chainPolyline(GeoPoint{Lon: 29.005, Lat: 41.042}, 3, 100)},
		WithFirstNodeID(1000),
		WithFirstEdgeID(5000),
	)
	require.NoError(t, err)
	assert.Equal(t, NodeID(1000), net.Nodes()[0].ID)
	assert.Equal(t, EdgeID(5000), net.Edges()[0].ID)

	node, ok := net.Node(1001)
	require.True(t, ok)
	assert.Equal(t, NodeID(1001), node.ID)
	_, ok = net.Node(3)
	assert.False(t, ok)
}

func TestNewNetworkCarriesTags(t *testing.T) {
	tags := map[string]string{"highway": "footway", "surface": "paved"}
	net, err := NewNetwork([]Polyline{
		{Geometry: []GeoPoint{{Lon: 29.005, Lat: 41.042}, {Lon: 29.007, Lat: 41.043}}, Tags: tags},
	})
	require.NoError(t, err)
	require.Equal(t, 1, net.EdgesNum())
	assert.Equal(t, "footway", net.Edges()[0].Tags["highway"])
	assert.Equal(t, "paved", net.Edges()[0].Tags["surface"])
}
