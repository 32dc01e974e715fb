package walkshed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContractionGraph(t *testing.T) {
	net := fourNodeChain(t)

	graph, err := BuildContractionGraph(net)
	require.NoError(t, err)

	graph.PrepareContractionHierarchies()

	// A -> D along the chain is 300 m, and the graph is symmetric.
	cost, path := graph.ShortestPath(0, 3)
	require.NotEmpty(t, path)
	assert.InDelta(t, 300.0, cost, 0.05)

	costBack, _ := graph.ShortestPath(3, 0)
	assert.InDelta(t, cost, costBack, 1e-6)
}
