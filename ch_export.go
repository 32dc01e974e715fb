package walkshed

import (
	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

// BuildContractionGraph converts the walking network into a graph suitable
// for contraction hierarchies, for consumers that need exact point-to-point
// shortest paths over the same network. Every undirected edge is added in
// both directions with its length in meters as weight.
func BuildContractionGraph(net *Network) (*ch.Graph, error) {
	graph := &ch.Graph{}
	for i := range net.nodes {
		err := graph.CreateVertex(int64(net.nodes[i].ID))
		if err != nil {
			return nil, errors.Wrap(err, "Can't create vertex")
		}
	}
	for i := range net.edges {
		edge := &net.edges[i]
		err := graph.AddEdge(int64(edge.SourceNodeID), int64(edge.TargetNodeID), edge.LengthMeters)
		if err != nil {
			return nil, errors.Wrap(err, "Can't add forward edge")
		}
		err = graph.AddEdge(int64(edge.TargetNodeID), int64(edge.SourceNodeID), edge.LengthMeters)
		if err != nil {
			return nil, errors.Wrap(err, "Can't add backward edge")
		}
	}
	return graph, nil
}
