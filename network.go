package walkshed

import (
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

type NodeID int

type EdgeID int

// NetworkNode is a vertex of the walking network. Carries both geographic
// and projected planar coordinates (meters).
type NetworkNode struct {
	ID            NodeID
	Geom          GeoPoint
	GeomEuclidean orb.Point
}

// NetworkEdge is an undirected segment between two nodes, weighted by
// projected planar length in meters. Tags are carried as-is from the
// geometry source and never interpreted.
type NetworkEdge struct {
	Tags         map[string]string
	ID           EdgeID
	SourceNodeID NodeID
	TargetNodeID NodeID
	LengthMeters float64
}

// adjacency is an entry of a node's adjacency list
type adjacency struct {
	nodeID NodeID
	edgeID EdgeID
}

// Network is an immutable planar graph of the walking street network.
// Built once per analysis; all queries afterwards are read-only, so
// concurrent reachability calls need no locking.
type Network struct {
	projector   *Projector
	nodes       []NetworkNode
	edges       []NetworkEdge
	adjacency   [][]adjacency
	firstNodeID NodeID
	firstEdgeID EdgeID
}

// Polyline is a raw street segment supplied by a geometry source:
// ordered geographic vertices plus schema-less attributes.
type Polyline struct {
	Tags     map[string]string
	Geometry []GeoPoint
}

const defaultSnapToleranceDegrees = 1e-7

type networkOptions struct {
	snapTolerance float64
	firstNodeID   NodeID
	firstEdgeID   EdgeID
	verbose       bool
}

// NetworkOption customizes network construction
type NetworkOption func(*networkOptions)

// WithSnapTolerance sets maximum coordinate distance (degrees) at which two
// input vertices are merged into one node
func WithSnapTolerance(tolerance float64) NetworkOption {
	return func(opts *networkOptions) {
		opts.snapTolerance = tolerance
	}
}

// WithFirstNodeID sets identifier of the first generated node
func WithFirstNodeID(id NodeID) NetworkOption {
	return func(opts *networkOptions) {
		opts.firstNodeID = id
	}
}

// WithFirstEdgeID sets identifier of the first generated edge
func WithFirstEdgeID(id EdgeID) NetworkOption {
	return func(opts *networkOptions) {
		opts.firstEdgeID = id
	}
}

// WithVerbose enables progress output during construction
func WithVerbose(verbose bool) NetworkOption {
	return func(opts *networkOptions) {
		opts.verbose = verbose
	}
}

// NewNetwork builds the walking network from raw polylines.
//
// Vertices closer than the snap tolerance collapse into a single node, so
// polylines sharing an endpoint become connected rather than per-segment
// islands. Every consecutive vertex pair yields one undirected edge; parallel
// edges between the same node pair are kept. Construction is deterministic
// for identical input order and tolerance and produces no partial network on
// failure.
func NewNetwork(polylines []Polyline, options ...NetworkOption) (*Network, error) {
	opts := networkOptions{
		snapTolerance: defaultSnapToleranceDegrees,
	}
	for _, option := range options {
		option(&opts)
	}

	st := time.Now()
	if opts.verbose {
		fmt.Printf("Building walking network from %d polylines...", len(polylines))
	}

	totalVertices := 0
	for _, polyline := range polylines {
		if len(polyline.Geometry) < 2 {
			return nil, ErrMalformedGeometry
		}
		totalVertices += len(polyline.Geometry)
	}

	allVertices := make([]GeoPoint, 0, totalVertices)
	for _, polyline := range polylines {
		allVertices = append(allVertices, polyline.Geometry...)
	}

	net := &Network{
		firstNodeID: opts.firstNodeID,
		firstEdgeID: opts.firstEdgeID,
	}
	if totalVertices > 0 {
		net.projector = newProjectorForLine(allVertices)
	} else {
		net.projector = NewProjector(GeoPoint{})
	}

	type snapKey struct {
		lonCell int64
		latCell int64
	}
	quantize := func(pt GeoPoint) snapKey {
		return snapKey{
			lonCell: int64(math.Round(pt.Lon / opts.snapTolerance)),
			latCell: int64(math.Round(pt.Lat / opts.snapTolerance)),
		}
	}

	nodesByCell := make(map[snapKey]NodeID)
	addVertex := func(pt GeoPoint) NodeID {
		key := quantize(pt)
		if id, ok := nodesByCell[key]; ok {
			return id
		}
		id := opts.firstNodeID + NodeID(len(net.nodes))
		net.nodes = append(net.nodes, NetworkNode{
			ID:            id,
			Geom:          pt,
			GeomEuclidean: net.projector.Project(pt),
		})
		net.adjacency = append(net.adjacency, nil)
		nodesByCell[key] = id
		return id
	}

	for _, polyline := range polylines {
		prev := addVertex(polyline.Geometry[0])
		for i := 1; i < len(polyline.Geometry); i++ {
			current := addVertex(polyline.Geometry[i])
			edgeID := opts.firstEdgeID + EdgeID(len(net.edges))
			net.edges = append(net.edges, NetworkEdge{
				ID:           edgeID,
				SourceNodeID: prev,
				TargetNodeID: current,
				LengthMeters: planar.Distance(net.nodeByID(prev).GeomEuclidean, net.nodeByID(current).GeomEuclidean),
				Tags:         polyline.Tags,
			})
			net.adjacency[net.nodeIdx(prev)] = append(net.adjacency[net.nodeIdx(prev)], adjacency{nodeID: current, edgeID: edgeID})
			net.adjacency[net.nodeIdx(current)] = append(net.adjacency[net.nodeIdx(current)], adjacency{nodeID: prev, edgeID: edgeID})
			prev = current
		}
	}

	if opts.verbose {
		fmt.Printf("Done in %v\n\tNodes: %d\n\tEdges: %d\n", time.Since(st), len(net.nodes), len(net.edges))
	}
	return net, nil
}

func (net *Network) nodeIdx(id NodeID) int {
	return int(id - net.firstNodeID)
}

func (net *Network) nodeByID(id NodeID) *NetworkNode {
	return &net.nodes[net.nodeIdx(id)]
}

// NodesNum returns number of nodes in the network
func (net *Network) NodesNum() int {
	return len(net.nodes)
}

// EdgesNum returns number of edges in the network
func (net *Network) EdgesNum() int {
	return len(net.edges)
}

// Node returns node by its identifier
func (net *Network) Node(id NodeID) (NetworkNode, bool) {
	idx := net.nodeIdx(id)
	if idx < 0 || idx >= len(net.nodes) {
		return NetworkNode{}, false
	}
	return net.nodes[idx], true
}

// Edge returns edge by its identifier
func (net *Network) Edge(id EdgeID) (NetworkEdge, bool) {
	idx := int(id - net.firstEdgeID)
	if idx < 0 || idx >= len(net.edges) {
		return NetworkEdge{}, false
	}
	return net.edges[idx], true
}

// Nodes returns all nodes of the network
func (net *Network) Nodes() []NetworkNode {
	return net.nodes
}

// Edges returns all edges of the network
func (net *Network) Edges() []NetworkEdge {
	return net.edges
}

// Projector returns the projection used for planar coordinates
func (net *Network) Projector() *Projector {
	return net.projector
}
