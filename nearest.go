package walkshed

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// NearestNodeIndex answers nearest-node queries over the projected node set.
// Backed by a k-d tree so batch POI lookups beat a full scan. The index is
// read-only after construction and safe for concurrent queries.
type NearestNodeIndex struct {
	root *kdNode
}

type kdNode struct {
	left   *kdNode
	right  *kdNode
	point  orb.Point
	nodeID NodeID
	axis   int
}

type kdItem struct {
	point  orb.Point
	nodeID NodeID
}

// NewNearestNodeIndex builds k-d tree over the network's projected nodes
func NewNearestNodeIndex(net *Network) *NearestNodeIndex {
	items := make([]kdItem, len(net.nodes))
	for i := range net.nodes {
		items[i] = kdItem{point: net.nodes[i].GeomEuclidean, nodeID: net.nodes[i].ID}
	}
	return &NearestNodeIndex{root: buildKDTree(items, 0)}
}

func buildKDTree(items []kdItem, axis int) *kdNode {
	if len(items) == 0 {
		return nil
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].point[axis] != items[j].point[axis] {
			return items[i].point[axis] < items[j].point[axis]
		}
		return items[i].nodeID < items[j].nodeID
	})
	median := len(items) / 2
	return &kdNode{
		point:  items[median].point,
		nodeID: items[median].nodeID,
		axis:   axis,
		left:   buildKDTree(items[:median], 1-axis),
		right:  buildKDTree(items[median+1:], 1-axis),
	}
}

// NearestNode returns the node of minimum planar Euclidean distance to the
// given planar point. Ties are broken by lowest node id so repeated runs give
// identical answers. Returns ErrNoSuchNode for an empty network.
func (index *NearestNodeIndex) NearestNode(pt orb.Point) (NodeID, error) {
	if index.root == nil {
		return 0, ErrNoSuchNode
	}
	best := kdItem{nodeID: -1}
	bestDist := -1.0
	index.root.search(pt, &best, &bestDist)
	return best.nodeID, nil
}

// NearestNodeGeo is a convenience wrapper projecting a geographic point first
func (index *NearestNodeIndex) NearestNodeGeo(pt GeoPoint, projector *Projector) (NodeID, error) {
	return index.NearestNode(projector.Project(pt))
}

func (tree *kdNode) search(pt orb.Point, best *kdItem, bestDist *float64) {
	if tree == nil {
		return
	}
	dist := planar.Distance(pt, tree.point)
	if *bestDist < 0 || dist < *bestDist || (dist == *bestDist && tree.nodeID < best.nodeID) {
		*best = kdItem{point: tree.point, nodeID: tree.nodeID}
		*bestDist = dist
	}

	diff := pt[tree.axis] - tree.point[tree.axis]
	near, far := tree.left, tree.right
	if diff > 0 {
		near, far = tree.right, tree.left
	}
	near.search(pt, best, bestDist)
	// The far half-plane can still hold an equally distant node with a lower
	// id, hence <= instead of <.
	if diff*diff <= *bestDist*(*bestDist) {
		far.search(pt, best, bestDist)
	}
}
