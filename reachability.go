package walkshed

import (
	"container/heap"
)

// ReachabilityResult is the bounded ego-network of a source node: every node
// whose shortest walking distance fits the budget, plus the edge coverage at
// the boundary.
type ReachabilityResult struct {
	// Distances maps every reached node to its shortest distance from the
	// source (<= budget).
	Distances map[NodeID]float64
	// FullEdges are edges with both endpoints reached; they contribute their
	// whole length to coverage.
	FullEdges map[EdgeID]struct{}
	// BoundaryEdges are edges with exactly one endpoint reached. The value is
	// the partial covered length min(budget - distance(endpoint), edge length).
	BoundaryEdges map[EdgeID]float64
	SourceNodeID  NodeID
	BudgetMeters  float64
}

// CoveredMeters returns total covered length: full edges plus boundary parts
func (result *ReachabilityResult) CoveredMeters(net *Network) float64 {
	total := 0.0
	for edgeID := range result.FullEdges {
		if edge, ok := net.Edge(edgeID); ok {
			total += edge.LengthMeters
		}
	}
	for _, partial := range result.BoundaryEdges {
		total += partial
	}
	return total
}

// distanceHeap is a binary heap of tentative distances. Equal distances are
// ordered by node id to keep expansion order, and therefore results,
// deterministic across reruns.
type distanceHeap []heapEntry

type heapEntry struct {
	distance float64
	nodeID   NodeID
}

func (h distanceHeap) Len() int { return len(h) }
func (h distanceHeap) Less(i, j int) bool {
	if h[i].distance != h[j].distance {
		return h[i].distance < h[j].distance
	}
	return h[i].nodeID < h[j].nodeID
}
func (h distanceHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *distanceHeap) Push(x interface{}) {
	*h = append(*h, x.(heapEntry))
}
func (h *distanceHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}

// Reachability computes every node and edge reachable from the source within
// the given distance budget (meters) via bounded Dijkstra: the search expands
// nodes in nondecreasing distance order and stops once the next candidate
// exceeds the budget, so disconnected components are never visited at all.
//
// Budget 0 or an isolated source yields {source} with no edges. A negative
// budget fails with ErrInvalidBudget.
func (net *Network) Reachability(source NodeID, budgetMeters float64) (*ReachabilityResult, error) {
	if budgetMeters < 0 {
		return nil, ErrInvalidBudget
	}
	if _, ok := net.Node(source); !ok {
		return nil, ErrNoSuchNode
	}

	result := &ReachabilityResult{
		SourceNodeID:  source,
		BudgetMeters:  budgetMeters,
		Distances:     map[NodeID]float64{source: 0},
		FullEdges:     make(map[EdgeID]struct{}),
		BoundaryEdges: make(map[EdgeID]float64),
	}

	tentative := map[NodeID]float64{source: 0}
	pq := &distanceHeap{{distance: 0, nodeID: source}}
	heap.Init(pq)

	for pq.Len() > 0 {
		entry := heap.Pop(pq).(heapEntry)
		if entry.distance > budgetMeters {
			break
		}
		if known, ok := result.Distances[entry.nodeID]; ok && entry.distance > known {
			continue
		}
		result.Distances[entry.nodeID] = entry.distance
		for _, adj := range net.adjacency[net.nodeIdx(entry.nodeID)] {
			edge, _ := net.Edge(adj.edgeID)
			candidate := entry.distance + edge.LengthMeters
			if known, ok := tentative[adj.nodeID]; ok && known <= candidate {
				continue
			}
			tentative[adj.nodeID] = candidate
			heap.Push(pq, heapEntry{distance: candidate, nodeID: adj.nodeID})
		}
	}

	for i := range net.edges {
		edge := &net.edges[i]
		distSource, sourceIn := result.Distances[edge.SourceNodeID]
		distTarget, targetIn := result.Distances[edge.TargetNodeID]
		switch {
		case sourceIn && targetIn:
			result.FullEdges[edge.ID] = struct{}{}
		case sourceIn:
			// Zero leftover budget covers nothing of the edge, so it is not
			// a boundary edge at all (a budget of 0 yields the source alone).
			if remaining := budgetMeters - distSource; remaining > 0 {
				result.BoundaryEdges[edge.ID] = partialCoverage(remaining, edge.LengthMeters)
			}
		case targetIn:
			if remaining := budgetMeters - distTarget; remaining > 0 {
				result.BoundaryEdges[edge.ID] = partialCoverage(remaining, edge.LengthMeters)
			}
		}
	}
	return result, nil
}

func partialCoverage(remaining, edgeLength float64) float64 {
	if remaining > edgeLength {
		return edgeLength
	}
	return remaining
}
