package walkshed

import (
	"math"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"
)

// POI is a point of interest: the geographic origin of an accessibility
// query with its own distance budget.
type POI struct {
	Name         string
	Geom         GeoPoint
	BudgetMeters float64
}

// ServiceArea is the outcome of a single POI query. Err is set when the POI's
// query was rejected (e.g. negative budget); the rest of the batch is
// unaffected.
type ServiceArea struct {
	Result       *ReachabilityResult
	Err          error
	POI          POI
	SourceNodeID NodeID
	// NodesNum is the number of reached nodes
	NodesNum int
	// FullEdgesNum / BoundaryEdgesNum are reached edge counts by coverage kind
	FullEdgesNum     int
	BoundaryEdgesNum int
	// CoveredMeters is total covered street length, full edges plus boundary parts
	CoveredMeters float64
}

// ServiceAreasReport aggregates a batch of POI queries over one network.
type ServiceAreasReport struct {
	Areas []ServiceArea
	// UnionNodes is the union of reached node ids across all POIs, duplicates collapsed
	UnionNodes map[NodeID]struct{}
	// Hull is the convex hull of the reached nodes' planar coordinates. It is
	// an approximation of the covered region, not an exact buffer.
	Hull orb.Ring
	// HullAreaSqMeters is the planar area of Hull (0 when Hull is nil)
	HullAreaSqMeters float64
	FailedNum        int
}

type serviceAreaOptions struct {
	logger  *zap.Logger
	workers int
}

// ServiceAreaOption customizes batch aggregation
type ServiceAreaOption func(*serviceAreaOptions)

// WithWorkers sets number of goroutines used for the batch. Queries are pure
// functions over the immutable network, so any degree of parallelism is safe.
func WithWorkers(workers int) ServiceAreaOption {
	return func(opts *serviceAreaOptions) {
		opts.workers = workers
	}
}

// WithLogger attaches a logger for per-POI progress and failures
func WithLogger(logger *zap.Logger) ServiceAreaOption {
	return func(opts *serviceAreaOptions) {
		opts.logger = logger
	}
}

// CalcServiceAreas maps every POI to its nearest network node, computes its
// bounded ego-network and aggregates coverage statistics. A failing POI is
// recorded in its ServiceArea and does not abort the batch. Results are
// positionally aligned with the input POIs regardless of worker count.
func CalcServiceAreas(net *Network, index *NearestNodeIndex, pois []POI, options ...ServiceAreaOption) *ServiceAreasReport {
	opts := serviceAreaOptions{
		workers: 1,
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.workers < 1 {
		opts.workers = 1
	}

	report := &ServiceAreasReport{
		Areas:      make([]ServiceArea, len(pois)),
		UnionNodes: make(map[NodeID]struct{}),
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < opts.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				report.Areas[i] = calcServiceArea(net, index, pois[i])
			}
		}()
	}
	for i := range pois {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	hullPoints := []orb.Point{}
	for i := range report.Areas {
		area := &report.Areas[i]
		if area.Err != nil {
			report.FailedNum++
			opts.logger.Warn("service area query failed",
				zap.String("poi", area.POI.Name),
				zap.Float64("budget_meters", area.POI.BudgetMeters),
				zap.Error(area.Err))
			continue
		}
		opts.logger.Info("service area computed",
			zap.String("poi", area.POI.Name),
			zap.Int("nodes", area.NodesNum),
			zap.Float64("covered_meters", area.CoveredMeters))
		for nodeID := range area.Result.Distances {
			if _, seen := report.UnionNodes[nodeID]; !seen {
				report.UnionNodes[nodeID] = struct{}{}
				hullPoints = append(hullPoints, net.nodeByID(nodeID).GeomEuclidean)
			}
		}
	}

	report.Hull = convexHull(hullPoints)
	if report.Hull != nil {
		report.HullAreaSqMeters = math.Abs(planar.Area(orb.Polygon{report.Hull}))
	}
	return report
}

func calcServiceArea(net *Network, index *NearestNodeIndex, poi POI) ServiceArea {
	area := ServiceArea{POI: poi, SourceNodeID: -1}

	sourceNodeID, err := index.NearestNodeGeo(poi.Geom, net.Projector())
	if err != nil {
		area.Err = err
		return area
	}
	area.SourceNodeID = sourceNodeID

	result, err := net.Reachability(sourceNodeID, poi.BudgetMeters)
	if err != nil {
		area.Err = err
		return area
	}
	area.Result = result
	area.NodesNum = len(result.Distances)
	area.FullEdgesNum = len(result.FullEdges)
	area.BoundaryEdgesNum = len(result.BoundaryEdges)
	area.CoveredMeters = result.CoveredMeters(net)
	return area
}
