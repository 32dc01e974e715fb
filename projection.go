package walkshed

import (
	"math"

	"github.com/paulmach/orb"
)

// Projector maps geographic coordinates onto a local planar metric system
// (meters) via an equirectangular projection anchored at a fixed origin.
//
// Note: plain Web-Mercator (EPSG:3857) stretches lengths by ~1/cos(lat),
// which is over 30% at mid latitudes. Anchoring the scale at the study-area
// centroid keeps planar distances within a fraction of a percent of the
// great-circle ones at city-district scale (1-2 km budgets).
type Projector struct {
	origin    GeoPoint
	cosLat    float64
	originLon float64
	originLat float64
}

// NewProjector returns projector anchored at given origin point
func NewProjector(origin GeoPoint) *Projector {
	return &Projector{
		origin:    origin,
		cosLat:    math.Cos(degreesToRadians(origin.Lat)),
		originLon: degreesToRadians(origin.Lon),
		originLat: degreesToRadians(origin.Lat),
	}
}

// newProjectorForLine returns projector anchored at the centroid of all vertices
func newProjectorForLine(pts []GeoPoint) *Projector {
	return NewProjector(findCentroid(pts))
}

// Origin returns anchor point of the projection
func (proj *Projector) Origin() GeoPoint {
	return proj.origin
}

// Project converts geographic point to planar coordinates (meters)
func (proj *Projector) Project(pt GeoPoint) orb.Point {
	x := earthRadius * 1000.0 * proj.cosLat * (degreesToRadians(pt.Lon) - proj.originLon)
	y := earthRadius * 1000.0 * (degreesToRadians(pt.Lat) - proj.originLat)
	return orb.Point{x, y}
}

// Unproject converts planar coordinates (meters) back to geographic point
func (proj *Projector) Unproject(pt orb.Point) GeoPoint {
	lon := proj.originLon + pt.X()/(earthRadius*1000.0*proj.cosLat)
	lat := proj.originLat + pt.Y()/(earthRadius*1000.0)
	return GeoPoint{Lon: radiansTodegrees(lon), Lat: radiansTodegrees(lat)}
}
