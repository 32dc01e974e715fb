package walkshed

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
)

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(pts []GeoPoint) string {
	pts2d := make([][]float64, len(pts))
	for i := range pts {
		pts2d[i] = []float64{pts[i].Lon, pts[i].Lat}
	}
	b, err := geojson.NewLineStringGeometry(pts2d).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// PrepareGeoJSONPoint returns GeoJSON representation of Point
func PrepareGeoJSONPoint(pt GeoPoint) string {
	b, err := geojson.NewPointGeometry([]float64{pt.Lon, pt.Lat}).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// ServiceAreasToGeoJSON renders a batch report as a FeatureCollection for map
// renderers: one LineString feature per covered edge (with coverage kind and
// covered length) and one Polygon feature for the combined convex hull.
func ServiceAreasToGeoJSON(net *Network, report *ServiceAreasReport) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i := range report.Areas {
		area := &report.Areas[i]
		if area.Err != nil {
			continue
		}
		for edgeID := range area.Result.FullEdges {
			if feature := edgeFeature(net, edgeID, area.POI.Name, "full", 0); feature != nil {
				fc.AddFeature(feature)
			}
		}
		for edgeID, partial := range area.Result.BoundaryEdges {
			if feature := edgeFeature(net, edgeID, area.POI.Name, "boundary", partial); feature != nil {
				fc.AddFeature(feature)
			}
		}
	}

	if report.Hull != nil {
		ring := make([][]float64, len(report.Hull))
		for i, pt := range report.Hull {
			geoPt := net.Projector().Unproject(pt)
			ring[i] = []float64{geoPt.Lon, geoPt.Lat}
		}
		hullFeature := geojson.NewPolygonFeature([][][]float64{ring})
		hullFeature.SetProperty("kind", "hull")
		hullFeature.SetProperty("area_sq_meters", report.HullAreaSqMeters)
		fc.AddFeature(hullFeature)
	}
	return fc
}

func edgeFeature(net *Network, edgeID EdgeID, poiName string, kind string, partialMeters float64) *geojson.Feature {
	edge, ok := net.Edge(edgeID)
	if !ok {
		return nil
	}
	source := net.nodeByID(edge.SourceNodeID)
	target := net.nodeByID(edge.TargetNodeID)
	feature := geojson.NewLineStringFeature([][]float64{
		{source.Geom.Lon, source.Geom.Lat},
		{target.Geom.Lon, target.Geom.Lat},
	})
	feature.SetProperty("poi", poiName)
	feature.SetProperty("kind", kind)
	feature.SetProperty("edge_id", int(edge.ID))
	feature.SetProperty("length_meters", edge.LengthMeters)
	if kind == "boundary" {
		feature.SetProperty("covered_meters", partialMeters)
	} else {
		feature.SetProperty("covered_meters", edge.LengthMeters)
	}
	return feature
}
