package walkshed

import (
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// PolylinesFromGeoJSON extracts street-segment polylines from a GeoJSON
// FeatureCollection. LineString features give one polyline each,
// MultiLineString features one per part; other geometry types are skipped.
// Feature properties are carried as string attributes, never interpreted.
func PolylinesFromGeoJSON(data []byte) ([]Polyline, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "Can't unmarshal feature collection")
	}

	polylines := []Polyline{}
	for _, feature := range fc.Features {
		if feature.Geometry == nil {
			continue
		}
		tags := tagsFromProperties(feature.Properties)
		switch {
		case feature.Geometry.IsLineString():
			polylines = append(polylines, Polyline{
				Geometry: lineToGeoPoints(feature.Geometry.LineString),
				Tags:     tags,
			})
		case feature.Geometry.IsMultiLineString():
			for _, part := range feature.Geometry.MultiLineString {
				polylines = append(polylines, Polyline{
					Geometry: lineToGeoPoints(part),
					Tags:     tags,
				})
			}
		}
	}
	return polylines, nil
}

// PolylinesFromGeoJSONFile reads polylines from a GeoJSON file on disk
func PolylinesFromGeoJSONFile(fileName string) ([]Polyline, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	return PolylinesFromGeoJSON(data)
}

func lineToGeoPoints(coords [][]float64) []GeoPoint {
	pts := make([]GeoPoint, 0, len(coords))
	for _, coord := range coords {
		if len(coord) < 2 {
			continue
		}
		pts = append(pts, GeoPoint{Lon: coord[0], Lat: coord[1]})
	}
	return pts
}

func tagsFromProperties(properties map[string]interface{}) map[string]string {
	if len(properties) == 0 {
		return nil
	}
	tags := make(map[string]string, len(properties))
	for key, value := range properties {
		tags[key] = fmt.Sprintf("%v", value)
	}
	return tags
}
