package walkshed

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"
)

// WalkConfiguration filters OSM ways down to the pedestrian network
type WalkConfiguration struct {
	EntityName string // Currently we support 'highway' only
	Tags       []string
	Verbose    bool
}

// NewDefaultWalkConfiguration returns configuration matching the usual
// walkable highway classes (a pedestrian can also walk along most roads).
func NewDefaultWalkConfiguration() *WalkConfiguration {
	return &WalkConfiguration{
		EntityName: "highway",
		Tags: []string{
			"footway", "pedestrian", "path", "steps", "living_street",
			"residential", "service", "track", "unclassified", "tertiary",
			"tertiary_link", "secondary", "secondary_link", "primary",
			"primary_link",
		},
	}
}

// CheckTag checks if incoming tag is represented in configuration
func (cfg *WalkConfiguration) CheckTag(tag string) bool {
	for i := range cfg.Tags {
		if cfg.Tags[i] == tag {
			return true
		}
	}
	return false
}

// PolylinesFromOSMFile imports walkable street segments from a file of
// PBF-format (in OSM terms).
/*
	File should have PBF (Protocolbuffer Binary Format) extension according to https://github.com/paulmach/osm

	Ways are scanned first and filtered by the configuration's highway tags,
	then the file is re-scanned for the referenced node coordinates. Each
	surviving way becomes one polyline; the network builder takes care of
	merging shared vertices into crossings.
*/
func PolylinesFromOSMFile(fileName string, cfg *WalkConfiguration) ([]Polyline, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()

	scannerWays := osmpbf.New(context.Background(), f, 4)
	defer scannerWays.Close()

	type wayRef struct {
		tags    map[string]string
		nodeIDs []osm.NodeID
	}

	ways := []wayRef{}
	nodesSeen := make(map[osm.NodeID]struct{})

	if cfg.Verbose {
		fmt.Printf("Scanning ways...")
	}
	st := time.Now()
	for scannerWays.Scan() {
		obj := scannerWays.Object()
		if obj.ObjectID().Type() != "way" {
			continue
		}
		way := obj.(*osm.Way)
		tagMap := way.TagMap()
		tag, ok := tagMap[cfg.EntityName]
		if !ok {
			continue
		}
		if !cfg.CheckTag(tag) {
			continue
		}
		ref := wayRef{
			tags:    tagMap,
			nodeIDs: make([]osm.NodeID, len(way.Nodes)),
		}
		for i, wayNode := range way.Nodes {
			ref.nodeIDs[i] = wayNode.ID
			nodesSeen[wayNode.ID] = struct{}{}
		}
		ways = append(ways, ref)
	}
	if scannerWays.Err() != nil {
		return nil, errors.Wrap(scannerWays.Err(), "Scanner error on Ways")
	}
	if cfg.Verbose {
		fmt.Printf("Done in %v\n\tWays: %d\n", time.Since(st), len(ways))
	}

	// Seek file to start
	_, err = f.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking")
	}
	scannerNodes := osmpbf.New(context.Background(), f, 4)
	defer scannerNodes.Close()

	if cfg.Verbose {
		fmt.Printf("Scanning nodes...")
	}
	st = time.Now()
	nodes := make(map[osm.NodeID]GeoPoint)
	for scannerNodes.Scan() {
		obj := scannerNodes.Object()
		if obj.ObjectID().Type() != "node" {
			continue
		}
		node := obj.(*osm.Node)
		if _, ok := nodesSeen[node.ID]; ok {
			nodes[node.ID] = GeoPoint{Lon: node.Lon, Lat: node.Lat}
		}
	}
	if scannerNodes.Err() != nil {
		return nil, errors.Wrap(scannerNodes.Err(), "Scanner error on Nodes")
	}
	if cfg.Verbose {
		fmt.Printf("Done in %v\n\tNodes: %d\n", time.Since(st), len(nodes))
	}

	polylines := make([]Polyline, 0, len(ways))
	for _, way := range ways {
		geometry := make([]GeoPoint, 0, len(way.nodeIDs))
		for _, nodeID := range way.nodeIDs {
			pt, ok := nodes[nodeID]
			if !ok {
				return nil, fmt.Errorf("Missing node with id: %d", nodeID)
			}
			geometry = append(geometry, pt)
		}
		if len(geometry) < 2 {
			// Degenerate ways happen in clipped extracts, just skip them
			continue
		}
		polylines = append(polylines, Polyline{Geometry: geometry, Tags: way.tags})
	}
	return polylines, nil
}
