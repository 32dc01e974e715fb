package walkshed

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ExportToCSV saves the built network into two semicolon-separated files:
// '<name>_nodes.csv' and '<name>_edges.csv', with WKT geometry columns.
func (net *Network) ExportToCSV(fname string) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameNodes := fmt.Sprintf(fnameParts[0] + "_nodes.csv")
	fnameEdges := fmt.Sprintf(fnameParts[0] + "_edges.csv")

	err := net.exportNodesToCSV(fnameNodes)
	if err != nil {
		return errors.Wrap(err, "Can't export nodes")
	}

	err = net.exportEdgesToCSV(fnameEdges)
	if err != nil {
		return errors.Wrap(err, "Can't export edges")
	}
	return nil
}

func (net *Network) exportNodesToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "longitude", "latitude", "x", "y", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for i := range net.nodes {
		node := &net.nodes[i]
		err = writer.Write([]string{
			fmt.Sprintf("%d", node.ID),
			fmt.Sprintf("%f", node.Geom.Lon),
			fmt.Sprintf("%f", node.Geom.Lat),
			fmt.Sprintf("%f", node.GeomEuclidean.X()),
			fmt.Sprintf("%f", node.GeomEuclidean.Y()),
			PrepareWKTPoint(node.Geom),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write node")
		}
	}
	return nil
}

func (net *Network) exportEdgesToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "source_node", "target_node", "length_meters", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for i := range net.edges {
		edge := &net.edges[i]
		source := net.nodeByID(edge.SourceNodeID)
		target := net.nodeByID(edge.TargetNodeID)
		err = writer.Write([]string{
			fmt.Sprintf("%d", edge.ID),
			fmt.Sprintf("%d", edge.SourceNodeID),
			fmt.Sprintf("%d", edge.TargetNodeID),
			fmt.Sprintf("%f", edge.LengthMeters),
			PrepareWKTLinestring([]GeoPoint{source.Geom, target.Geom}),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write edge")
		}
	}
	return nil
}

// ExportServiceAreasToCSV saves per-POI summary rows of a batch report
func ExportServiceAreasToCSV(report *ServiceAreasReport, fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"poi", "longitude", "latitude", "budget_meters", "source_node", "nodes", "full_edges", "boundary_edges", "covered_meters", "error"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for i := range report.Areas {
		area := &report.Areas[i]
		errText := ""
		if area.Err != nil {
			errText = area.Err.Error()
		}
		err = writer.Write([]string{
			area.POI.Name,
			fmt.Sprintf("%f", area.POI.Geom.Lon),
			fmt.Sprintf("%f", area.POI.Geom.Lat),
			fmt.Sprintf("%f", area.POI.BudgetMeters),
			fmt.Sprintf("%d", area.SourceNodeID),
			fmt.Sprintf("%d", area.NodesNum),
			fmt.Sprintf("%d", area.FullEdgesNum),
			fmt.Sprintf("%d", area.BoundaryEdgesNum),
			fmt.Sprintf("%f", area.CoveredMeters),
			errText,
		})
		if err != nil {
			return errors.Wrap(err, "Can't write service area")
		}
	}
	return nil
}
