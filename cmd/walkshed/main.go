package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/urbanlytics/walkshed"
)

var rootCmd = &cobra.Command{
	Use:   "walkshed",
	Short: "Pedestrian 15-minute city accessibility analysis",
	Long:  "Builds a walking street network from GeoJSON or OSM pbf geometry and computes bounded service areas around points of interest.",
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute service areas for a set of POIs",
	RunE:  runAnalyze,
}

func init() {
	flags := analyzeCmd.Flags()
	flags.String("geojson", "", "GeoJSON file with street-segment LineString features")
	flags.String("osm", "", "OSM pbf file with the street network (alternative to --geojson)")
	flags.StringArray("poi", nil, "POI as 'lon,lat[,budget_meters]'; repeatable")
	flags.Float64("walk-minutes", 15, "Walking time used for the default budget")
	flags.Float64("walk-speed", 5, "Walking speed in km/h used for the default budget")
	flags.Int("workers", 1, "Number of parallel workers for the POI batch")
	flags.String("out", "", "Prefix for CSV artifacts (network and per-POI summary)")
	flags.String("geojson-out", "", "File for the service-areas GeoJSON FeatureCollection")
	flags.String("shortcuts-out", "", "File for contraction-hierarchies shortcuts (enables contraction)")
	flags.String("log-level", "info", "Log level (debug/info/warn/error)")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("WALKSHED")
	viper.AutomaticEnv()

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	polylines, err := loadPolylines(logger)
	if err != nil {
		return err
	}

	st := time.Now()
	net, err := walkshed.NewNetwork(polylines)
	if err != nil {
		return fmt.Errorf("build network: %w", err)
	}
	logger.Info("network built",
		zap.Int("nodes", net.NodesNum()),
		zap.Int("edges", net.EdgesNum()),
		zap.Duration("elapsed", time.Since(st)))

	pois, err := parsePOIs(viper.GetStringSlice("poi"))
	if err != nil {
		return err
	}
	if len(pois) == 0 {
		return fmt.Errorf("no POIs given, use --poi 'lon,lat[,budget_meters]'")
	}

	index := walkshed.NewNearestNodeIndex(net)
	report := walkshed.CalcServiceAreas(net, index, pois,
		walkshed.WithWorkers(viper.GetInt("workers")),
		walkshed.WithLogger(logger),
	)

	logger.Info("batch done",
		zap.Int("pois", len(pois)),
		zap.Int("failed", report.FailedNum),
		zap.Int("union_nodes", len(report.UnionNodes)),
		zap.Float64("hull_area_sq_km", report.HullAreaSqMeters/1e6))

	if out := viper.GetString("out"); out != "" {
		if err := net.ExportToCSV(out + ".csv"); err != nil {
			return fmt.Errorf("export network: %w", err)
		}
		if err := walkshed.ExportServiceAreasToCSV(report, out+"_service_areas.csv"); err != nil {
			return fmt.Errorf("export service areas: %w", err)
		}
	}

	if geojsonOut := viper.GetString("geojson-out"); geojsonOut != "" {
		fc := walkshed.ServiceAreasToGeoJSON(net, report)
		data, err := json.Marshal(fc)
		if err != nil {
			return fmt.Errorf("marshal feature collection: %w", err)
		}
		if err := os.WriteFile(geojsonOut, data, 0o644); err != nil {
			return fmt.Errorf("write feature collection: %w", err)
		}
	}

	if shortcutsOut := viper.GetString("shortcuts-out"); shortcutsOut != "" {
		graph, err := walkshed.BuildContractionGraph(net)
		if err != nil {
			return fmt.Errorf("build contraction graph: %w", err)
		}
		logger.Info("starting contraction process")
		st := time.Now()
		graph.PrepareContractionHierarchies()
		logger.Info("contraction done", zap.Duration("elapsed", time.Since(st)))
		if err := graph.ExportShortcutsToFile(shortcutsOut); err != nil {
			return fmt.Errorf("export shortcuts: %w", err)
		}
	}
	return nil
}

func loadPolylines(logger *zap.Logger) ([]walkshed.Polyline, error) {
	geojsonFile := viper.GetString("geojson")
	osmFile := viper.GetString("osm")
	switch {
	case geojsonFile != "" && osmFile != "":
		return nil, fmt.Errorf("--geojson and --osm are mutually exclusive")
	case geojsonFile != "":
		logger.Info("loading GeoJSON network", zap.String("file", geojsonFile))
		return walkshed.PolylinesFromGeoJSONFile(geojsonFile)
	case osmFile != "":
		logger.Info("loading OSM network", zap.String("file", osmFile))
		return walkshed.PolylinesFromOSMFile(osmFile, walkshed.NewDefaultWalkConfiguration())
	default:
		return nil, fmt.Errorf("either --geojson or --osm is required")
	}
}

// parsePOIs parses 'lon,lat[,budget_meters]' triples. When the budget is
// omitted it falls back to walk-minutes * walk-speed.
func parsePOIs(raw []string) ([]walkshed.POI, error) {
	defaultBudget := walkshed.BudgetFromWalkTime(viper.GetFloat64("walk-minutes"), viper.GetFloat64("walk-speed"))
	pois := make([]walkshed.POI, 0, len(raw))
	for i, item := range raw {
		parts := strings.Split(item, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("bad POI %q: want 'lon,lat[,budget_meters]'", item)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad POI longitude %q: %w", parts[0], err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad POI latitude %q: %w", parts[1], err)
		}
		budget := defaultBudget
		if len(parts) == 3 {
			budget, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("bad POI budget %q: %w", parts[2], err)
			}
		}
		pois = append(pois, walkshed.POI{
			Name:         fmt.Sprintf("poi_%d", i),
			Geom:         walkshed.GeoPoint{Lon: lon, Lat: lat},
			BudgetMeters: budget,
		})
	}
	return pois, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
