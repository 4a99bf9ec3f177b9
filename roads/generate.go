package roads

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"

	"limitd.dev/limitd/gpkg"
	m "limitd.dev/limitd/math"
)

type GenerateSettings struct {
	InputFile  string
	OutputFile string
	MinLat     float64
	MinLon     float64
	MaxLat     float64
	MaxLon     float64
}

var DEFAULT_GENERATE_SETTINGS = GenerateSettings{
	InputFile:  "./map.osm.pbf",
	OutputFile: "./roads.gpkg",
	MinLat:     -90,
	MinLon:     -180,
	MaxLat:     90,
	MaxLon:     180,
}

// Highway classes a car can drive on. Everything else in the pbf is noise
// for speed limit purposes and gets dropped during the way scan.
var drivableHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"service":        true,
	"living_street":  true,
}

// Tags worth carrying into the container beyond the class itself.
var carriedTags = []string{
	"maxspeed",
	"maxspeed:forward",
	"maxspeed:backward",
	"maxspeed:advisory",
	"name",
	"ref",
	"oneway",
	"lanes",
}

// Generate builds a road container from an OSM pbf extract. The pbf stores
// way geometry as node references, so the file is scanned twice: once to
// collect node coordinates, once to assemble drivable ways.
func Generate(s GenerateSettings) error {
	slog.Info("generating road container", "input", s.InputFile, "output", s.OutputFile)

	nodes, err := scanNodes(s)
	if err != nil {
		return err
	}
	slog.Info("scanned nodes", "count", len(nodes))

	writer, err := gpkg.Create(s.OutputFile)
	if err != nil {
		return err
	}
	defer writer.Close()

	count, err := scanWays(s, nodes, writer)
	if err != nil {
		return err
	}

	slog.Info("done generating road container", "ways", count)
	return nil
}

func scanNodes(s GenerateSettings) (map[osm.NodeID]m.Coordinate, error) {
	file, err := os.Open(s.InputFile)
	if err != nil {
		return nil, errors.Wrap(err, "could not open map pbf file")
	}
	defer file.Close()

	scanner := osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	scanner.SkipWays = true
	scanner.SkipRelations = true
	defer scanner.Close()

	nodes := map[osm.NodeID]m.Coordinate{}
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		nodes[node.ID] = m.Coordinate{X: node.Lon, Y: node.Lat}
	}
	return nodes, errors.Wrap(scanner.Err(), "could not scan map pbf nodes")
}

func scanWays(s GenerateSettings, nodes map[osm.NodeID]m.Coordinate, writer *gpkg.Writer) (int, error) {
	file, err := os.Open(s.InputFile)
	if err != nil {
		return 0, errors.Wrap(err, "could not open map pbf file")
	}
	defer file.Close()

	scanner := osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	defer scanner.Close()

	count := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || len(way.Nodes) < 2 {
			continue
		}

		tags := way.TagMap()
		if !drivableHighways[tags["highway"]] {
			continue
		}

		line := make(m.Polyline, 0, len(way.Nodes))
		inBounds := false
		for _, n := range way.Nodes {
			coord, found := nodes[n.ID]
			if !found {
				continue
			}
			line = append(line, coord)
			if coord.Y >= s.MinLat && coord.Y <= s.MaxLat && coord.X >= s.MinLon && coord.X <= s.MaxLon {
				inBounds = true
			}
		}
		if len(line) < 2 || !inBounds {
			continue
		}

		kept := map[string]string{"highway": tags["highway"]}
		for _, key := range carriedTags {
			if value := tags[key]; value != "" {
				kept[key] = value
			}
		}

		_, err := writer.AddRoad(line, kept)
		if err != nil {
			return count, errors.Wrap(err, "could not write road to container")
		}
		count++
	}
	return count, errors.Wrap(scanner.Err(), "could not scan map pbf ways")
}
