package cli

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"limitd.dev/limitd/gpkg"
	m "limitd.dev/limitd/math"
	"limitd.dev/limitd/roads"
	ms "limitd.dev/limitd/settings"
)

func openResolver(cmd *cli.Command) *roads.Resolver {
	ms.Settings.Load()
	if path := cmd.String("container"); path != "" {
		return roads.NewResolverFromPath(path)
	}
	return roads.NewResolver()
}

func resolveOnce(cmd *cli.Command) error {
	resolver := openResolver(cmd)
	defer resolver.Close()
	if !resolver.Available() {
		return errors.New("could not open road container")
	}

	pos := m.NewPosition(cmd.Float64("lat"), cmd.Float64("lon"))
	result, distance, found := resolver.Resolve(pos)

	output := roads.Output{
		Latitude:        pos.Lat(),
		Longitude:       pos.Lon(),
		ContainerLoaded: true,
	}
	if found {
		output.SpeedLimit = result.SpeedLimit
		output.RawValue = result.RawValue
		output.RawUnit = result.RawUnit
		output.Distance = distance
	}

	if bearing := cmd.Float64("bearing"); bearing >= 0 && found {
		next, hasNext := roads.LookAhead(resolver, pos, bearing, result.SpeedLimit)
		if hasNext {
			output.NextSpeedLimit = next.SpeedLimit
			output.NextSpeedLimitDistance = next.Distance
		}
	}

	if cmd.Bool("json") {
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return errors.Wrap(err, "could not marshal resolve output")
		}
		fmt.Println(string(data))
		return nil
	}

	if !found {
		fmt.Println("no speed limit found")
		return nil
	}
	fmt.Printf("speed limit: %d km/h\n", output.SpeedLimit)
	fmt.Printf("distance: %.1f m\n", output.Distance)
	if output.RawValue > 0 {
		fmt.Printf("signed as: %d %s\n", output.RawValue, output.RawUnit)
	}
	if output.NextSpeedLimit > 0 {
		fmt.Printf("next speed limit: %d km/h in %.0f m\n", output.NextSpeedLimit, output.NextSpeedLimitDistance)
	}
	return nil
}

func inspect(cmd *cli.Command) error {
	ms.Settings.Load()

	var container *gpkg.Container
	var err error
	if path := cmd.String("container"); path != "" {
		container, err = gpkg.Open(path)
	} else {
		container, err = gpkg.OpenNamed(ms.CONTAINER_NAME)
	}
	if err != nil {
		return err
	}
	defer container.Close()

	schema, err := gpkg.DiscoverSchema(container)
	if err != nil {
		return err
	}

	fmt.Printf("container: %s\n", container.Path)
	fmt.Printf("table: %s\n", schema.Table)
	fmt.Printf("geometry column: %s\n", schema.GeomColumn)
	fmt.Printf("srs: %d\n", schema.SRSID)
	fmt.Printf("primary key: %s\n", schema.PKColumn)
	if schema.IndexTable != "" {
		fmt.Printf("spatial index: %s\n", schema.IndexTable)
	} else {
		fmt.Println("spatial index: none, falling back to table scans")
	}
	if schema.SpeedColumn != "" {
		fmt.Printf("speed column: %s\n", schema.SpeedColumn)
	}
	if schema.SpeedUnitColumn != "" {
		fmt.Printf("speed unit column: %s\n", schema.SpeedUnitColumn)
	}
	if schema.ClassColumn != "" {
		fmt.Printf("class column: %s\n", schema.ClassColumn)
	}
	if schema.TagsColumn != "" {
		fmt.Printf("tags column: %s\n", schema.TagsColumn)
	}

	var rows int64
	err = container.DB.QueryRow("SELECT COUNT(*) FROM " + schema.QuotedTable()).Scan(&rows)
	if err != nil {
		return errors.Wrap(err, "could not count feature rows")
	}
	fmt.Printf("features: %d\n", rows)
	return nil
}
