package cli

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"limitd.dev/limitd/params"
	"limitd.dev/limitd/roads"
	ms "limitd.dev/limitd/settings"
)

func Handle() {
	shouldExit := true
	cmd := &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Overrides the directory limitd keeps its containers and params in",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if dir := cmd.String("data-dir"); dir != "" {
				params.SetDataPath(dir)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Inspect and configure a running limitd instance",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					interactive()
					return nil
				},
			},
			{
				Name:    "resolve",
				Aliases: []string{"r"},
				Usage:   "Resolve the speed limit at a single position and exit",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:     "lat",
						Usage:    "Latitude of the position in degrees",
						Required: true,
					},
					&cli.Float64Flag{
						Name:     "lon",
						Usage:    "Longitude of the position in degrees",
						Required: true,
					},
					&cli.Float64Flag{
						Name:  "bearing",
						Usage: "Travel bearing in degrees, enables the look ahead query",
						Value: -1,
					},
					&cli.StringFlag{
						Name:    "container",
						Aliases: []string{"c"},
						Usage:   "Resolve against an explicit container file instead of the data directory",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the result as JSON",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return resolveOnce(cmd)
				},
			},
			{
				Name:  "inspect",
				Usage: "Show the road table discovered in a container",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "container",
						Aliases: []string{"c"},
						Usage:   "Inspect an explicit container file instead of the data directory",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return inspect(cmd)
				},
			},
			{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "Generate a road container from an open street maps pbf file",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Category: "Bounds",
						Name:     "minlat",
						Usage:    "Sets the minimum latitude in degrees of roads to keep",
						Value:    -90,
					},
					&cli.Float64Flag{
						Category: "Bounds",
						Name:     "minlon",
						Usage:    "Sets the minimum longitude in degrees of roads to keep",
						Value:    -180,
					},
					&cli.Float64Flag{
						Category: "Bounds",
						Name:     "maxlat",
						Usage:    "Sets the maximum latitude in degrees of roads to keep",
						Value:    90,
					},
					&cli.Float64Flag{
						Category: "Bounds",
						Name:     "maxlon",
						Usage:    "Sets the maximum longitude in degrees of roads to keep",
						Value:    180,
					},
					&cli.StringFlag{
						Category: "Inputs and Outputs",
						Name:     "input-file",
						Usage:    "The open street maps pbf file to read roads from",
						Aliases: []string{
							"i",
						},
						Value: "./map.osm.pbf",
					},
					&cli.StringFlag{
						Category: "Inputs and Outputs",
						Name:     "output-file",
						Usage:    "The container file to write",
						Aliases: []string{
							"o",
						},
						Value: "./" + ms.CONTAINER_NAME,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return roads.Generate(roads.GenerateSettings{
						InputFile:  cmd.String("input-file"),
						OutputFile: cmd.String("output-file"),
						MinLat:     cmd.Float64("minlat"),
						MinLon:     cmd.Float64("minlon"),
						MaxLat:     cmd.Float64("maxlat"),
						MaxLon:     cmd.Float64("maxlon"),
					})
				},
			},
			{
				Name:  "settings",
				Usage: "Apply a settings preset or edit settings interactively",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					settingsPreset()
					return nil
				},
			},
			{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Watch the live output of a running limitd instance",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					watch()
					return nil
				},
			},
		},
		Name:  "Limitd",
		Usage: "Start an instance of limitd",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			shouldExit = false
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}

	if shouldExit {
		os.Exit(0)
	}
}
