package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockdash/internal/config"
	"github.com/andresuchdata/stockdash/pkg/logger"
)

func countryFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "country",
		Aliases:  []string{"c"},
		Usage:    "Country code or name (GT, SV, HN, CR, PA)",
		Required: true,
	}
}

func fileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "POS stock export (semicolon CSV or XLSX)",
		Required: true,
	}
}

func categoryFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "category",
		Usage: "Restrict to one league category (MLB, NBA, NFL, MOTORSPORT, ENTERTAINMENT)",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stockdash",
		Usage: "Consolidate NEW ERA stock exports per country",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg := config.Load()
			level := cfg.Log.Level
			if c.IsSet("log-level") {
				level = c.String("log-level")
			}
			logger.Configure(level, cfg.Log.Format)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "consolidate",
				Usage: "Print the consolidated table, alerts and summary of one export",
				Flags: []cli.Flag{
					countryFlag(),
					fileFlag(),
					categoryFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full result as JSON",
					},
				},
				Action: runConsolidate,
			},
			{
				Name:  "export",
				Usage: "Render one export as an XLSX workbook",
				Flags: []cli.Flag{
					countryFlag(),
					fileFlag(),
					categoryFlag(),
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output workbook path (defaults to consolidado_<CODE>.xlsx)",
					},
				},
				Action: runExport,
			},
			{
				Name:  "batch",
				Usage: "Consolidate every country export in a directory concurrently",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Usage:   "Directory holding <COUNTRY>*.csv exports",
						Value:   "./data/uploads",
						EnvVars: []string{"APP_UPLOAD_DIR"},
					},
					&cli.StringFlag{
						Name:    "drive-folder",
						Usage:   "Google Drive folder ID to download exports from first",
						EnvVars: []string{"GOOGLE_DRIVE_FOLDER_ID"},
					},
					&cli.StringFlag{
						Name:    "out",
						Usage:   "Directory for generated workbooks and CSVs",
						Value:   "./data/output",
						EnvVars: []string{"APP_DATA_DIR"},
					},
					categoryFlag(),
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Number of countries consolidated concurrently",
						Value:   5,
						EnvVars: []string{"APP_BATCH_WORKERS"},
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Also write the consolidated view as CSV",
					},
				},
				Action: runBatch,
			},
			{
				Name:   "catalog",
				Usage:  "List countries, stores and capacities",
				Action: runCatalog,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Error().Err(err).Msg("stockdash failed")
		os.Exit(1)
	}
}
