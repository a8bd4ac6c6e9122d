package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"rail-planner/logging"
)

func main() {
	logging.InitLogger(os.Getenv("LOG_LEVEL"))
	defer logging.SyncLogger()
	logger := logging.GetLogger()

	app := &cli.App{
		Name:  "rail-planner",
		Usage: "Search and book journeys on a timetabled European rail network",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "timetable",
				Usage:   "path to the timetable CSV",
				EnvVars: []string{"TIMETABLE_PATH"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
			citiesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorw("rail-planner failed", "error", err)
		logging.SyncLogger()
		os.Exit(1)
	}
}
