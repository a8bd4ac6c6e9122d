package main

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"rail-planner/logging"
	"rail-planner/models"
	"rail-planner/network"
	"rail-planner/timetable"
)

func loadGraph(path string, logger *zap.SugaredLogger) (*network.Graph, error) {
	connections, report, err := timetable.NewLoader(logger).LoadFile(path)
	if err != nil {
		return nil, err
	}

	graph, err := network.BuildGraph(connections)
	if err != nil {
		return nil, fmt.Errorf("failed to build network: %w", err)
	}

	logger.Infow("Network ready",
		"connections", graph.Len(),
		"cities", len(graph.Cities()),
		"skipped_rows", len(report.Skipped),
		"version", graph.Version(),
	)
	return graph, nil
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "print every journey between two cities on a day",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "departure city", Required: true},
			&cli.StringFlag{Name: "to", Usage: "arrival city", Required: true},
			&cli.StringFlag{Name: "day", Usage: "day of week, e.g. Mon or Monday"},
			&cli.StringFlag{Name: "date", Usage: "travel date as YYYY-MM-DD"},
			&cli.StringFlag{Name: "sort", Value: string(network.SortByDuration), Usage: "duration, departure, arrival, price or price_first"},
		},
		Action: func(c *cli.Context) error {
			origin, err := models.ParseCity(c.String("from"))
			if err != nil {
				return err
			}
			destination, err := models.ParseCity(c.String("to"))
			if err != nil {
				return err
			}
			day, err := dayFromFlags(c.String("day"), c.String("date"))
			if err != nil {
				return err
			}
			key, err := network.ParseSortKey(c.String("sort"))
			if err != nil {
				return err
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			graph, err := loadGraph(cfg.TimetablePath, logging.GetLogger())
			if err != nil {
				return err
			}

			options := graph.FindTrips(origin, destination, day)
			network.SortOptions(options, key)
			printOptions(c.App.Writer, origin, destination, day, options)
			return nil
		},
	}
}

func citiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "cities",
		Usage: "list the cities in the timetable",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			graph, err := loadGraph(cfg.TimetablePath, logging.GetLogger())
			if err != nil {
				return err
			}
			for _, city := range graph.Cities() {
				fmt.Fprintln(c.App.Writer, city)
			}
			return nil
		},
	}
}

func dayFromFlags(day, date string) (models.DayOfWeek, error) {
	switch {
	case day != "":
		return models.ParseDay(day)
	case date != "":
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return 0, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}
		return models.DayFromDate(t), nil
	default:
		return 0, fmt.Errorf("one of --day or --date is required")
	}
}

func printOptions(w io.Writer, origin, destination models.City, day models.DayOfWeek, options []models.TripOption) {
	if len(options) == 0 {
		fmt.Fprintf(w, "No trips from %s to %s on %s.\n", origin, destination, day)
		return
	}

	fmt.Fprintf(w, "%d trip(s) from %s to %s on %s:\n\n", len(options), origin, destination, day)
	for i, o := range options {
		fmt.Fprintf(w, "%2d. %s\n", i+1, o)
		for _, leg := range o.Legs {
			fmt.Fprintf(w, "      %s  %s\n", leg, leg.TrainType)
		}
		if !o.IsDirect {
			fmt.Fprintf(w, "      transfers: %s\n", models.FormatDuration(o.TransferTime()))
		}
	}
}
