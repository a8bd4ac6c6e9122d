package timetable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"rail-planner/models"
)

// Row mirrors one line of the rail network CSV.
type Row struct {
	RouteID          string `csv:"Route ID"`
	DepartureCity    string `csv:"Departure City"`
	ArrivalCity      string `csv:"Arrival City"`
	DepartureTime    string `csv:"Departure Time"`
	ArrivalTime      string `csv:"Arrival Time"`
	DaysOfOperation  string `csv:"Days of Operation"`
	TrainType        string `csv:"Train Type"`
	FirstClassPrice  string `csv:"First Class ticket rate (in euro)"`
	SecondClassPrice string `csv:"Second Class ticket rate (in euro)"`
}

// RowError describes a row that was left out of the timetable.
type RowError struct {
	Line    int
	RouteID string
	Err     error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d (route %q): %v", e.Line, e.RouteID, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Report summarises a load.
type Report struct {
	Rows    int
	Skipped []*RowError
}

// Loaded is the number of rows turned into connections.
func (r Report) Loaded() int {
	return r.Rows - len(r.Skipped)
}

// Loader reads timetables. Rows that cannot be parsed are logged and skipped.
type Loader struct {
	logger *zap.SugaredLogger
}

func NewLoader(logger *zap.SugaredLogger) *Loader {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Loader{logger: logger}
}

// LoadFile reads the CSV timetable at path.
func (l *Loader) LoadFile(path string) ([]models.Connection, Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("failed to open timetable: %w", err)
	}
	defer file.Close()

	connections, report, err := l.Load(file)
	if err != nil {
		return nil, report, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return connections, report, nil
}

// Load reads a CSV timetable. Only a file that cannot be read as CSV at all
// is an error.
func (l *Loader) Load(in io.Reader) ([]models.Connection, Report, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []Row
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, Report{}, fmt.Errorf("failed to parse csv: %w", err)
	}

	report := Report{Rows: len(rows)}
	connections := make([]models.Connection, 0, len(rows))
	seen := make(map[string]int, len(rows))

	for i, row := range rows {
		line := i + 2

		c, err := row.Connection()
		if err == nil {
			if first, dup := seen[c.RouteID]; dup {
				err = fmt.Errorf("route id already used on line %d", first)
			}
		}
		if err != nil {
			rowErr := &RowError{Line: line, RouteID: row.RouteID, Err: err}
			report.Skipped = append(report.Skipped, rowErr)
			l.logger.Warnw("skipping timetable row", "line", line, "route_id", row.RouteID, "error", err)
			continue
		}

		seen[c.RouteID] = line
		connections = append(connections, c)
	}

	l.logger.Infow("timetable loaded", "rows", report.Rows, "connections", len(connections), "skipped", len(report.Skipped))
	return connections, report, nil
}

// Connection converts the row into a connection.
func (r Row) Connection() (models.Connection, error) {
	routeID := strings.TrimSpace(r.RouteID)
	if routeID == "" {
		return models.Connection{}, fmt.Errorf("missing route id")
	}

	from, err := models.ParseCity(r.DepartureCity)
	if err != nil {
		return models.Connection{}, err
	}
	to, err := models.ParseCity(r.ArrivalCity)
	if err != nil {
		return models.Connection{}, err
	}

	departure, err := ParseDeparture(r.DepartureTime)
	if err != nil {
		return models.Connection{}, err
	}
	arrival, err := ParseArrival(r.ArrivalTime, departure)
	if err != nil {
		return models.Connection{}, err
	}
	if arrival.Before(departure) {
		return models.Connection{}, fmt.Errorf("arrival %q before departure %q", r.ArrivalTime, r.DepartureTime)
	}

	days, err := ParseDays(r.DaysOfOperation)
	if err != nil {
		return models.Connection{}, err
	}

	trainType, err := models.ParseTrainType(r.TrainType)
	if err != nil {
		return models.Connection{}, err
	}

	first, err := ParsePrice(r.FirstClassPrice)
	if err != nil {
		return models.Connection{}, err
	}
	second, err := ParsePrice(r.SecondClassPrice)
	if err != nil {
		return models.Connection{}, err
	}

	return models.NewConnection(routeID, from, to, departure, arrival, trainType, days, first, second), nil
}
