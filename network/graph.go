package network

import (
	"encoding/binary"
	"math"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"rail-planner/models"
)

// Station holds the outgoing connections of one city, indexed by operating
// day and then by arrival city.
type Station struct {
	City     models.City
	outgoing map[models.DayOfWeek]*departures
}

type departures struct {
	// destination order follows first insertion so enumeration is stable
	order         []models.City
	byDestination map[models.City][]*models.Connection
}

func newStation(city models.City) *Station {
	return &Station{
		City:     city,
		outgoing: make(map[models.DayOfWeek]*departures),
	}
}

func (s *Station) add(c *models.Connection) {
	for _, day := range c.DaysOfOperation.Days() {
		d, ok := s.outgoing[day]
		if !ok {
			d = &departures{byDestination: make(map[models.City][]*models.Connection)}
			s.outgoing[day] = d
		}
		if _, seen := d.byDestination[c.ArrivalCity]; !seen {
			d.order = append(d.order, c.ArrivalCity)
		}
		d.byDestination[c.ArrivalCity] = append(d.byDestination[c.ArrivalCity], c)
	}
}

// Destinations lists the cities reachable directly from this station on day.
func (s *Station) Destinations(day models.DayOfWeek) []models.City {
	d, ok := s.outgoing[day]
	if !ok {
		return nil
	}
	out := make([]models.City, len(d.order))
	copy(out, d.order)
	return out
}

// ConnectionsTo returns the connections to city on day, in timetable order.
func (s *Station) ConnectionsTo(day models.DayOfWeek, city models.City) []*models.Connection {
	d, ok := s.outgoing[day]
	if !ok {
		return nil
	}
	legs := d.byDestination[city]
	out := make([]*models.Connection, len(legs))
	copy(out, legs)
	return out
}

// DepartureCount is the number of distinct connections leaving this station.
func (s *Station) DepartureCount() int {
	seen := make(map[string]struct{})
	for _, d := range s.outgoing {
		for _, legs := range d.byDestination {
			for _, c := range legs {
				seen[c.RouteID] = struct{}{}
			}
		}
	}
	return len(seen)
}

// Graph is the read-only station network searched by FindTrips. It is safe
// for concurrent use once BuildGraph has returned.
type Graph struct {
	stations map[models.City]*Station
	byRoute  map[string]*models.Connection
	cities   []models.City
	version  string
}

// BuildGraph validates the connections and indexes them by departure city,
// day and arrival city. The graph keeps its own copy of every connection.
func BuildGraph(connections []models.Connection) (*Graph, error) {
	g := &Graph{
		stations: make(map[models.City]*Station),
		byRoute:  make(map[string]*models.Connection, len(connections)),
	}

	seenCities := make(map[models.City]struct{})
	hash := xxhash.New()

	for i := range connections {
		c := connections[i]
		if err := validate(&c); err != nil {
			return nil, err
		}
		if _, dup := g.byRoute[c.RouteID]; dup {
			return nil, &MalformedTimetableError{RouteID: c.RouteID, Reason: "duplicate route id"}
		}

		stored := &c
		g.byRoute[c.RouteID] = stored

		station, ok := g.stations[c.DepartureCity]
		if !ok {
			station = newStation(c.DepartureCity)
			g.stations[c.DepartureCity] = station
		}
		station.add(stored)

		seenCities[c.DepartureCity] = struct{}{}
		seenCities[c.ArrivalCity] = struct{}{}

		writeFingerprint(hash, stored)
	}

	g.cities = make([]models.City, 0, len(seenCities))
	for city := range seenCities {
		g.cities = append(g.cities, city)
	}
	sort.Slice(g.cities, func(i, j int) bool { return g.cities[i] < g.cities[j] })
	g.version = strconv.FormatUint(hash.Sum64(), 16)

	return g, nil
}

func validate(c *models.Connection) error {
	switch {
	case c.RouteID == "":
		return &MalformedTimetableError{Reason: "missing route id"}
	case !c.DepartureCity.IsValid():
		return &MalformedTimetableError{RouteID: c.RouteID, Reason: "unknown departure city " + strconv.Quote(string(c.DepartureCity))}
	case !c.ArrivalCity.IsValid():
		return &MalformedTimetableError{RouteID: c.RouteID, Reason: "unknown arrival city " + strconv.Quote(string(c.ArrivalCity))}
	case c.DaysOfOperation&models.EveryDay == 0:
		return &MalformedTimetableError{RouteID: c.RouteID, Reason: "no days of operation"}
	case c.DaysOfOperation&^models.EveryDay != 0:
		return &MalformedTimetableError{RouteID: c.RouteID, Reason: "unknown day of operation"}
	case c.ArrivalTime.Before(c.DepartureTime):
		return &MalformedTimetableError{RouteID: c.RouteID, Reason: "arrival before departure"}
	case c.FirstClassPrice < 0 || c.SecondClassPrice < 0:
		return &MalformedTimetableError{RouteID: c.RouteID, Reason: "negative price"}
	}
	c.Duration = c.ArrivalTime.Sub(c.DepartureTime)
	return nil
}

func writeFingerprint(h *xxhash.Digest, c *models.Connection) {
	var buf [8]byte
	_, _ = h.WriteString(c.RouteID)
	_, _ = h.WriteString(string(c.DepartureCity))
	_, _ = h.WriteString(string(c.ArrivalCity))
	binary.LittleEndian.PutUint64(buf[:], uint64(c.DepartureTime.Unix()))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(c.ArrivalTime.Unix()))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(c.DaysOfOperation))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c.FirstClassPrice))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c.SecondClassPrice))
	_, _ = h.Write(buf[:])
}

// Lookup returns the station for city. Cities without outgoing connections
// have no station; callers treat that as "no departures", not as an error.
func (g *Graph) Lookup(city models.City) (*Station, bool) {
	s, ok := g.stations[city]
	return s, ok
}

// Connection finds a connection by its route id.
func (g *Graph) Connection(routeID string) (*models.Connection, bool) {
	c, ok := g.byRoute[routeID]
	return c, ok
}

// Cities lists every city that appears in the timetable, sorted by name.
func (g *Graph) Cities() []models.City {
	out := make([]models.City, len(g.cities))
	copy(out, g.cities)
	return out
}

// Len is the number of connections in the graph.
func (g *Graph) Len() int {
	return len(g.byRoute)
}

// Version fingerprints the timetable the graph was built from.
func (g *Graph) Version() string {
	return g.version
}
