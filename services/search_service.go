package services

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"rail-planner/cache"
	"rail-planner/models"
	"rail-planner/network"
)

// SearchCache stores search results as lists of route ids.
type SearchCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// SearchService answers journey queries against the station graph, with an
// optional cache in front of it.
type SearchService struct {
	graph  *network.Graph
	cache  SearchCache
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewSearchService creates a search service. searchCache may be nil.
func NewSearchService(graph *network.Graph, searchCache SearchCache, ttl time.Duration, logger *zap.SugaredLogger) *SearchService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SearchService{graph: graph, cache: searchCache, ttl: ttl, logger: logger}
}

func (s *SearchService) Graph() *network.Graph {
	return s.graph
}

// FindTrips returns every journey from origin to destination on day, ordered by key.
func (s *SearchService) FindTrips(ctx context.Context, origin, destination models.City, day models.DayOfWeek, key network.SortKey) []models.TripOption {
	start := time.Now()

	options, cached := s.fromCache(ctx, origin, destination, day)
	if !cached {
		options = s.graph.FindTrips(origin, destination, day)
		s.toCache(ctx, origin, destination, day, options)
	}

	network.SortOptions(options, key)

	s.logger.Debugw("search finished",
		"origin", origin,
		"destination", destination,
		"day", day.String(),
		"results", len(options),
		"cached", cached,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return options
}

type dayResult struct {
	day     models.DayOfWeek
	options []models.TripOption
}

// FindTripsWeek runs the search for all seven days at once.
func (s *SearchService) FindTripsWeek(ctx context.Context, origin, destination models.City, key network.SortKey) map[models.DayOfWeek][]models.TripOption {
	p := pool.NewWithResults[dayResult]()
	p.WithMaxGoroutines(7)

	for _, day := range models.AllDays() {
		p.Go(func() dayResult {
			return dayResult{day: day, options: s.FindTrips(ctx, origin, destination, day, key)}
		})
	}

	week := make(map[models.DayOfWeek][]models.TripOption, 7)
	for _, r := range p.Wait() {
		week[r.day] = r.options
	}
	return week
}

// ResolveOption rebuilds a previously returned option from its route ids.
func (s *SearchService) ResolveOption(routeIDs []string, day models.DayOfWeek) (models.TripOption, error) {
	return s.graph.ResolveItinerary(routeIDs, day)
}

// Cities lists the cities with how many connections leave each of them.
func (s *SearchService) Cities() []models.CityResponse {
	cities := s.graph.Cities()
	out := make([]models.CityResponse, 0, len(cities))
	for _, city := range cities {
		resp := models.CityResponse{Name: city}
		if station, ok := s.graph.Lookup(city); ok {
			resp.Departures = station.DepartureCount()
		}
		out = append(out, resp)
	}
	return out
}

func (s *SearchService) fromCache(ctx context.Context, origin, destination models.City, day models.DayOfWeek) ([]models.TripOption, bool) {
	if s.cache == nil {
		return nil, false
	}

	key := cache.KeySearch(s.graph.Version(), origin, destination, day)
	var routes [][]string
	found, err := s.cache.GetJSON(ctx, key, &routes)
	if err != nil {
		s.logger.Warnw("search cache unavailable", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	options := make([]models.TripOption, 0, len(routes))
	for _, ids := range routes {
		option, err := s.graph.ResolveItinerary(ids, day)
		if err != nil {
			s.logger.Warnw("discarding stale cache entry", "key", key, "error", err)
			return nil, false
		}
		options = append(options, option)
	}
	return options, true
}

func (s *SearchService) toCache(ctx context.Context, origin, destination models.City, day models.DayOfWeek, options []models.TripOption) {
	if s.cache == nil {
		return
	}

	routes := make([][]string, 0, len(options))
	for _, o := range options {
		routes = append(routes, o.RouteIDs())
	}

	key := cache.KeySearch(s.graph.Version(), origin, destination, day)
	if err := s.cache.SetJSON(ctx, key, routes, s.ttl); err != nil {
		s.logger.Warnw("failed to cache search", "key", key, "error", err)
	}
}
