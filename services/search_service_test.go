package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rail-planner/cache"
	"rail-planner/models"
	"rail-planner/network"
)

type failingCache struct{}

func (failingCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func TestSearchServiceFindTripsSorted(t *testing.T) {
	svc := NewSearchService(testGraph(t), nil, time.Minute, nil)

	options := svc.FindTrips(context.Background(), models.Berlin, models.Lyon, models.Monday, network.SortByDuration)
	require.Len(t, options, 2)
	assert.Equal(t, []string{"R1", "R2"}, options[0].RouteIDs())
	assert.Equal(t, []string{"R3"}, options[1].RouteIDs())

	options = svc.FindTrips(context.Background(), models.Berlin, models.Lyon, models.Monday, network.SortByDeparture)
	assert.Equal(t, []string{"R3"}, options[0].RouteIDs())
}

func TestSearchServiceUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCache, err := cache.NewRedisCache(mr.Addr(), "", 0, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer redisCache.Close()

	g := testGraph(t)
	svc := NewSearchService(g, redisCache, time.Minute, nil)
	ctx := context.Background()

	first := svc.FindTrips(ctx, models.Berlin, models.Lyon, models.Wednesday, network.SortByDuration)
	require.Len(t, first, 2)

	key := "rail:" + cache.KeySearch(g.Version(), models.Berlin, models.Lyon, models.Wednesday)
	require.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	second := svc.FindTrips(ctx, models.Berlin, models.Lyon, models.Wednesday, network.SortByDuration)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].RouteIDs(), second[0].RouteIDs())
	assert.Same(t, first[0].Legs[0], second[0].Legs[0], "cached results point into the graph")

	require.NoError(t, mr.Set(key, `[["R1","R3"]]`))
	third := svc.FindTrips(ctx, models.Berlin, models.Lyon, models.Wednesday, network.SortByDuration)
	assert.Len(t, third, 2, "entries that no longer resolve are recomputed")
}

func TestSearchServiceSurvivesCacheFailure(t *testing.T) {
	svc := NewSearchService(testGraph(t), failingCache{}, time.Minute, nil)

	options := svc.FindTrips(context.Background(), models.Berlin, models.Lyon, models.Monday, network.SortByDuration)
	assert.Len(t, options, 2)
}

func TestSearchServiceFindTripsWeek(t *testing.T) {
	g, err := network.BuildGraph([]models.Connection{
		models.NewConnection("R1", models.Berlin, models.Paris, models.ClockTime(10, 0, 0), models.ClockTime(12, 0, 0), models.TrainICE, models.NewDaySet(models.Monday, models.Friday), 100, 60),
		models.NewConnection("R2", models.Berlin, models.Paris, models.ClockTime(14, 0, 0), models.ClockTime(16, 0, 0), models.TrainICE, models.NewDaySet(models.Friday), 100, 60),
	})
	require.NoError(t, err)
	svc := NewSearchService(g, nil, time.Minute, nil)

	week := svc.FindTripsWeek(context.Background(), models.Berlin, models.Paris, network.SortByDeparture)
	require.Len(t, week, 7)
	assert.Len(t, week[models.Monday], 1)
	assert.Len(t, week[models.Friday], 2)
	assert.Empty(t, week[models.Sunday])
	assert.Equal(t, []string{"R1"}, week[models.Friday][0].RouteIDs())
}

func TestSearchServiceCities(t *testing.T) {
	svc := NewSearchService(testGraph(t), nil, time.Minute, nil)

	cities := svc.Cities()
	require.Len(t, cities, 3)
	assert.Equal(t, models.CityResponse{Name: models.Berlin, Departures: 2}, cities[0])
	assert.Equal(t, models.CityResponse{Name: models.Lyon, Departures: 0}, cities[1])
	assert.Equal(t, models.CityResponse{Name: models.Paris, Departures: 1}, cities[2])
}

func TestSearchServiceResolveOption(t *testing.T) {
	svc := NewSearchService(testGraph(t), nil, time.Minute, nil)

	o, err := svc.ResolveOption([]string{"R1", "R2"}, models.Monday)
	require.NoError(t, err)
	assert.Equal(t, 2, o.NumConnections)

	_, err = svc.ResolveOption([]string{"R2", "R1"}, models.Monday)
	var invalid *network.InvalidItineraryError
	assert.ErrorAs(t, err, &invalid)
}
