package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail-planner/models"
	"rail-planner/network"
	"rail-planner/services"
	"rail-planner/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	g, err := network.BuildGraph([]models.Connection{
		models.NewConnection("R1", models.Berlin, models.Paris, models.ClockTime(10, 0, 0), models.ClockTime(12, 0, 0), models.TrainICE, models.EveryDay, 100, 60),
		models.NewConnection("R2", models.Paris, models.Lyon, models.ClockTime(13, 0, 0), models.ClockTime(15, 0, 0), models.TrainTGV, models.EveryDay, 50, 30),
		models.NewConnection("R3", models.Berlin, models.Lyon, models.ClockTime(7, 0, 0), models.ClockTime(14, 0, 0), models.TrainICE, models.NewDaySet(models.Monday), 170, 95),
	})
	require.NoError(t, err)

	h := NewHandler(
		services.NewSearchService(g, nil, time.Minute, nil),
		services.NewBookingService(store.NewMemoryStore(), nil, nil),
		nil,
	)

	router := gin.New()
	router.GET("/health", h.Health)
	h.Register(router.Group("/api"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func bookingBody(day string, routeIDs []string, travellers ...models.Traveller) gin.H {
	return gin.H{"route_ids": routeIDs, "day": day, "travellers": travellers}
}

var curie = models.Traveller{ClientID: "P1", FirstName: "Marie", LastName: "Curie", Age: 66}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, 3.0, body["connections"])
}

func TestGetCities(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/cities", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cities []models.CityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cities))
	assert.Len(t, cities, 3)
	assert.Equal(t, models.Berlin, cities[0].Name)
}

func TestSearchTrips(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/search", gin.H{"origin": "berlin", "destination": "Lyon", "day": "Mon"})
	require.Equal(t, http.StatusOK, w.Code)

	var results []models.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, []string{"R1", "R2"}, results[0].RouteIDs)
	assert.Equal(t, "4h 0m", results[0].Duration)
	assert.Equal(t, 240, results[0].DurationMinutes)
	assert.Equal(t, "Berlin -> Paris -> Lyon", results[0].Path)
	assert.Len(t, results[0].Legs, 2)

	w = doJSON(t, router, http.MethodPost, "/api/search", gin.H{"origin": "Berlin", "destination": "Lyon", "date": "2026-10-20"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	assert.Len(t, results, 1, "R3 does not run on Tuesdays")
}

func TestSearchTripsBadRequests(t *testing.T) {
	router := newTestRouter(t)

	bodies := []gin.H{
		{"origin": "Berlin", "day": "Mon"},
		{"origin": "Gotham", "destination": "Lyon", "day": "Mon"},
		{"origin": "Berlin", "destination": "Lyon"},
		{"origin": "Berlin", "destination": "Lyon", "date": "20/10/2026"},
		{"origin": "Berlin", "destination": "Lyon", "day": "Mon", "sort": "fastest"},
	}
	for _, body := range bodies {
		w := doJSON(t, router, http.MethodPost, "/api/search", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
	}
}

func TestSearchWeek(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/search/week?origin=Berlin&destination=Lyon&sort=departure", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var week []models.DaySearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &week))
	require.Len(t, week, 7)
	assert.Equal(t, models.Sunday, week[0].Day)
	assert.Len(t, week[0].Options, 1)
	assert.Equal(t, models.Monday, week[1].Day)
	require.Len(t, week[1].Options, 2)
	assert.Equal(t, []string{"R3"}, week[1].Options[0].RouteIDs)
}

func TestCreateBookingAndViewTrips(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/bookings", bookingBody("Monday", []string{"R1", "R2"}, curie))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var booked models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booked))
	assert.True(t, booked.Success)
	require.NotNil(t, booked.Trip)
	assert.Equal(t, models.Monday, booked.Trip.DayOfWeek)
	require.Len(t, booked.Trip.Tickets, 1)
	assert.Equal(t, 240.0, booked.Trip.Tickets[0].Price)
	assert.Equal(t, "10:00", booked.Trip.Tickets[0].DepartureTime)

	w = doJSON(t, router, http.MethodGet, "/api/clients/P1/trips?last_name=curie", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var trips []models.TripResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trips))
	require.Len(t, trips, 1)
	assert.Equal(t, booked.Trip.ID, trips[0].ID)

	w = doJSON(t, router, http.MethodGet, "/api/clients/P1/trips?last_name=Bohr", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/clients/P404/trips?last_name=Curie", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/clients/P1/trips", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingConflicts(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/bookings", bookingBody("Monday", []string{"R1"}, curie))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/bookings", bookingBody("Monday", []string{"R1", "R2"}, curie))
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "R1")

	w = doJSON(t, router, http.MethodPost, "/api/bookings", bookingBody("Tuesday", []string{"R1", "R2"}, curie))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/bookings", bookingBody("Wednesday", []string{"R1"}, curie, curie))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateBookingBadRequests(t *testing.T) {
	router := newTestRouter(t)

	bodies := []gin.H{
		bookingBody("Monday", []string{"R1"}),
		bookingBody("Monday", nil, curie),
		bookingBody("Monday", []string{"R2", "R1"}, curie),
		bookingBody("Tuesday", []string{"R3"}, curie),
		bookingBody("Someday", []string{"R1"}, curie),
		bookingBody("Monday", []string{"R1"}, models.Traveller{ClientID: "P2", FirstName: "A", LastName: "B"}),
		{"route_ids": []string{"R1"}, "day": "Monday", "fare_class": "business", "travellers": []models.Traveller{curie}},
	}
	for _, body := range bodies {
		w := doJSON(t, router, http.MethodPost, "/api/bookings", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
	}
}
