package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rail-planner/models"
	"rail-planner/network"
	"rail-planner/services"
)

// Handler serves the HTTP API on top of the search and booking services.
type Handler struct {
	search   *services.SearchService
	bookings *services.BookingService
	logger   *zap.SugaredLogger
}

func NewHandler(search *services.SearchService, bookings *services.BookingService, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{search: search, bookings: bookings, logger: logger}
}

// Register mounts the API routes on group.
func (h *Handler) Register(api *gin.RouterGroup) {
	// City routes
	api.GET("/cities", h.GetCities)

	// Search routes
	api.POST("/search", h.SearchTrips)
	api.GET("/search/week", h.SearchWeek)

	// Booking routes
	api.POST("/bookings", h.CreateBooking)
	api.GET("/clients/:id/trips", h.GetClientTrips)
}

// Health reports the service status and the loaded timetable.
func (h *Handler) Health(c *gin.Context) {
	graph := h.search.Graph()
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"time":        time.Now().Format(time.RFC3339),
		"connections": graph.Len(),
		"timetable":   graph.Version(),
	})
}

// resolveDay reads the travel day from either a day label or a YYYY-MM-DD date.
func resolveDay(day, date string) (models.DayOfWeek, error) {
	if strings.TrimSpace(day) != "" {
		return models.ParseDay(day)
	}
	if strings.TrimSpace(date) != "" {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(date))
		if err != nil {
			return 0, fmt.Errorf("invalid date format %q, expected YYYY-MM-DD", date)
		}
		return models.DayFromDate(t), nil
	}
	return 0, errors.New("either day or date is required")
}

// statusFor maps a service error to the HTTP status returned to the client.
func statusFor(err error) int {
	var (
		invalidBooking   *services.InvalidBookingError
		invalidItinerary *network.InvalidItineraryError
		unknownLabel     *models.UnknownLabelError
		unknownClient    *services.UnknownClientError
		nameMismatch     *services.NameMismatchError
		duplicate        *services.DuplicateTravellerError
		conflict         *services.ConflictingReservationError
	)

	switch {
	case errors.As(err, &invalidBooking), errors.As(err, &invalidItinerary), errors.As(err, &unknownLabel):
		return http.StatusBadRequest
	case errors.As(err, &unknownClient):
		return http.StatusNotFound
	case errors.As(err, &nameMismatch):
		return http.StatusForbidden
	case errors.As(err, &duplicate), errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
