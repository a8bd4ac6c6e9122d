package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rail-planner/models"
)

// CreateBooking books an itinerary for a group of travellers
func (h *Handler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.BookingResponse{Success: false, Message: err.Error()})
		return
	}

	day, err := resolveDay(req.Day, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.BookingResponse{Success: false, Message: err.Error()})
		return
	}
	class, err := models.ParseFareClass(req.FareClass)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.BookingResponse{Success: false, Message: err.Error()})
		return
	}

	option, err := h.search.ResolveOption(req.RouteIDs, day)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.BookingResponse{Success: false, Message: err.Error()})
		return
	}

	trip, err := h.bookings.Book(c.Request.Context(), option, req.Travellers, day, class)
	if err != nil {
		status := statusFor(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			h.logger.Errorw("Error creating booking", "route_ids", req.RouteIDs, "error", err)
			message = "Failed to create booking"
		}
		c.JSON(status, models.BookingResponse{Success: false, Message: message})
		return
	}

	resp := models.NewTripResponse(*trip)
	c.JSON(http.StatusOK, models.BookingResponse{
		Success: true,
		Message: fmt.Sprintf("Booked %d ticket(s) on %s", len(trip.Tickets), day),
		Trip:    &resp,
	})
}

// GetClientTrips lists the trips of a client. The last name must match.
func (h *Handler) GetClientTrips(c *gin.Context) {
	clientID := c.Param("id")
	lastName := strings.TrimSpace(c.Query("last_name"))
	if lastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "last_name is required"})
		return
	}

	trips, err := h.bookings.ViewTrips(c.Request.Context(), clientID, lastName)
	if err != nil {
		status := statusFor(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			h.logger.Errorw("Error getting trips", "client_id", clientID, "error", err)
			message = "Failed to retrieve trips"
		}
		c.JSON(status, gin.H{"error": message})
		return
	}

	resp := make([]models.TripResponse, 0, len(trips))
	for _, trip := range trips {
		resp = append(resp, models.NewTripResponse(trip))
	}
	c.JSON(http.StatusOK, resp)
}
