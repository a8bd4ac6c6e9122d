package events

import (
	"time"

	"rail-planner/models"
)

// TripBookedEvent is published once a booking has been committed.
type TripBookedEvent struct {
	Type       string           `json:"type"`
	TripID     string           `json:"trip_id"`
	DayOfWeek  models.DayOfWeek `json:"day_of_week"`
	RouteIDs   []string         `json:"route_ids"`
	ClientIDs  []string         `json:"client_ids"`
	Tickets    int              `json:"tickets"`
	TotalPrice float64          `json:"total_price"`
	FareClass  models.FareClass `json:"fare_class,omitempty"`
	From       models.City      `json:"from"`
	To         models.City      `json:"to"`
	BookedAt   time.Time        `json:"booked_at"`
}

const TypeTripBooked = "trip.booked"

func NewTripBookedEvent(trip models.Trip) TripBookedEvent {
	event := TripBookedEvent{
		Type:       TypeTripBooked,
		TripID:     trip.ID,
		DayOfWeek:  trip.DayOfWeek,
		Tickets:    len(trip.Tickets),
		TotalPrice: trip.TotalPrice(),
		BookedAt:   trip.CreatedAt,
		ClientIDs:  make([]string, 0, len(trip.Tickets)),
	}
	for _, t := range trip.Tickets {
		event.ClientIDs = append(event.ClientIDs, t.ClientID)
	}
	if len(trip.Tickets) > 0 {
		first := trip.Tickets[0]
		event.RouteIDs = first.RouteIDs
		event.FareClass = first.FareClass
		event.From = first.DepartureCity
		event.To = first.ArrivalCity
	}
	return event
}
