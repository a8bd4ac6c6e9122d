package models

import "time"

// Client is a traveller known to the booking ledger, keyed by an external id
// such as a passport number.
type Client struct {
	ClientID  string    `json:"client_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
}

// Trip groups the tickets created by one successful booking.
type Trip struct {
	ID        string    `json:"trip_id"`
	DayOfWeek DayOfWeek `json:"day_of_week"`
	CreatedAt time.Time `json:"created_at"`
	Tickets   []Ticket  `json:"tickets"`
}

// TotalPrice sums the prices of every ticket on the trip.
func (t Trip) TotalPrice() float64 {
	var total float64
	for _, ticket := range t.Tickets {
		total += ticket.Price
	}
	return total
}

// Ticket is one traveller's reservation on a booked itinerary.
type Ticket struct {
	ID            int64     `json:"ticket_id"`
	TripID        string    `json:"trip_id"`
	ClientID      string    `json:"client_id"`
	DepartureCity City      `json:"departure_city"`
	ArrivalCity   City      `json:"arrival_city"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         float64   `json:"price"`
	FareClass     FareClass `json:"fare_class,omitempty"`
	RouteIDs      []string  `json:"route_ids"`
	DayOfWeek     DayOfWeek `json:"day_of_week"`
	CreatedAt     time.Time `json:"created_at"`
}

// Traveller is the passenger data supplied with a booking request
type Traveller struct {
	ClientID  string `json:"id" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Age       int    `json:"age" binding:"required,gt=0"`
}

// BookingRequest represents a booking creation request
type BookingRequest struct {
	RouteIDs   []string    `json:"route_ids" binding:"required,min=1,max=3"`
	Day        string      `json:"day"`
	Date       string      `json:"date"`
	FareClass  string      `json:"fare_class"`
	Travellers []Traveller `json:"travellers" binding:"required,min=1,dive"`
}

// BookingResponse represents a booking creation response
type BookingResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Trip    *TripResponse `json:"trip,omitempty"`
}

// TripResponse is a booked trip as shown to its travellers.
type TripResponse struct {
	ID         string           `json:"trip_id"`
	DayOfWeek  DayOfWeek        `json:"day_of_week"`
	CreatedAt  time.Time        `json:"created_at"`
	TotalPrice float64          `json:"total_price"`
	Tickets    []TicketResponse `json:"tickets"`
}

type TicketResponse struct {
	ID            int64     `json:"ticket_id"`
	ClientID      string    `json:"client_id"`
	DepartureCity City      `json:"departure_city"`
	ArrivalCity   City      `json:"arrival_city"`
	DepartureTime string    `json:"departure_time"`
	ArrivalTime   string    `json:"arrival_time"`
	Price         float64   `json:"price"`
	FareClass     FareClass `json:"fare_class,omitempty"`
	RouteIDs      []string  `json:"route_ids"`
}

func NewTripResponse(trip Trip) TripResponse {
	resp := TripResponse{
		ID:         trip.ID,
		DayOfWeek:  trip.DayOfWeek,
		CreatedAt:  trip.CreatedAt,
		TotalPrice: trip.TotalPrice(),
		Tickets:    make([]TicketResponse, 0, len(trip.Tickets)),
	}
	for _, t := range trip.Tickets {
		resp.Tickets = append(resp.Tickets, TicketResponse{
			ID:            t.ID,
			ClientID:      t.ClientID,
			DepartureCity: t.DepartureCity,
			ArrivalCity:   t.ArrivalCity,
			DepartureTime: t.DepartureTime.Format("15:04"),
			ArrivalTime:   t.ArrivalTime.Format("15:04"),
			Price:         t.Price,
			FareClass:     t.FareClass,
			RouteIDs:      t.RouteIDs,
		})
	}
	return resp
}
