package services

import (
	"fmt"
	"strings"

	"rail-planner/models"
)

// InvalidBookingError rejects a booking request before anything is written.
type InvalidBookingError struct {
	Reason string
}

func (e *InvalidBookingError) Error() string {
	return "invalid booking: " + e.Reason
}

// DuplicateTravellerError is returned when one booking lists a client twice.
type DuplicateTravellerError struct {
	ClientID string
}

func (e *DuplicateTravellerError) Error() string {
	return fmt.Sprintf("traveller %s appears more than once in the booking", e.ClientID)
}

// ConflictingReservationError is returned when a traveller already holds a
// ticket on one of the itinerary's connections for the same day.
type ConflictingReservationError struct {
	ClientID       string
	Day            models.DayOfWeek
	RouteIDs       []string
	ExistingTripID string
}

func (e *ConflictingReservationError) Error() string {
	return fmt.Sprintf("traveller %s is already booked on %s on %s (trip %s)",
		e.ClientID, strings.Join(e.RouteIDs, ", "), e.Day, e.ExistingTripID)
}

// UnknownClientError is returned when trips are requested for a client id
// the ledger has never seen.
type UnknownClientError struct {
	ClientID string
}

func (e *UnknownClientError) Error() string {
	return fmt.Sprintf("no client with id %s", e.ClientID)
}

// NameMismatchError is returned when a last name does not match the one
// stored for the client.
type NameMismatchError struct {
	ClientID string
}

func (e *NameMismatchError) Error() string {
	return fmt.Sprintf("last name does not match client %s", e.ClientID)
}
