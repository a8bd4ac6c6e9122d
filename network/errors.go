package network

import "fmt"

// MalformedTimetableError rejects a timetable that cannot be turned into a graph.
type MalformedTimetableError struct {
	RouteID string
	Reason  string
}

func (e *MalformedTimetableError) Error() string {
	return fmt.Sprintf("malformed timetable: connection %q: %s", e.RouteID, e.Reason)
}

// InvalidItineraryError is returned when a list of route ids does not form a
// journey the search engine would have produced.
type InvalidItineraryError struct {
	RouteIDs []string
	Reason   string
}

func (e *InvalidItineraryError) Error() string {
	return fmt.Sprintf("invalid itinerary %v: %s", e.RouteIDs, e.Reason)
}
