package network

import (
	"time"

	"rail-planner/models"
)

const (
	// MaxConnections is the most legs a single journey may have.
	MaxConnections = 3

	// NightLayover applies when the previous leg arrives between 22:00 and 06:00.
	NightLayover = 30 * time.Minute
	// DayLayover applies to arrivals at any other hour.
	DayLayover = 2 * time.Hour

	nightStartHour = 22
	nightEndHour   = 6
)

type searchState struct {
	city models.City
	legs []*models.Connection
}

// FindTrips enumerates every journey from origin to destination on day with
// at most MaxConnections legs. The graph is only read, so any number of
// searches may run at once.
func (g *Graph) FindTrips(origin, destination models.City, day models.DayOfWeek) []models.TripOption {
	if origin == destination {
		return nil
	}
	if _, ok := g.stations[origin]; !ok {
		return nil
	}

	var results []models.TripOption
	stack := []searchState{{city: origin}}

	for len(stack) > 0 {
		state := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if state.city == destination && len(state.legs) > 0 {
			option, err := models.NewTripOption(state.legs)
			if err == nil {
				results = append(results, option)
			}
			continue
		}
		if len(state.legs) >= MaxConnections {
			continue
		}

		station, ok := g.stations[state.city]
		if !ok {
			continue
		}
		d, ok := station.outgoing[day]
		if !ok {
			continue
		}

		for _, next := range d.order {
			for _, leg := range d.byDestination[next] {
				if !canFollow(state.legs, leg) {
					continue
				}
				legs := make([]*models.Connection, len(state.legs), len(state.legs)+1)
				copy(legs, state.legs)
				stack = append(stack, searchState{city: next, legs: append(legs, leg)})
			}
		}
	}

	return results
}

// canFollow reports whether leg may extend the partial journey legs.
func canFollow(legs []*models.Connection, leg *models.Connection) bool {
	for _, used := range legs {
		if used.RouteID == leg.RouteID {
			return false
		}
	}
	if len(legs) == 0 {
		return true
	}

	prev := legs[len(legs)-1]
	layover := leg.DepartureTime.Sub(prev.ArrivalTime)
	if layover <= 0 {
		return false
	}
	return layover <= MaxLayover(prev.ArrivalTime)
}

// MaxLayover is the longest wait allowed after a train arriving at arrival.
func MaxLayover(arrival time.Time) time.Duration {
	if IsNightArrival(arrival) {
		return NightLayover
	}
	return DayLayover
}

// IsNightArrival reports whether arrival falls between 22:00 and 06:00.
func IsNightArrival(arrival time.Time) bool {
	hour := arrival.Hour()
	return hour >= nightStartHour || hour < nightEndHour
}

// ResolveItinerary rebuilds the journey made of routeIDs on day, applying the
// same rules FindTrips uses to extend a path.
func (g *Graph) ResolveItinerary(routeIDs []string, day models.DayOfWeek) (models.TripOption, error) {
	if len(routeIDs) == 0 {
		return models.TripOption{}, &InvalidItineraryError{RouteIDs: routeIDs, Reason: "no connections"}
	}
	if len(routeIDs) > MaxConnections {
		return models.TripOption{}, &InvalidItineraryError{RouteIDs: routeIDs, Reason: "too many connections"}
	}

	legs := make([]*models.Connection, 0, len(routeIDs))
	for _, id := range routeIDs {
		leg, ok := g.byRoute[id]
		if !ok {
			return models.TripOption{}, &InvalidItineraryError{RouteIDs: routeIDs, Reason: "unknown route " + id}
		}
		if !leg.Operates(day) {
			return models.TripOption{}, &InvalidItineraryError{RouteIDs: routeIDs, Reason: id + " does not run on " + day.String()}
		}
		if len(legs) > 0 {
			prev := legs[len(legs)-1]
			if prev.ArrivalCity != leg.DepartureCity {
				return models.TripOption{}, &InvalidItineraryError{RouteIDs: routeIDs, Reason: id + " does not depart from " + string(prev.ArrivalCity)}
			}
		}
		if !canFollow(legs, leg) {
			return models.TripOption{}, &InvalidItineraryError{RouteIDs: routeIDs, Reason: "no valid transfer to " + id}
		}
		legs = append(legs, leg)
	}

	if legs[0].DepartureCity == legs[len(legs)-1].ArrivalCity {
		return models.TripOption{}, &InvalidItineraryError{RouteIDs: routeIDs, Reason: "journey returns to its origin"}
	}
	for _, leg := range legs[:len(legs)-1] {
		if leg.ArrivalCity == legs[len(legs)-1].ArrivalCity {
			return models.TripOption{}, &InvalidItineraryError{RouteIDs: routeIDs, Reason: "journey passes its destination"}
		}
	}

	return models.NewTripOption(legs)
}
