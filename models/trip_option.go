package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyItinerary is returned when a TripOption is built without legs.
var ErrEmptyItinerary = errors.New("itinerary must have at least one connection")

// TripOption is one candidate journey returned by a search. Legs point into
// the graph that produced them and must not be modified.
type TripOption struct {
	Legs []*Connection

	DepartureCity City
	ArrivalCity   City
	DepartureTime time.Time
	ArrivalTime   time.Time

	// TotalDuration is time spent on trains; layovers are not included.
	TotalDuration         time.Duration
	TotalFirstClassPrice  float64
	TotalSecondClassPrice float64

	NumConnections int
	IsDirect       bool
}

func NewTripOption(legs []*Connection) (TripOption, error) {
	if len(legs) == 0 {
		return TripOption{}, ErrEmptyItinerary
	}

	first, last := legs[0], legs[len(legs)-1]
	option := TripOption{
		Legs:           legs,
		DepartureCity:  first.DepartureCity,
		ArrivalCity:    last.ArrivalCity,
		DepartureTime:  first.DepartureTime,
		ArrivalTime:    last.ArrivalTime,
		NumConnections: len(legs),
		IsDirect:       len(legs) == 1,
	}

	for _, leg := range legs {
		option.TotalDuration += leg.Duration
		option.TotalFirstClassPrice += leg.FirstClassPrice
		option.TotalSecondClassPrice += leg.SecondClassPrice
	}

	return option, nil
}

// RouteIDs lists the route ids of the legs in travel order.
func (t TripOption) RouteIDs() []string {
	ids := make([]string, len(t.Legs))
	for i, leg := range t.Legs {
		ids[i] = leg.RouteID
	}
	return ids
}

// TransferTime sums the positive waits between consecutive legs.
func (t TripOption) TransferTime() time.Duration {
	var total time.Duration
	for i := 0; i+1 < len(t.Legs); i++ {
		wait := t.Legs[i+1].DepartureTime.Sub(t.Legs[i].ArrivalTime)
		if wait > 0 {
			total += wait
		}
	}
	return total
}

// Stops is the number of intermediate cities.
func (t TripOption) Stops() int {
	if t.NumConnections == 0 {
		return 0
	}
	return t.NumConnections - 1
}

// Price returns what one traveller pays in the given fare class.
func (t TripOption) Price(class FareClass) float64 {
	switch class {
	case FareFirst:
		return t.TotalFirstClassPrice
	case FareSecond:
		return t.TotalSecondClassPrice
	default:
		return t.TotalFirstClassPrice + t.TotalSecondClassPrice
	}
}

// Path renders the cities visited, e.g. "Berlin -> Paris -> Lyon".
func (t TripOption) Path() string {
	if len(t.Legs) == 0 {
		return ""
	}
	cities := make([]string, 0, len(t.Legs)+1)
	cities = append(cities, string(t.Legs[0].DepartureCity))
	for _, leg := range t.Legs {
		cities = append(cities, string(leg.ArrivalCity))
	}
	return strings.Join(cities, " -> ")
}

func (t TripOption) String() string {
	stops := "Direct"
	if !t.IsDirect {
		stops = fmt.Sprintf("%d stop(s)", t.Stops())
	}
	return fmt.Sprintf("%s (%s) | %s | departs %s arrives %s | 1st €%.2f 2nd €%.2f",
		t.Path(), stops, FormatDuration(t.TotalDuration),
		t.DepartureTime.Format("15:04"), t.ArrivalTime.Format("15:04"),
		t.TotalFirstClassPrice, t.TotalSecondClassPrice)
}

// FormatDuration prints a duration as "4h 5m".
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
