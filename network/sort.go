package network

import (
	"sort"
	"strings"

	"rail-planner/models"
)

// SortKey selects the ordering applied to search results.
type SortKey string

const (
	SortByDuration   SortKey = "duration"
	SortByDeparture  SortKey = "departure"
	SortByArrival    SortKey = "arrival"
	SortByPrice      SortKey = "price"
	SortByPriceFirst SortKey = "price_first"
)

// ParseSortKey maps a user label to a SortKey. Empty means duration.
func ParseSortKey(label string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(label))); key {
	case "":
		return SortByDuration, nil
	case SortByDuration, SortByDeparture, SortByArrival, SortByPrice, SortByPriceFirst:
		return key, nil
	}
	return "", &models.UnknownLabelError{Kind: "sort key", Label: label}
}

// SortOptions orders options in place. Ties always fall back to the number
// of connections, so direct trains come first among equals.
func SortOptions(options []models.TripOption, key SortKey) {
	less := func(a, b models.TripOption) bool {
		switch key {
		case SortByDeparture:
			if !a.DepartureTime.Equal(b.DepartureTime) {
				return a.DepartureTime.Before(b.DepartureTime)
			}
		case SortByArrival:
			if !a.ArrivalTime.Equal(b.ArrivalTime) {
				return a.ArrivalTime.Before(b.ArrivalTime)
			}
		case SortByPrice:
			if a.TotalSecondClassPrice != b.TotalSecondClassPrice {
				return a.TotalSecondClassPrice < b.TotalSecondClassPrice
			}
		case SortByPriceFirst:
			if a.TotalFirstClassPrice != b.TotalFirstClassPrice {
				return a.TotalFirstClassPrice < b.TotalFirstClassPrice
			}
		default:
			if a.TotalDuration != b.TotalDuration {
				return a.TotalDuration < b.TotalDuration
			}
		}
		return a.NumConnections < b.NumConnections
	}
	sort.SliceStable(options, func(i, j int) bool { return less(options[i], options[j]) })
}
