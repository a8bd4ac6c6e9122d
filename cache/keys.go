package cache

import (
	"fmt"
	"strings"

	"rail-planner/models"
)

// KeySearch namespaces a search result by the timetable version, so a new
// timetable never serves stale itineraries.
func KeySearch(version string, origin, destination models.City, day models.DayOfWeek) string {
	return fmt.Sprintf("search:%s:%s:%s:%d", version, origin, destination, int(day))
}

const keySearchAll = "search:*"

// searchKeyVersion extracts the timetable version from a KeySearch key.
func searchKeyVersion(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 3 || parts[0] != "search" {
		return ""
	}
	return parts[1]
}
