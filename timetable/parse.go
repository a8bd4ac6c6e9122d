package timetable

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"rail-planner/models"
)

var (
	clockPattern  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	offsetPattern = regexp.MustCompile(`^\(?\+(\d+)d\)?$`)
)

// ParseClock reads an "HH:MM" time of day.
func ParseClock(value string) (hour, minute int, err error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, 0, fmt.Errorf("invalid time %q", value)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q", value)
	}
	return hour, minute, nil
}

// ParseDeparture anchors a departure time of day to the reference date.
func ParseDeparture(value string) (time.Time, error) {
	hour, minute, err := ParseClock(value)
	if err != nil {
		return time.Time{}, err
	}
	return models.ClockTime(hour, minute, 0), nil
}

// ParseArrival reads "HH:MM" optionally followed by a "(+Nd)" day offset. An
// arrival without an explicit offset that is earlier than departure is taken
// to be on the following day.
func ParseArrival(value string, departure time.Time) (time.Time, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 || len(fields) > 2 {
		return time.Time{}, fmt.Errorf("invalid arrival time %q", value)
	}

	hour, minute, err := ParseClock(fields[0])
	if err != nil {
		return time.Time{}, err
	}

	offset := 0
	explicit := len(fields) == 2
	if explicit {
		m := offsetPattern.FindStringSubmatch(fields[1])
		if m == nil {
			return time.Time{}, fmt.Errorf("invalid day offset %q", fields[1])
		}
		offset, _ = strconv.Atoi(m[1])
		if offset > models.MaxArrivalDayOffset {
			return time.Time{}, fmt.Errorf("day offset %d exceeds %d", offset, models.MaxArrivalDayOffset)
		}
	}

	arrival := models.ClockTime(hour, minute, offset)
	if !explicit && arrival.Before(departure) {
		arrival = models.ClockTime(hour, minute, 1)
	}
	return arrival, nil
}

// ParseDays reads "Daily", a wrapping range such as "Fri-Mon", or a comma
// separated list of day labels.
func ParseDays(value string) (models.DaySet, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return 0, fmt.Errorf("missing days of operation")
	case strings.EqualFold(value, "daily"):
		return models.EveryDay, nil
	case strings.Contains(value, ","):
		var set models.DaySet
		for _, label := range strings.Split(value, ",") {
			day, err := models.ParseDay(label)
			if err != nil {
				return 0, err
			}
			set = set.Add(day)
		}
		return set, nil
	case strings.Contains(value, "-"):
		bounds := strings.Split(value, "-")
		if len(bounds) != 2 {
			return 0, fmt.Errorf("invalid range of days %q", value)
		}
		start, err := models.ParseDay(bounds[0])
		if err != nil {
			return 0, err
		}
		end, err := models.ParseDay(bounds[1])
		if err != nil {
			return 0, err
		}
		var set models.DaySet
		for day := start; ; day = day.Next() {
			set = set.Add(day)
			if day == end {
				break
			}
		}
		return set, nil
	default:
		day, err := models.ParseDay(value)
		if err != nil {
			return 0, err
		}
		return models.NewDaySet(day), nil
	}
}

// ParsePrice reads a non-negative euro amount.
func ParsePrice(value string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", value)
	}
	if price < 0 {
		return 0, fmt.Errorf("negative price %q", value)
	}
	return price, nil
}
