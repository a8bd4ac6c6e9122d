package models

import (
	"fmt"
	"time"
)

// ReferenceDate anchors every time of day in the timetable. Arrivals after
// midnight are expressed as a day offset from it.
var ReferenceDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// MaxArrivalDayOffset is the largest overnight offset a timetable row may carry.
const MaxArrivalDayOffset = 2

// ClockTime returns hh:mm on the reference date shifted by dayOffset days.
func ClockTime(hour, minute, dayOffset int) time.Time {
	return ReferenceDate.AddDate(0, 0, dayOffset).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// Connection is one timetabled leg between two cities. Values are treated as
// immutable once the graph is built.
type Connection struct {
	RouteID          string
	DepartureCity    City
	ArrivalCity      City
	DepartureTime    time.Time
	ArrivalTime      time.Time
	ArrivalDayOffset int
	Duration         time.Duration
	TrainType        TrainType
	DaysOfOperation  DaySet
	FirstClassPrice  float64
	SecondClassPrice float64
}

// NewConnection fills in the derived arrival offset and duration.
func NewConnection(routeID string, from, to City, departure, arrival time.Time, trainType TrainType, days DaySet, firstClass, secondClass float64) Connection {
	return Connection{
		RouteID:          routeID,
		DepartureCity:    from,
		ArrivalCity:      to,
		DepartureTime:    departure,
		ArrivalTime:      arrival,
		ArrivalDayOffset: int(arrival.Sub(ReferenceDate) / (24 * time.Hour)),
		Duration:         arrival.Sub(departure),
		TrainType:        trainType,
		DaysOfOperation:  days,
		FirstClassPrice:  firstClass,
		SecondClassPrice: secondClass,
	}
}

// Operates reports whether the connection runs on day.
func (c *Connection) Operates(day DayOfWeek) bool {
	return c.DaysOfOperation.Has(day)
}

func (c *Connection) String() string {
	arrival := c.ArrivalTime.Format("15:04")
	if c.ArrivalDayOffset > 0 {
		arrival = fmt.Sprintf("%s (+%dd)", arrival, c.ArrivalDayOffset)
	}
	return fmt.Sprintf("%s %s %s -> %s %s", c.RouteID, c.DepartureCity, c.DepartureTime.Format("15:04"), c.ArrivalCity, arrival)
}
