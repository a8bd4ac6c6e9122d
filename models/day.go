package models

import (
	"strings"
	"time"
)

// DayOfWeek uses the same numbering as time.Weekday: Sunday is 0.
type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var daysByLabel = func() map[string]DayOfWeek {
	m := make(map[string]DayOfWeek, 14)
	for i, name := range dayNames {
		m[strings.ToLower(name)] = DayOfWeek(i)
		m[strings.ToLower(name[:3])] = DayOfWeek(i)
	}
	return m
}()

// ParseDay accepts both the short ("Mon") and the full ("Monday") form, in any case.
func ParseDay(label string) (DayOfWeek, error) {
	if d, ok := daysByLabel[strings.ToLower(strings.TrimSpace(label))]; ok {
		return d, nil
	}
	return 0, &UnknownLabelError{Kind: "day", Label: label}
}

// DayFromDate reduces a calendar date to the weekday the timetable runs on.
func DayFromDate(t time.Time) DayOfWeek {
	return DayOfWeek(t.Weekday())
}

func (d DayOfWeek) IsValid() bool {
	return d >= Sunday && d <= Saturday
}

func (d DayOfWeek) String() string {
	if !d.IsValid() {
		return "Unknown"
	}
	return dayNames[d]
}

// Short returns the three letter label used in timetables.
func (d DayOfWeek) Short() string {
	return d.String()[:3]
}

// Next returns the following day, wrapping Saturday to Sunday.
func (d DayOfWeek) Next() DayOfWeek {
	return (d + 1) % 7
}

func (d DayOfWeek) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DayOfWeek) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// AllDays returns Sunday through Saturday.
func AllDays() []DayOfWeek {
	return []DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// DaySet is the set of weekdays a connection operates on.
type DaySet uint8

// EveryDay contains all seven days.
const EveryDay DaySet = 1<<7 - 1

func NewDaySet(days ...DayOfWeek) DaySet {
	var s DaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

func (s DaySet) Add(d DayOfWeek) DaySet {
	if !d.IsValid() {
		return s
	}
	return s | 1<<uint(d)
}

func (s DaySet) Has(d DayOfWeek) bool {
	return d.IsValid() && s&(1<<uint(d)) != 0
}

func (s DaySet) Len() int {
	n := 0
	for _, d := range AllDays() {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Days lists the members in Sunday-first order.
func (s DaySet) Days() []DayOfWeek {
	var days []DayOfWeek
	for _, d := range AllDays() {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s DaySet) String() string {
	if s == EveryDay {
		return "Daily"
	}
	labels := make([]string, 0, 7)
	for _, d := range s.Days() {
		labels = append(labels, d.Short())
	}
	return strings.Join(labels, ",")
}
