package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCity(t *testing.T) {
	tests := map[string]City{
		"Berlin":     Berlin,
		"  paris ":   Paris,
		"MÜNCHEN":    Munich,
		"Bruxelles":  Brussels,
		"wien":       Vienna,
		"Rotterdam":  Rotterdam,
		"copenhagen": Copenhagen,
	}
	for label, expected := range tests {
		city, err := ParseCity(label)
		require.NoError(t, err, label)
		assert.Equal(t, expected, city)
	}

	_, err := ParseCity("Gotham")
	var unknown *UnknownLabelError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "city", unknown.Kind)
}

func TestCityIsValid(t *testing.T) {
	assert.True(t, Berlin.IsValid())
	assert.False(t, City("").IsValid())
	assert.False(t, City("berlin").IsValid(), "only canonical labels are valid")
	assert.False(t, City("Wien").IsValid())
	assert.Len(t, AllCities(), len(allCities))
}

func TestParseDay(t *testing.T) {
	for label, expected := range map[string]DayOfWeek{
		"Mon": Monday, "monday": Monday, "SUN": Sunday, " Saturday ": Saturday,
	} {
		day, err := ParseDay(label)
		require.NoError(t, err, label)
		assert.Equal(t, expected, day)
	}

	_, err := ParseDay("Mo")
	assert.Error(t, err)
}

func TestDayFromDate(t *testing.T) {
	assert.Equal(t, Saturday, DayFromDate(ReferenceDate))
	assert.Equal(t, Monday, DayFromDate(time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)))
}

func TestDayOfWeekText(t *testing.T) {
	data, err := json.Marshal(struct {
		Day DayOfWeek `json:"day"`
	}{Wednesday})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"Wednesday"}`, string(data))

	var decoded struct {
		Day DayOfWeek `json:"day"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"day":"fri"}`), &decoded))
	assert.Equal(t, Friday, decoded.Day)

	assert.Error(t, json.Unmarshal([]byte(`{"day":"someday"}`), &decoded))
	assert.Equal(t, Sunday, Saturday.Next())
}

func TestDaySet(t *testing.T) {
	s := NewDaySet(Monday, Friday, Monday)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(Monday))
	assert.False(t, s.Has(Tuesday))
	assert.False(t, s.Has(DayOfWeek(9)))
	assert.Equal(t, []DayOfWeek{Monday, Friday}, s.Days())
	assert.Equal(t, "Mon,Fri", s.String())

	assert.Equal(t, 7, EveryDay.Len())
	assert.Equal(t, "Daily", EveryDay.String())
	assert.Equal(t, s, s.Add(DayOfWeek(-1)))
}

func TestParseFareClass(t *testing.T) {
	for label, expected := range map[string]FareClass{
		"": FareCombined, "first": FareFirst, "1st": FareFirst, "Second": FareSecond, "2": FareSecond,
	} {
		class, err := ParseFareClass(label)
		require.NoError(t, err, label)
		assert.Equal(t, expected, class)
	}

	_, err := ParseFareClass("business")
	assert.Error(t, err)
}

func TestParseTrainType(t *testing.T) {
	tt, err := ParseTrainType(" Intercités ")
	require.NoError(t, err)
	assert.Equal(t, TrainIntercites, tt)

	_, err = ParseTrainType("ice")
	assert.Error(t, err)
}

func TestNewConnectionOvernight(t *testing.T) {
	c := NewConnection("R1", Berlin, Vienna, ClockTime(22, 0, 0), ClockTime(7, 30, 1), TrainNightjet, EveryDay, 150, 80)

	assert.Equal(t, 1, c.ArrivalDayOffset)
	assert.Equal(t, 9*time.Hour+30*time.Minute, c.Duration)
	assert.True(t, c.Operates(Thursday))
	assert.Equal(t, "R1 Berlin 22:00 -> Vienna 07:30 (+1d)", c.String())
}

func TestTripOptionAggregates(t *testing.T) {
	first := NewConnection("R1", Berlin, Paris, ClockTime(10, 0, 0), ClockTime(12, 0, 0), TrainICE, EveryDay, 100, 60)
	second := NewConnection("R2", Paris, Lyon, ClockTime(13, 0, 0), ClockTime(15, 0, 0), TrainTGV, EveryDay, 50, 30)

	option, err := NewTripOption([]*Connection{&first, &second})
	require.NoError(t, err)

	assert.Equal(t, Berlin, option.DepartureCity)
	assert.Equal(t, Lyon, option.ArrivalCity)
	assert.Equal(t, ClockTime(10, 0, 0), option.DepartureTime)
	assert.Equal(t, ClockTime(15, 0, 0), option.ArrivalTime)
	assert.Equal(t, 4*time.Hour, option.TotalDuration)
	assert.Equal(t, time.Hour, option.TransferTime())
	assert.Equal(t, 2, option.NumConnections)
	assert.Equal(t, 1, option.Stops())
	assert.False(t, option.IsDirect)
	assert.Equal(t, []string{"R1", "R2"}, option.RouteIDs())
	assert.Equal(t, "Berlin -> Paris -> Lyon", option.Path())

	assert.Equal(t, 150.0, option.Price(FareFirst))
	assert.Equal(t, 90.0, option.Price(FareSecond))
	assert.Equal(t, 240.0, option.Price(FareCombined))

	_, err = NewTripOption(nil)
	assert.ErrorIs(t, err, ErrEmptyItinerary)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "4h 5m", FormatDuration(4*time.Hour+5*time.Minute))
	assert.Equal(t, "0h 45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "26h 0m", FormatDuration(26*time.Hour))
}

func TestNewTripResponse(t *testing.T) {
	trip := Trip{
		ID:        "trip-1",
		DayOfWeek: Monday,
		Tickets: []Ticket{
			{ID: 1, ClientID: "A", DepartureTime: ClockTime(10, 0, 0), ArrivalTime: ClockTime(1, 5, 1), Price: 90, RouteIDs: []string{"R1"}},
			{ID: 2, ClientID: "B", DepartureTime: ClockTime(10, 0, 0), ArrivalTime: ClockTime(1, 5, 1), Price: 90, RouteIDs: []string{"R1"}},
		},
	}

	resp := NewTripResponse(trip)
	assert.Equal(t, 180.0, resp.TotalPrice)
	require.Len(t, resp.Tickets, 2)
	assert.Equal(t, "10:00", resp.Tickets[0].DepartureTime)
	assert.Equal(t, "01:05", resp.Tickets[0].ArrivalTime)
}
