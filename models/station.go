package models

// CityResponse describes a city served by the loaded timetable
type CityResponse struct {
	Name       City `json:"name"`
	Departures int  `json:"departures"`
}
