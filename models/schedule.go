package models

// SearchRequest represents a journey search query. Either Day or Date
// (YYYY-MM-DD, reduced to its weekday) must be given.
type SearchRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Day         string `json:"day"`
	Date        string `json:"date"`
	Sort        string `json:"sort"`
}

// LegResponse is one connection of a search result, formatted for display
type LegResponse struct {
	RouteID          string    `json:"route_id"`
	DepartureCity    City      `json:"departure_city"`
	ArrivalCity      City      `json:"arrival_city"`
	DepartureTime    string    `json:"departure_time"`
	ArrivalTime      string    `json:"arrival_time"`
	ArrivalDayOffset int       `json:"arrival_day_offset,omitempty"`
	Duration         string    `json:"duration"`
	TrainType        TrainType `json:"train_type"`
	FirstClassPrice  float64   `json:"first_class_price"`
	SecondClassPrice float64   `json:"second_class_price"`
}

// SearchResponse represents a trip option with full details
type SearchResponse struct {
	RouteIDs              []string      `json:"route_ids"`
	Path                  string        `json:"path"`
	DepartureCity         City          `json:"departure_city"`
	ArrivalCity           City          `json:"arrival_city"`
	DepartureTime         string        `json:"departure_time"`
	ArrivalTime           string        `json:"arrival_time"`
	Duration              string        `json:"duration"`
	DurationMinutes       int           `json:"duration_minutes"`
	TransferTime          string        `json:"transfer_time"`
	NumConnections        int           `json:"num_connections"`
	IsDirect              bool          `json:"is_direct"`
	TotalFirstClassPrice  float64       `json:"total_first_class_price"`
	TotalSecondClassPrice float64       `json:"total_second_class_price"`
	Legs                  []LegResponse `json:"legs"`
}

func NewSearchResponse(option TripOption) SearchResponse {
	resp := SearchResponse{
		RouteIDs:              option.RouteIDs(),
		Path:                  option.Path(),
		DepartureCity:         option.DepartureCity,
		ArrivalCity:           option.ArrivalCity,
		DepartureTime:         option.DepartureTime.Format("15:04"),
		ArrivalTime:           option.ArrivalTime.Format("15:04"),
		Duration:              FormatDuration(option.TotalDuration),
		DurationMinutes:       int(option.TotalDuration.Minutes()),
		TransferTime:          FormatDuration(option.TransferTime()),
		NumConnections:        option.NumConnections,
		IsDirect:              option.IsDirect,
		TotalFirstClassPrice:  option.TotalFirstClassPrice,
		TotalSecondClassPrice: option.TotalSecondClassPrice,
		Legs:                  make([]LegResponse, 0, len(option.Legs)),
	}

	for _, leg := range option.Legs {
		resp.Legs = append(resp.Legs, LegResponse{
			RouteID:          leg.RouteID,
			DepartureCity:    leg.DepartureCity,
			ArrivalCity:      leg.ArrivalCity,
			DepartureTime:    leg.DepartureTime.Format("15:04"),
			ArrivalTime:      leg.ArrivalTime.Format("15:04"),
			ArrivalDayOffset: leg.ArrivalDayOffset,
			Duration:         FormatDuration(leg.Duration),
			TrainType:        leg.TrainType,
			FirstClassPrice:  leg.FirstClassPrice,
			SecondClassPrice: leg.SecondClassPrice,
		})
	}

	return resp
}

func NewSearchResponses(options []TripOption) []SearchResponse {
	out := make([]SearchResponse, 0, len(options))
	for _, o := range options {
		out = append(out, NewSearchResponse(o))
	}
	return out
}

// DaySearchResponse holds the results of one day of a weekly search
type DaySearchResponse struct {
	Day     DayOfWeek        `json:"day"`
	Options []SearchResponse `json:"options"`
}
