package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rail-planner/models"
	"rail-planner/network"
)

// GetCities returns every city in the timetable
func (h *Handler) GetCities(c *gin.Context) {
	c.JSON(http.StatusOK, h.search.Cities())
}

// SearchTrips searches for journeys on one day
func (h *Handler) SearchTrips(c *gin.Context) {
	var req models.SearchRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	origin, destination, key, ok := h.parseQuery(c, req.Origin, req.Destination, req.Sort)
	if !ok {
		return
	}
	day, err := resolveDay(req.Day, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Debugw("Search request", "origin", origin, "destination", destination, "day", day.String())

	options := h.search.FindTrips(c.Request.Context(), origin, destination, day, key)
	c.JSON(http.StatusOK, models.NewSearchResponses(options))
}

// SearchWeek searches the same journey on every day of the week
func (h *Handler) SearchWeek(c *gin.Context) {
	origin, destination, key, ok := h.parseQuery(c, c.Query("origin"), c.Query("destination"), c.Query("sort"))
	if !ok {
		return
	}

	week := h.search.FindTripsWeek(c.Request.Context(), origin, destination, key)

	resp := make([]models.DaySearchResponse, 0, len(week))
	for _, day := range models.AllDays() {
		resp = append(resp, models.DaySearchResponse{
			Day:     day,
			Options: models.NewSearchResponses(week[day]),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) parseQuery(c *gin.Context, from, to, sort string) (models.City, models.City, network.SortKey, bool) {
	origin, err := models.ParseCity(from)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin: " + err.Error()})
		return "", "", "", false
	}
	destination, err := models.ParseCity(to)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination: " + err.Error()})
		return "", "", "", false
	}
	key, err := network.ParseSortKey(sort)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", "", "", false
	}
	return origin, destination, key, true
}
