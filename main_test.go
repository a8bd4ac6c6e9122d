package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rail-planner/config"
	"rail-planner/handlers"
	"rail-planner/logging"
	"rail-planner/models"
	"rail-planner/network"
	"rail-planner/services"
	"rail-planner/store"
)

const sampleTimetable = "Route ID,Departure City,Arrival City,Departure Time,Arrival Time,Days of Operation,Train Type,First Class ticket rate (in euro),Second Class ticket rate (in euro)\n" +
	"R1,Berlin,Paris,10:00,12:00,Daily,ICE,100,60\n" +
	"R2,Paris,Lyon,13:00,15:00,Daily,TGV,50,30\n" +
	"R3,Berlin,Lyon,07:00,14:00,Mon,ICE,170,95\n" +
	"R4,Nowhere,Lyon,07:00,14:00,Mon,ICE,170,95\n"

func writeTimetable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timetable.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleTimetable), 0o600))
	return path
}

func TestLoadGraphSkipsBadRows(t *testing.T) {
	g, err := loadGraph(writeTimetable(t), zap.NewNop().Sugar())
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []models.City{models.Berlin, models.Lyon, models.Paris}, g.Cities())
}

func TestLoadGraphMissingFile(t *testing.T) {
	_, err := loadGraph(filepath.Join(t.TempDir(), "missing.csv"), zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop().Sugar()

	g, err := loadGraph(writeTimetable(t), logger)
	require.NoError(t, err)

	h := handlers.NewHandler(
		services.NewSearchService(g, nil, time.Minute, logger),
		services.NewBookingService(store.NewMemoryStore(), nil, logger),
		logger,
	)
	router := setupRouter(h, &config.Config{GinMode: gin.TestMode}, logger)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"cities", http.MethodGet, "/api/cities", http.StatusOK},
		{"week search", http.MethodGet, "/api/search/week?origin=Berlin&destination=Lyon", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Origin", "http://localhost:3000")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestDayFromFlags(t *testing.T) {
	day, err := dayFromFlags("tue", "")
	require.NoError(t, err)
	assert.Equal(t, models.Tuesday, day)

	day, err = dayFromFlags("", "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, models.Monday, day)

	day, err = dayFromFlags("Friday", "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, models.Friday, day, "explicit day wins over date")

	_, err = dayFromFlags("", "19/10/2026")
	assert.Error(t, err)

	_, err = dayFromFlags("", "")
	assert.Error(t, err)
}

func TestPrintOptions(t *testing.T) {
	g, err := loadGraph(writeTimetable(t), zap.NewNop().Sugar())
	require.NoError(t, err)

	options := g.FindTrips(models.Berlin, models.Lyon, models.Monday)
	network.SortOptions(options, network.SortByDuration)

	var out bytes.Buffer
	printOptions(&out, models.Berlin, models.Lyon, models.Monday, options)

	text := out.String()
	assert.Contains(t, text, "2 trip(s) from Berlin to Lyon on Monday")
	assert.Contains(t, text, "R1 Berlin 10:00 -> Paris 12:00")
	assert.Contains(t, text, "transfers: 1h 0m")

	out.Reset()
	printOptions(&out, models.Lyon, models.Berlin, models.Monday, nil)
	assert.Equal(t, "No trips from Lyon to Berlin on Monday.\n", out.String())
}

func TestCommandsApplyConfiguredLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	logging.SetLevel("debug")
	t.Cleanup(func() { logging.SetLevel("info") })

	var out bytes.Buffer
	app := &cli.App{
		Name:     "rail-planner",
		Writer:   &out,
		Flags:    []cli.Flag{&cli.StringFlag{Name: "timetable"}},
		Commands: []*cli.Command{citiesCommand()},
	}
	require.NoError(t, app.Run([]string{"rail-planner", "--timetable", writeTimetable(t), "cities"}))

	assert.Equal(t, "Berlin\nLyon\nParis\n", out.String())
	core := logging.GetLogger().Desugar().Core()
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))
}
