package models

import (
	"fmt"
	"sort"
	"strings"
)

// City is a city served by the rail network. The value is its canonical label.
type City string

const (
	Amsterdam  City = "Amsterdam"
	Antwerp    City = "Antwerp"
	Barcelona  City = "Barcelona"
	Basel      City = "Basel"
	Berlin     City = "Berlin"
	Bern       City = "Bern"
	Bologna    City = "Bologna"
	Bordeaux   City = "Bordeaux"
	Bratislava City = "Bratislava"
	Brussels   City = "Brussels"
	Budapest   City = "Budapest"
	Cologne    City = "Cologne"
	Copenhagen City = "Copenhagen"
	Dresden    City = "Dresden"
	Florence   City = "Florence"
	Frankfurt  City = "Frankfurt"
	Geneva     City = "Geneva"
	Hamburg    City = "Hamburg"
	Innsbruck  City = "Innsbruck"
	Krakow     City = "Krakow"
	Lille      City = "Lille"
	Lisbon     City = "Lisbon"
	Ljubljana  City = "Ljubljana"
	London     City = "London"
	Luxembourg City = "Luxembourg"
	Lyon       City = "Lyon"
	Madrid     City = "Madrid"
	Marseille  City = "Marseille"
	Milan      City = "Milan"
	Munich     City = "Munich"
	Naples     City = "Naples"
	Nice       City = "Nice"
	Oslo       City = "Oslo"
	Paris      City = "Paris"
	Porto      City = "Porto"
	Prague     City = "Prague"
	Rome       City = "Rome"
	Rotterdam  City = "Rotterdam"
	Salzburg   City = "Salzburg"
	Seville    City = "Seville"
	Stockholm  City = "Stockholm"
	Strasbourg City = "Strasbourg"
	Stuttgart  City = "Stuttgart"
	Toulouse   City = "Toulouse"
	Turin      City = "Turin"
	Valencia   City = "Valencia"
	Venice     City = "Venice"
	Verona     City = "Verona"
	Vienna     City = "Vienna"
	Warsaw     City = "Warsaw"
	Zagreb     City = "Zagreb"
	Zurich     City = "Zurich"
)

var allCities = []City{
	Amsterdam, Antwerp, Barcelona, Basel, Berlin, Bern, Bologna, Bordeaux, Bratislava, Brussels,
	Budapest, Cologne, Copenhagen, Dresden, Florence, Frankfurt, Geneva, Hamburg, Innsbruck, Krakow,
	Lille, Lisbon, Ljubljana, London, Luxembourg, Lyon, Madrid, Marseille, Milan, Munich, Naples,
	Nice, Oslo, Paris, Porto, Prague, Rome, Rotterdam, Salzburg, Seville, Stockholm, Strasbourg,
	Stuttgart, Toulouse, Turin, Valencia, Venice, Verona, Vienna, Warsaw, Zagreb, Zurich,
}

// native-language spellings seen in operator timetables
var cityAliases = map[string]City{
	"münchen":   Munich,
	"muenchen":  Munich,
	"köln":      Cologne,
	"koeln":     Cologne,
	"bruxelles": Brussels,
	"brussel":   Brussels,
	"wien":      Vienna,
	"praha":     Prague,
	"genève":    Geneva,
	"geneve":    Geneva,
	"firenze":   Florence,
	"venezia":   Venice,
	"milano":    Milan,
	"roma":      Rome,
	"napoli":    Naples,
	"torino":    Turin,
	"lisboa":    Lisbon,
	"warszawa":  Warsaw,
	"kraków":    Krakow,
	"zürich":    Zurich,
	"sevilla":   Seville,
	"antwerpen": Antwerp,
}

var citiesByLabel = func() map[string]City {
	m := make(map[string]City, len(allCities)+len(cityAliases))
	for _, c := range allCities {
		m[strings.ToLower(string(c))] = c
	}
	for alias, c := range cityAliases {
		m[alias] = c
	}
	return m
}()

// UnknownLabelError is returned when a city, day or train type label is not recognised.
type UnknownLabelError struct {
	Kind  string
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Label)
}

// ParseCity resolves a label to a City, ignoring case and surrounding whitespace.
func ParseCity(label string) (City, error) {
	if c, ok := citiesByLabel[strings.ToLower(strings.TrimSpace(label))]; ok {
		return c, nil
	}
	return "", &UnknownLabelError{Kind: "city", Label: label}
}

// IsValid reports whether c is one of the known cities.
func (c City) IsValid() bool {
	known, ok := citiesByLabel[strings.ToLower(string(c))]
	return ok && known == c
}

func (c City) String() string {
	return string(c)
}

// AllCities returns every known city sorted by label.
func AllCities() []City {
	out := make([]City, len(allCities))
	copy(out, allCities)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
