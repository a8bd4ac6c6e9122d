package models

import "strings"

// TrainType is the service brand operating a connection
type TrainType string

const (
	TrainAVE          TrainType = "AVE"
	TrainEuroCity     TrainType = "EuroCity"
	TrainEurostar     TrainType = "Eurostar"
	TrainFrecciarossa TrainType = "Frecciarossa"
	TrainIC           TrainType = "IC"
	TrainICE          TrainType = "ICE"
	TrainInterCity    TrainType = "InterCity"
	TrainIntercites   TrainType = "Intercités"
	TrainItalo        TrainType = "Italo"
	TrainNightjet     TrainType = "Nightjet"
	TrainRE           TrainType = "RE"
	TrainRJX          TrainType = "RJX"
	TrainRailjet      TrainType = "Railjet"
	TrainRegioExpress TrainType = "RegioExpress"
	TrainTER          TrainType = "TER"
	TrainTGV          TrainType = "TGV"
	TrainThalys       TrainType = "Thalys"
)

var trainTypes = map[TrainType]struct{}{
	TrainAVE: {}, TrainEuroCity: {}, TrainEurostar: {}, TrainFrecciarossa: {}, TrainIC: {},
	TrainICE: {}, TrainInterCity: {}, TrainIntercites: {}, TrainItalo: {}, TrainNightjet: {},
	TrainRE: {}, TrainRJX: {}, TrainRailjet: {}, TrainRegioExpress: {}, TrainTER: {},
	TrainTGV: {}, TrainThalys: {},
}

// ParseTrainType matches the label exactly, as timetables print it.
func ParseTrainType(label string) (TrainType, error) {
	t := TrainType(strings.TrimSpace(label))
	if _, ok := trainTypes[t]; ok {
		return t, nil
	}
	return "", &UnknownLabelError{Kind: "train type", Label: label}
}

// FareClass selects which price tier a ticket is charged at.
// The zero value books at the combined price of both tiers.
type FareClass string

const (
	FareCombined FareClass = ""
	FareFirst    FareClass = "first"
	FareSecond   FareClass = "second"
)

func ParseFareClass(label string) (FareClass, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "":
		return FareCombined, nil
	case "first", "1", "1st":
		return FareFirst, nil
	case "second", "2", "2nd":
		return FareSecond, nil
	}
	return "", &UnknownLabelError{Kind: "fare class", Label: label}
}

func (f FareClass) IsValid() bool {
	return f == FareCombined || f == FareFirst || f == FareSecond
}
