package model

import "strings"

// PlaceType is an enumerated place category. It can be inferred from the
// place name or hierarchy position when absent.
type PlaceType string

const (
	PlaceTypeCountry  PlaceType = "country"
	PlaceTypeState    PlaceType = "state"
	PlaceTypeCounty   PlaceType = "county"
	PlaceTypeCity     PlaceType = "city"
	PlaceTypeTown     PlaceType = "town"
	PlaceTypeVillage  PlaceType = "village"
	PlaceTypeParish   PlaceType = "parish"
	PlaceTypeCemetery PlaceType = "cemetery"
	PlaceTypeChurch   PlaceType = "church"
	PlaceTypeUnknown  PlaceType = "unknown"
)

// Place is a node in the single-parent place hierarchy.
type Place struct {
	ID       string
	Name     string
	ParentID string
	Type     PlaceType

	Latitude  string
	Longitude string
}

// InferPlaceType guesses a place type from its name. Returns
// PlaceTypeUnknown when nothing matches.
func InferPlaceType(name string) PlaceType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "cemetery") || strings.Contains(lower, "graveyard"):
		return PlaceTypeCemetery
	case strings.Contains(lower, "church") || strings.Contains(lower, "chapel"):
		return PlaceTypeChurch
	case strings.Contains(lower, "county"):
		return PlaceTypeCounty
	case strings.Contains(lower, "parish"):
		return PlaceTypeParish
	case strings.Contains(lower, "village"):
		return PlaceTypeVillage
	default:
		return PlaceTypeUnknown
	}
}
