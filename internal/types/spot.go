package types

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RawSpot is one unnormalized record as produced by a spot source
// (Overpass element, static dataset entry, or the built-in minimum list).
// Tags is a free-form map and must never leak past catalog normalization.
type RawSpot struct {
	ID          string            `json:"id"`
	Latitude    *float64          `json:"latitude"`
	Longitude   *float64          `json:"longitude"`
	Tags        map[string]string `json:"tags"`
	CategoryKey string            `json:"category_key,omitempty"` // set by curated sources, empty for Overpass
}

// Spot is a normalized point of interest. Immutable once built, except for
// DistanceFromBase which is a transient annotation scoped to selection and
// day ordering.
type Spot struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Coordinates   *Coordinates `json:"coordinates"`
	Type          string       `json:"type"`
	CategoryKey   string       `json:"category_key"`
	CategoryLabel string       `json:"category_label"`
	Icon          string       `json:"icon"`
	Description   string       `json:"description"`
	Address       string       `json:"address,omitempty"`
	Website       string       `json:"website,omitempty"`
	OpeningHours  string       `json:"opening_hours,omitempty"`
	Phone         string       `json:"phone,omitempty"`
	Tags          []string     `json:"tags"`

	DistanceFromBase float64 `json:"distance_from_base_km,omitempty"`
}

// HasCoordinates reports whether the spot carries a usable position.
func (s Spot) HasCoordinates() bool {
	return s.Coordinates != nil
}
