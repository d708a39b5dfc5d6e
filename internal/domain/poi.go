package domain

// POI is a single visitable location from a catalogue.
// POIs are owned by the catalogue adapter and are read-only to the
// planning core; resolved coordinates for POIs without an embedded
// location live in the override cache, never on the POI itself.
type POI struct {
	ID       string
	RegionID string
	Name     string
	Type     string
	Themes   []string

	Location  Location
	Links     Links
	Practical Practical
}

// Location carries whatever geographic hints the catalogue has for a POI.
// Coordinates is nil when the dataset ships no embedded point.
type Location struct {
	Locality    string
	Province    string
	Coordinates *Coordinates
	// GeoQuery overrides the POI name as the leading geocoding term.
	GeoQuery string
}

// Links holds external reference identifiers attached to a POI.
type Links struct {
	Wikipedia string
	// Wikidata is a QID ("Q12345") usable for structured lookups.
	Wikidata string
	Website  string
}

// Practical holds the visit-duration hints a catalogue may carry.
// All fields are optional; zero values mean "unknown".
type Practical struct {
	// TypicalVisitTime is free text, e.g. "60–120 min" or "Half day".
	TypicalVisitTime string
	VisitDurationMin int
	VisitDurationMax int
}

// HasCoordinates reports whether the catalogue shipped an embedded point.
func (p *POI) HasCoordinates() bool {
	return p.Location.Coordinates != nil
}
