package domain

import "strings"

// Category is the closed classification a POI gets for slot-pool
// eligibility. It replaces ad hoc type/theme string matching: classify
// once, reuse everywhere.
type Category int

const (
	CategorySight Category = iota
	CategoryFood
	CategoryNightlife
	CategorySpecialty
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategorySight:
		return "sight"
	case CategoryFood:
		return "food"
	case CategoryNightlife:
		return "nightlife"
	case CategorySpecialty:
		return "specialty"
	default:
		return "other"
	}
}

var foodTypes = map[string]bool{
	"food":       true,
	"restaurant": true,
	"cafe":       true,
}

var nightlifeTypes = map[string]bool{
	"nightlife": true,
	"bar":       true,
	"club":      true,
}

var sightTypes = map[string]bool{
	"museum":         true,
	"memorial":       true,
	"monument":       true,
	"cemetery":       true,
	"fort":           true,
	"palace":         true,
	"park":           true,
	"site":           true,
	"district":       true,
	"landmark":       true,
	"viewpoint":      true,
	"town":           true,
	"battlefield":    true,
	"trench":         true,
	"visitor-centre": true,
}

// Classify derives a POI's category from its type and themes.
//
// Food venues with nightlife themes stay food (they can fill either a
// lunch or a dinner slot); nightlife venues with a cocktails theme are
// the narrower specialty kind the drinks slot prefers.
func Classify(p *POI) Category {
	typ := strings.ToLower(strings.TrimSpace(p.Type))

	themes := make(map[string]bool, len(p.Themes))
	for _, t := range p.Themes {
		themes[strings.ToLower(strings.TrimSpace(t))] = true
	}

	switch {
	case foodTypes[typ]:
		return CategoryFood
	case nightlifeTypes[typ]:
		if themes["cocktails"] {
			return CategorySpecialty
		}
		return CategoryNightlife
	case sightTypes[typ]:
		return CategorySight
	}

	// No recognized type: fall back to theme hints.
	if themes["food"] {
		return CategoryFood
	}
	if themes["cocktails"] {
		return CategorySpecialty
	}
	if themes["nightlife"] || themes["vibe"] {
		return CategoryNightlife
	}
	if typ == "" && len(themes) == 0 {
		return CategoryOther
	}
	return CategorySight
}
