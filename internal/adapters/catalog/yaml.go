package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/ports"
)

// Wire types for the dataset YAML. The POI shape matches the upstream
// dataset format (version/country/topic/regions/pois); the optional
// planner block carries the per-catalogue planning metadata.
type document struct {
	Version int         `yaml:"version"`
	ID      string      `yaml:"id"`
	Country string      `yaml:"country"`
	Topic   string      `yaml:"topic"`
	Planner *plannerDoc `yaml:"planner"`
	Regions []regionDoc `yaml:"regions"`
	POIs    []poiDoc    `yaml:"pois"`
}

type plannerDoc struct {
	Origin         *coordDoc `yaml:"origin"`
	AvgSpeedKmph   float64   `yaml:"avg_speed_kmph"`
	DefaultDays    int       `yaml:"default_days"`
	RecurringSlots []string  `yaml:"recurring_slots"`
}

type regionDoc struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type poiDoc struct {
	ID        string       `yaml:"id"`
	RegionID  string       `yaml:"region_id"`
	Name      string       `yaml:"name"`
	Type      string       `yaml:"type"`
	Themes    []string     `yaml:"themes"`
	Location  locationDoc  `yaml:"location"`
	Links     linksDoc     `yaml:"links"`
	Practical practicalDoc `yaml:"practical"`
}

type locationDoc struct {
	Locality    string    `yaml:"locality"`
	Province    string    `yaml:"province"`
	Coordinates *coordDoc `yaml:"coordinates"`
	GeoQuery    string    `yaml:"geo_query"`
}

type coordDoc struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

type linksDoc struct {
	Wikipedia string `yaml:"wikipedia"`
	Wikidata  string `yaml:"wikidata"`
	Website   string `yaml:"website"`
}

type practicalDoc struct {
	TypicalVisitTime string `yaml:"typical_visit_time"`
	VisitDurationMin int    `yaml:"visit_duration_min"`
	VisitDurationMax int    `yaml:"visit_duration_max"`
}

// Parse decodes and validates one catalogue dataset.
func Parse(data []byte) (*ports.Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}
	return buildCatalog(&doc)
}

// Load reads and parses a catalogue dataset from disk.
func Load(path string) (*ports.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalogue: read %q: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load catalogue %q: %w", path, err)
	}
	return cat, nil
}

func buildCatalog(doc *document) (*ports.Catalog, error) {
	if doc.Version < 1 {
		return nil, fmt.Errorf("catalogue: missing or invalid version: %d", doc.Version)
	}
	if strings.TrimSpace(doc.Country) == "" {
		return nil, fmt.Errorf("catalogue: missing country")
	}
	if strings.TrimSpace(doc.Topic) == "" {
		return nil, fmt.Errorf("catalogue: missing topic")
	}

	id := strings.TrimSpace(doc.ID)
	if id == "" {
		id = slugify(doc.Topic)
	}

	regionIDs := make(map[string]struct{}, len(doc.Regions))
	regions := make([]ports.Region, 0, len(doc.Regions))
	for i, r := range doc.Regions {
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("catalogue %q: region #%d missing id", id, i+1)
		}
		if _, ok := regionIDs[r.ID]; ok {
			return nil, fmt.Errorf("catalogue %q: duplicate region id %q", id, r.ID)
		}
		regionIDs[r.ID] = struct{}{}
		regions = append(regions, ports.Region{ID: r.ID, Name: r.Name})
	}

	poiIDs := make(map[string]struct{}, len(doc.POIs))
	pois := make([]*domain.POI, 0, len(doc.POIs))
	for i, p := range doc.POIs {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("catalogue %q: poi #%d missing id", id, i+1)
		}
		if _, ok := poiIDs[p.ID]; ok {
			return nil, fmt.Errorf("catalogue %q: duplicate poi id %q", id, p.ID)
		}
		poiIDs[p.ID] = struct{}{}

		if _, ok := regionIDs[p.RegionID]; !ok {
			return nil, fmt.Errorf("catalogue %q: poi %q refers to unknown region_id %q", id, p.ID, p.RegionID)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("catalogue %q: poi %q missing name", id, p.ID)
		}

		poi := &domain.POI{
			ID:       p.ID,
			RegionID: p.RegionID,
			Name:     p.Name,
			Type:     p.Type,
			Themes:   p.Themes,
			Location: domain.Location{
				Locality: p.Location.Locality,
				Province: p.Location.Province,
				GeoQuery: p.Location.GeoQuery,
			},
			Links: domain.Links{
				Wikipedia: p.Links.Wikipedia,
				Wikidata:  p.Links.Wikidata,
				Website:   p.Links.Website,
			},
			Practical: domain.Practical{
				TypicalVisitTime: p.Practical.TypicalVisitTime,
				VisitDurationMin: p.Practical.VisitDurationMin,
				VisitDurationMax: p.Practical.VisitDurationMax,
			},
		}
		if p.Location.Coordinates != nil {
			c := domain.Coordinates{Lat: p.Location.Coordinates.Lat, Lon: p.Location.Coordinates.Lon}
			if err := c.Validate(); err != nil {
				return nil, fmt.Errorf("catalogue %q: poi %q: %w", id, p.ID, err)
			}
			poi.Location.Coordinates = &c
		}
		pois = append(pois, poi)
	}

	settings, err := buildSettings(id, doc.Planner, pois)
	if err != nil {
		return nil, err
	}

	return &ports.Catalog{
		ID:       id,
		Name:     doc.Topic,
		Country:  doc.Country,
		Regions:  regions,
		POIs:     pois,
		Settings: settings,
	}, nil
}

// buildSettings resolves the planner block. A dataset without an explicit
// origin falls back to the centroid of its embedded coordinates.
func buildSettings(id string, p *plannerDoc, pois []*domain.POI) (domain.CatalogSettings, error) {
	var s domain.CatalogSettings
	if p != nil {
		if p.Origin != nil {
			s.DefaultOrigin = domain.Coordinates{Lat: p.Origin.Lat, Lon: p.Origin.Lon}
			if err := s.DefaultOrigin.Validate(); err != nil {
				return s, fmt.Errorf("catalogue %q: planner origin: %w", id, err)
			}
		}
		s.AvgSpeedKmph = p.AvgSpeedKmph
		s.DefaultDays = p.DefaultDays
		for _, raw := range p.RecurringSlots {
			name := domain.SlotName(raw)
			if !domain.ValidSlotName(name) {
				return s, fmt.Errorf("catalogue %q: unknown recurring slot %q", id, raw)
			}
			s.RecurringSlots = append(s.RecurringSlots, name)
		}
	}

	if p == nil || p.Origin == nil {
		origin, ok := centroid(pois)
		if !ok {
			return s, fmt.Errorf("catalogue %q: no planner origin and no embedded coordinates to derive one", id)
		}
		s.DefaultOrigin = origin
	}
	return s, nil
}

func centroid(pois []*domain.POI) (domain.Coordinates, bool) {
	var lat, lon float64
	n := 0
	for _, p := range pois {
		if !p.HasCoordinates() {
			continue
		}
		lat += p.Location.Coordinates.Lat
		lon += p.Location.Coordinates.Lon
		n++
	}
	if n == 0 {
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Lat: lat / float64(n), Lon: lon / float64(n)}, true
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
