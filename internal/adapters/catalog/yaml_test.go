package catalog

import (
	"strings"
	"testing"

	"github.com/jcmacallan-svg/ww1/internal/domain"
)

const validDoc = `
version: 1
id: test-cat
country: Belgium
topic: Test catalogue
planner:
  origin:
    lat: 50.8510
    lon: 2.8857
  avg_speed_kmph: 50
  default_days: 2
  recurring_slots:
    - lunch
regions:
  - id: ypres
    name: Ypres
pois:
  - id: menin-gate
    region_id: ypres
    name: Menin Gate Memorial
    type: memorial
    location:
      locality: Ieper
      province: West Flanders
      coordinates:
        lat: 50.8523
        lon: 2.8913
    links:
      wikidata: Q817751
    practical:
      typical_visit_time: 30-45 min
  - id: yorkshire-trench
    region_id: ypres
    name: Yorkshire Trench
    type: trench
    location:
      locality: Boezinge
      geo_query: Yorkshire Trench Boezinge
`

func TestParseValidDocument(t *testing.T) {
	cat, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cat.ID != "test-cat" {
		t.Fatalf("expected id test-cat, got %q", cat.ID)
	}
	if cat.Name != "Test catalogue" {
		t.Fatalf("expected topic as name, got %q", cat.Name)
	}
	if len(cat.Regions) != 1 || cat.Regions[0].ID != "ypres" {
		t.Fatalf("expected one region ypres, got %+v", cat.Regions)
	}
	if len(cat.POIs) != 2 {
		t.Fatalf("expected 2 pois, got %d", len(cat.POIs))
	}

	gate := cat.POI("menin-gate")
	if gate == nil {
		t.Fatal("expected menin-gate to be present")
	}
	if !gate.HasCoordinates() {
		t.Fatal("expected menin-gate to carry embedded coordinates")
	}
	if gate.Links.Wikidata != "Q817751" {
		t.Fatalf("expected wikidata link, got %q", gate.Links.Wikidata)
	}
	if gate.Practical.TypicalVisitTime != "30-45 min" {
		t.Fatalf("expected typical visit time, got %q", gate.Practical.TypicalVisitTime)
	}

	trench := cat.POI("yorkshire-trench")
	if trench == nil {
		t.Fatal("expected yorkshire-trench to be present")
	}
	if trench.HasCoordinates() {
		t.Fatal("expected yorkshire-trench to have no embedded coordinates")
	}
	if trench.Location.GeoQuery != "Yorkshire Trench Boezinge" {
		t.Fatalf("expected geo_query, got %q", trench.Location.GeoQuery)
	}

	if cat.Settings.DefaultOrigin.Lat != 50.8510 {
		t.Fatalf("expected planner origin, got %+v", cat.Settings.DefaultOrigin)
	}
	if cat.Settings.AvgSpeedKmph != 50 {
		t.Fatalf("expected speed 50, got %v", cat.Settings.AvgSpeedKmph)
	}
	if cat.Settings.DefaultDays != 2 {
		t.Fatalf("expected 2 default days, got %d", cat.Settings.DefaultDays)
	}
	if len(cat.Settings.RecurringSlots) != 1 || cat.Settings.RecurringSlots[0] != domain.SlotLunch {
		t.Fatalf("expected lunch recurring slot, got %v", cat.Settings.RecurringSlots)
	}
}

func TestParseSlugifiesTopicWhenIDMissing(t *testing.T) {
	doc := strings.Replace(validDoc, "id: test-cat\n", "", 1)
	cat, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cat.ID != "test-catalogue" {
		t.Fatalf("expected slugified topic as id, got %q", cat.ID)
	}
}

func TestParseOriginFallsBackToCentroid(t *testing.T) {
	doc := `
version: 1
country: Belgium
topic: No planner block
regions:
  - id: r
    name: R
pois:
  - id: a
    region_id: r
    name: A
    type: site
    location:
      coordinates:
        lat: 50.0
        lon: 2.0
  - id: b
    region_id: r
    name: B
    type: site
    location:
      coordinates:
        lat: 52.0
        lon: 4.0
`
	cat, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := domain.Coordinates{Lat: 51.0, Lon: 3.0}
	if cat.Settings.DefaultOrigin != want {
		t.Fatalf("expected centroid origin %+v, got %+v", want, cat.Settings.DefaultOrigin)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{
			name: "duplicate poi id",
			doc: `
version: 1
country: B
topic: T
regions:
  - {id: r, name: R}
pois:
  - {id: a, region_id: r, name: A, location: {coordinates: {lat: 50, lon: 2}}}
  - {id: a, region_id: r, name: A2, location: {coordinates: {lat: 50, lon: 2}}}
`,
		},
		{
			name: "duplicate region id",
			doc: `
version: 1
country: B
topic: T
regions:
  - {id: r, name: R}
  - {id: r, name: R2}
pois: []
`,
		},
		{
			name: "unknown region reference",
			doc: `
version: 1
country: B
topic: T
regions:
  - {id: r, name: R}
pois:
  - {id: a, region_id: nope, name: A, location: {coordinates: {lat: 50, lon: 2}}}
`,
		},
		{
			name: "out of range coordinates",
			doc: `
version: 1
country: B
topic: T
regions:
  - {id: r, name: R}
pois:
  - {id: a, region_id: r, name: A, location: {coordinates: {lat: 95, lon: 2}}}
`,
		},
		{
			name: "unknown recurring slot",
			doc: `
version: 1
country: B
topic: T
planner:
  origin: {lat: 50, lon: 2}
  recurring_slots: [brunch]
regions:
  - {id: r, name: R}
pois: []
`,
		},
		{
			name: "missing version",
			doc: `
country: B
topic: T
regions: []
pois: []
`,
		},
		{
			name: "no origin and nothing to derive one from",
			doc: `
version: 1
country: B
topic: T
regions:
  - {id: r, name: R}
pois:
  - {id: a, region_id: r, name: A, location: {locality: X}}
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.doc)); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}
