package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jcmacallan-svg/ww1/internal/adapters/catalog"
	"github.com/jcmacallan-svg/ww1/internal/adapters/storage"
	"github.com/jcmacallan-svg/ww1/internal/api/dto"
	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/ports"
	"github.com/jcmacallan-svg/ww1/internal/services"
)

func flandersCatalogue() *ports.Catalog {
	mk := func(id, typ string, lat, lon float64) *domain.POI {
		return &domain.POI{
			ID: id, RegionID: "salient", Name: id, Type: typ,
			Location: domain.Location{
				Locality:    "Ypres",
				Coordinates: &domain.Coordinates{Lat: lat, Lon: lon},
			},
		}
	}
	return &ports.Catalog{
		ID:      "flanders",
		Name:    "Flanders Fields",
		Country: "Belgium",
		Regions: []ports.Region{{ID: "salient", Name: "Ypres Salient"}},
		POIs: []*domain.POI{
			mk("menin-gate", "memorial", 50.8523, 2.8913),
			mk("cloth-hall", "museum", 50.8513, 2.8860),
			mk("ramparts", "park", 50.8490, 2.8800),
			mk("estaminet", "restaurant", 50.8507, 2.8850),
			{ID: "lost-farm", RegionID: "salient", Name: "lost-farm", Type: "site",
				Location: domain.Location{Locality: "Ypres"}},
		},
		Settings: domain.CatalogSettings{
			DefaultOrigin:  domain.Coordinates{Lat: 50.8510, Lon: 2.8857},
			AvgSpeedKmph:   50,
			DefaultDays:    2,
			RecurringSlots: []domain.SlotName{domain.SlotLunch, domain.SlotDinner},
		},
	}
}

func berlinCatalogue() *ports.Catalog {
	return &ports.Catalog{
		ID:      "berlin",
		Name:    "Berlin",
		Country: "Germany",
		Regions: []ports.Region{{ID: "mitte", Name: "Mitte"}},
		POIs: []*domain.POI{
			{ID: "brandenburger-tor", RegionID: "mitte", Name: "Brandenburger Tor", Type: "landmark",
				Location: domain.Location{Coordinates: &domain.Coordinates{Lat: 52.5163, Lon: 13.3777}}},
			{ID: "pergamon", RegionID: "mitte", Name: "Pergamonmuseum", Type: "museum",
				Location: domain.Location{Coordinates: &domain.Coordinates{Lat: 52.5211, Lon: 13.3969}}},
		},
		Settings: domain.CatalogSettings{
			DefaultOrigin: domain.Coordinates{Lat: 52.5163, Lon: 13.3777},
			AvgSpeedKmph:  4.5,
			DefaultDays:   2,
		},
	}
}

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	src, err := catalog.NewSource(flandersCatalogue(), berlinCatalogue())
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	resolver := services.NewResolver(nil, nil, storage.NewMemoryOverrides())
	manager := services.NewManager(src, storage.NewMemory(), resolver, services.DefaultConfig())
	return NewRouter(manager)
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %s: %v", rec.Body, err)
	}
	return out
}

func activateCatalogue(t *testing.T, h http.Handler, id string) {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/catalogues/activate", map[string]string{"id": id})
	if rec.Code != http.StatusOK {
		t.Fatalf("activate %s: status %d body %s", id, rec.Code, rec.Body)
	}
}

func allStopIDs(p dto.PlanResponse) []string {
	var ids []string
	for _, d := range p.Days {
		for _, s := range d.Stops {
			ids = append(ids, s.POIID)
		}
	}
	for _, s := range p.Leftovers {
		ids = append(ids, s.POIID)
	}
	return ids
}

func TestHealth(t *testing.T) {
	h := newTestAPI(t)

	rec := doRequest(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	res := decodeAs[map[string]string](t, rec)
	if res["status"] != "ok" {
		t.Fatalf("body = %s", rec.Body)
	}

	if rec := doRequest(t, h, http.MethodPost, "/health", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health status = %d", rec.Code)
	}
}

func TestListCataloguesMarksActive(t *testing.T) {
	h := newTestAPI(t)

	res := decodeAs[dto.ListCataloguesResponse](t, doRequest(t, h, http.MethodGet, "/catalogues", nil))
	if len(res.Catalogues) != 2 {
		t.Fatalf("expected 2 catalogues, got %+v", res.Catalogues)
	}
	for _, c := range res.Catalogues {
		if c.Active {
			t.Fatalf("no catalogue should be active yet, got %+v", c)
		}
	}

	activateCatalogue(t, h, "flanders")

	res = decodeAs[dto.ListCataloguesResponse](t, doRequest(t, h, http.MethodGet, "/catalogues", nil))
	for _, c := range res.Catalogues {
		if c.ID == "flanders" && !c.Active {
			t.Fatalf("flanders should be active, got %+v", res.Catalogues)
		}
		if c.ID == "berlin" && c.Active {
			t.Fatalf("berlin should not be active, got %+v", res.Catalogues)
		}
	}
}

func TestActivateUnknownCatalogue(t *testing.T) {
	h := newTestAPI(t)

	rec := doRequest(t, h, http.MethodPost, "/catalogues/activate", map[string]string{"id": "atlantis"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, h, http.MethodPost, "/catalogues/activate", map[string]string{"id": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank id status = %d", rec.Code)
	}
}

func TestEndpointsRequireActiveCatalogue(t *testing.T) {
	h := newTestAPI(t)

	paths := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/pois", nil},
		{http.MethodGet, "/pois/nearby?lat=50.8&lon=2.9", nil},
		{http.MethodGet, "/favorites", nil},
		{http.MethodGet, "/settings", nil},
		{http.MethodGet, "/plan", nil},
		{http.MethodPost, "/plan/generate", nil},
		{http.MethodGet, "/plan/days/0/route", nil},
	}
	for _, p := range paths {
		rec := doRequest(t, h, p.method, p.path, p.body)
		if rec.Code != http.StatusConflict {
			t.Fatalf("%s %s: status = %d, want 409", p.method, p.path, rec.Code)
		}
	}
}

func TestListPOIs(t *testing.T) {
	h := newTestAPI(t)
	activateCatalogue(t, h, "flanders")

	res := decodeAs[dto.ListPOIsResponse](t, doRequest(t, h, http.MethodGet, "/pois", nil))
	if len(res.POIs) != 5 {
		t.Fatalf("expected 5 pois, got %d", len(res.POIs))
	}
	for _, p := range res.POIs {
		if p.VisitMinutes <= 0 {
			t.Fatalf("poi %s has no visit estimate", p.ID)
		}
		if p.Category == "" {
			t.Fatalf("poi %s has no category", p.ID)
		}
	}

	res = decodeAs[dto.ListPOIsResponse](t, doRequest(t, h, http.MethodGet, "/pois?region=nowhere", nil))
	if len(res.POIs) != 0 {
		t.Fatalf("unknown region should filter to nothing, got %+v", res.POIs)
	}
}

func TestNearbyPOIs(t *testing.T) {
	h := newTestAPI(t)
	activateCatalogue(t, h, "flanders")

	res := decodeAs[dto.ListPOIsResponse](t, doRequest(t, h,
		http.MethodGet, "/pois/nearby?lat=50.8510&lon=2.8857&radius_km=5", nil))
	// lost-farm has no embedded coordinates and is not searchable.
	if len(res.POIs) != 4 {
		t.Fatalf("expected 4 pois, got %+v", res.POIs)
	}
	if res.POIs[0].ID != "cloth-hall" {
		t.Fatalf("expected cloth-hall nearest, got %s", res.POIs[0].ID)
	}

	res = decodeAs[dto.ListPOIsResponse](t, doRequest(t, h,
		http.MethodGet, "/pois/nearby?lat=50.8510&lon=2.8857&radius_km=5&limit=2", nil))
	if len(res.POIs) != 2 {
		t.Fatalf("limit=2 returned %d pois", len(res.POIs))
	}

	for _, q := range []string{
		"/pois/nearby?lon=2.9",
		"/pois/nearby?lat=abc&lon=2.9",
		"/pois/nearby?lat=95&lon=2.9",
		"/pois/nearby?lat=50.8&lon=2.9&radius_km=-1",
		"/pois/nearby?lat=50.8&lon=2.9&limit=0",
	} {
		if rec := doRequest(t, h, http.MethodGet, q, nil); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestFavoritesRoundTrip(t *testing.T) {
	h := newTestAPI(t)
	activateCatalogue(t, h, "flanders")

	res := decodeAs[dto.FavoritesResponse](t, doRequest(t, h, http.MethodGet, "/favorites", nil))
	if len(res.IDs) != 0 {
		t.Fatalf("fresh catalogue has favorites: %+v", res.IDs)
	}

	rec := doRequest(t, h, http.MethodPut, "/favorites",
		dto.FavoritesRequest{IDs: []string{"menin-gate", "atlantis", "cloth-hall", "menin-gate"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("put favorites: status %d body %s", rec.Code, rec.Body)
	}
	saved := decodeAs[dto.FavoritesResponse](t, rec)
	// Unknown ids and duplicates are dropped; the rest comes back sorted.
	want := []string{"cloth-hall", "menin-gate"}
	if len(saved.IDs) != len(want) || saved.IDs[0] != want[0] || saved.IDs[1] != want[1] {
		t.Fatalf("saved = %+v, want %+v", saved.IDs, want)
	}

	res = decodeAs[dto.FavoritesResponse](t, doRequest(t, h, http.MethodGet, "/favorites", nil))
	if len(res.IDs) != 2 {
		t.Fatalf("favorites after put = %+v", res.IDs)
	}
}

func TestFavoritesPersistAcrossActivations(t *testing.T) {
	h := newTestAPI(t)
	activateCatalogue(t, h, "flanders")

	rec := doRequest(t, h, http.MethodPut, "/favorites", dto.FavoritesRequest{IDs: []string{"menin-gate"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("put favorites: status %d", rec.Code)
	}

	// The other catalogue starts empty; coming back restores the selection.
	activateCatalogue(t, h, "berlin")
	res := decodeAs[dto.FavoritesResponse](t, doRequest(t, h, http.MethodGet, "/favorites", nil))
	if len(res.IDs) != 0 {
		t.Fatalf("berlin favorites = %+v, want none", res.IDs)
	}

	activateCatalogue(t, h, "flanders")
	res = decodeAs[dto.FavoritesResponse](t, doRequest(t, h, http.MethodGet, "/favorites", nil))
	if len(res.IDs) != 1 || res.IDs[0] != "menin-gate" {
		t.Fatalf("flanders favorites = %+v, want [menin-gate]", res.IDs)
	}
}

func TestFavoritesRejectsUnknownFields(t *testing.T) {
	h := newTestAPI(t)
	activateCatalogue(t, h, "flanders")

	rec := doRequest(t, h, http.MethodPut, "/favorites", map[string]any{"idz": []string{"x"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	h := newTestAPI(t)
	activateCatalogue(t, h, "flanders")

	res := decodeAs[dto.SettingsResponse](t, doRequest(t, h, http.MethodGet, "/settings", nil))
	if res.Days != 2 {
		t.Fatalf("default days = %d, want 2", res.Days)
	}
	if !res.SlotToggles["lunch"] || !res.SlotToggles["dinner"] {
		t.Fatalf("recurring slots should start enabled: %+v", res.SlotToggles)
	}

	rec := doRequest(t, h, http.MethodPut, "/settings", dto.SettingsRequest{
		Days:          12,
		ArrivalSlot:   "afternoon",
		DepartureSlot: "morning",
		MapProvider:   "osm",
		DayStart:      "10:00",
		SlotToggles:   map[string]bool{"lunch": false, "dinner": true, "brunch": true},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put settings: status %d body %s", rec.Code, rec.Body)
	}
	saved := decodeAs[dto.SettingsResponse](t, rec)
	if saved.Days != 10 {
		t.Fatalf("days should clamp to 10, got %d", saved.Days)
	}
	if saved.MapProvider != "osm" || saved.DayStart != "10:00" {
		t.Fatalf("saved = %+v", saved)
	}
	if saved.SlotToggles["lunch"] || !saved.SlotToggles["dinner"] {
		t.Fatalf("toggles = %+v", saved.SlotToggles)
	}
	// Slots the catalogue does not recognize are dropped entirely.
	if _, ok := saved.SlotToggles["brunch"]; ok {
		t.Fatalf("unrecognized slot kept: %+v", saved.SlotToggles)
	}
}

func TestPlanLifecycle(t *testing.T) {
	h := newTestAPI(t)
	activateCatalogue(t, h, "flanders")

	favs := []string{"menin-gate", "cloth-hall", "estaminet", "lost-farm"}
	rec := doRequest(t, h, http.MethodPut, "/favorites", dto.FavoritesRequest{IDs: favs})
	if rec.Code != http.StatusOK {
		t.Fatalf("put favorites: status %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/plan", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get plan: status %d body %s", rec.Code, rec.Body)
	}
	plan := decodeAs[dto.PlanResponse](t, rec)
	if len(plan.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(plan.Days))
	}
	ids := allStopIDs(plan)
	if len(ids) != len(favs) {
		t.Fatalf("placed+leftover ids = %v, want all of %v", ids, favs)
	}

	// The POI without coordinates cannot be routed and must be a leftover.
	foundLeftover := false
	for _, s := range plan.Leftovers {
		if s.POIID == "lost-farm" {
			foundLeftover = true
			if s.Coordinates != nil {
				t.Fatalf("unresolved leftover carries coordinates: %+v", s)
			}
		}
	}
	if !foundLeftover {
		t.Fatalf("lost-farm should be a leftover, got %+v", plan.Leftovers)
	}

	// Remove, then restore onto day 1.
	rec = doRequest(t, h, http.MethodPost, "/plan/commands",
		dto.CommandRequest{Command: "remove_stop", POIID: "menin-gate"})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove_stop: status %d body %s", rec.Code, rec.Body)
	}
	plan = decodeAs[dto.PlanResponse](t, rec)
	removed := false
	for _, s := range plan.Leftovers {
		if s.POIID == "menin-gate" {
			removed = true
		}
	}
	if !removed {
		t.Fatalf("menin-gate not in leftovers after remove: %+v", plan.Leftovers)
	}

	rec = doRequest(t, h, http.MethodPost, "/plan/commands",
		dto.CommandRequest{Command: "restore_stop", POIID: "menin-gate", ToDay: 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("restore_stop: status %d", rec.Code)
	}
	plan = decodeAs[dto.PlanResponse](t, rec)
	day1 := plan.Days[1].Stops
	if len(day1) == 0 || day1[len(day1)-1].POIID != "menin-gate" {
		t.Fatalf("menin-gate should be last on day 1, got %+v", day1)
	}
	if !day1[len(day1)-1].Manual {
		t.Fatalf("restored stop should be flagged manual")
	}

	// Pin a clock time; it rides along on every later read.
	rec = doRequest(t, h, http.MethodPost, "/plan/commands",
		dto.CommandRequest{Command: "pin_stop_clock", POIID: "menin-gate", Clock: "20:00"})
	if rec.Code != http.StatusOK {
		t.Fatalf("pin_stop_clock: status %d", rec.Code)
	}
	plan = decodeAs[dto.PlanResponse](t, doRequest(t, h, http.MethodGet, "/plan", nil))
	pinned := ""
	for _, d := range plan.Days {
		for _, s := range d.Stops {
			if s.POIID == "menin-gate" {
				pinned = s.Clock
			}
		}
	}
	if pinned != "20:00" {
		t.Fatalf("clock = %q, want 20:00", pinned)
	}

	// Regenerating drops every manual edit.
	rec = doRequest(t, h, http.MethodPost, "/plan/generate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate: status %d", rec.Code)
	}
	plan = decodeAs[dto.PlanResponse](t, rec)
	for _, d := range plan.Days {
		for _, s := range d.Stops {
			if s.Manual || s.Clock != "" {
				t.Fatalf("regenerated plan kept manual state: %+v", s)
			}
		}
	}
}

func TestPlanCommandValidation(t *testing.T) {
	h := newTestAPI(t)
	activateCatalogue(t, h, "flanders")

	rec := doRequest(t, h, http.MethodPost, "/plan/commands",
		dto.CommandRequest{Command: "remove_stop", POIID: "menin-gate"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("command without a plan: status %d, want 409", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPost, "/plan/commands",
		dto.CommandRequest{Command: "explode_plan"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown command: status %d, want 400", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPost, "/plan/commands",
		dto.CommandRequest{Command: "move_stop"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("move_stop without poi_id: status %d, want 400", rec.Code)
	}
}

func TestDraftRestoreAndDiscard(t *testing.T) {
	h := newTestAPI(t)
	activateCatalogue(t, h, "flanders")

	rec := doRequest(t, h, http.MethodPost, "/plan/restore", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("restore without draft: status %d, want 404", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPut, "/favorites",
		dto.FavoritesRequest{IDs: []string{"menin-gate", "cloth-hall"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("put favorites: status %d", rec.Code)
	}
	if rec = doRequest(t, h, http.MethodGet, "/plan", nil); rec.Code != http.StatusOK {
		t.Fatalf("get plan: status %d", rec.Code)
	}

	// An edit persists a draft; discarding it rebuilds from scratch.
	rec = doRequest(t, h, http.MethodPost, "/plan/commands",
		dto.CommandRequest{Command: "remove_stop", POIID: "cloth-hall"})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove_stop: status %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPost, "/plan/discard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("discard: status %d body %s", rec.Code, rec.Body)
	}
	plan := decodeAs[dto.PlanResponse](t, rec)
	if day, _ := findStopIn(plan, "cloth-hall"); day < 0 {
		t.Fatalf("discard should restore the automatic placement, got %+v", plan)
	}

	// Regeneration persisted a fresh draft, so restoring now yields the
	// same automatic plan instead of a 404.
	rec = doRequest(t, h, http.MethodPost, "/plan/restore", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore after discard: status %d, want 200", rec.Code)
	}
	plan = decodeAs[dto.PlanResponse](t, rec)
	if day, _ := findStopIn(plan, "cloth-hall"); day < 0 {
		t.Fatalf("restored plan lost the automatic placement, got %+v", plan)
	}
}

func TestDayRoute(t *testing.T) {
	h := newTestAPI(t)
	activateCatalogue(t, h, "flanders")

	rec := doRequest(t, h, http.MethodPut, "/favorites",
		dto.FavoritesRequest{IDs: []string{"menin-gate", "cloth-hall"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("put favorites: status %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/plan/days/0/route", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("day route: status %d body %s", rec.Code, rec.Body)
	}
	route := decodeAs[dto.RouteResponse](t, rec)
	if route.Provider != "google" {
		t.Fatalf("provider = %s", route.Provider)
	}
	if !strings.HasPrefix(route.URL, "https://www.google.com/maps/dir/") {
		t.Fatalf("url = %s", route.URL)
	}
	if len(route.Coordinates) < 2 {
		t.Fatalf("route must include origin twice, got %+v", route.Coordinates)
	}
	first, last := route.Coordinates[0], route.Coordinates[len(route.Coordinates)-1]
	if first != last {
		t.Fatalf("route should start and end at the origin: %+v", route.Coordinates)
	}

	if rec := doRequest(t, h, http.MethodGet, "/plan/days/9/route", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("out of range day: status %d, want 404", rec.Code)
	}
	if rec := doRequest(t, h, http.MethodGet, "/plan/days/x/route", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric day: status %d, want 400", rec.Code)
	}
	if rec := doRequest(t, h, http.MethodGet, "/plan/days/0", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing /route suffix: status %d, want 404", rec.Code)
	}
}

func findStopIn(p dto.PlanResponse, poiID string) (int, int) {
	for d := range p.Days {
		for i := range p.Days[d].Stops {
			if p.Days[d].Stops[i].POIID == poiID {
				return d, i
			}
		}
	}
	return -1, -1
}
