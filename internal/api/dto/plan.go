package dto

import (
	"math"

	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/geo"
)

type StopResponse struct {
	POIID        string               `json:"poi_id"`
	Name         string               `json:"name"`
	Coordinates  *CoordinatesResponse `json:"coordinates,omitempty"`
	VisitMinutes int                  `json:"visit_minutes"`
	Slot         string               `json:"slot,omitempty"`
	Manual       bool                 `json:"manual,omitempty"`
	Clock        string               `json:"clock,omitempty"`
}

type DayResponse struct {
	Day           int            `json:"day"`
	DayStart      string         `json:"day_start"`
	BudgetMinutes int            `json:"budget_minutes"`
	TravelKm      float64        `json:"travel_km"`
	TravelMinutes int            `json:"travel_minutes"`
	VisitMinutes  int            `json:"visit_minutes"`
	Stops         []StopResponse `json:"stops"`
}

type PlanResponse struct {
	Origin    CoordinatesResponse `json:"origin"`
	SpeedKmph float64             `json:"speed_kmph"`
	Days      []DayResponse       `json:"days"`
	Leftovers []StopResponse      `json:"leftovers"`
}

type SettingsResponse struct {
	Days          int             `json:"days"`
	ArrivalSlot   string          `json:"arrival_slot"`
	DepartureSlot string          `json:"departure_slot"`
	MapProvider   string          `json:"map_provider"`
	DayStart      string          `json:"day_start"`
	SlotToggles   map[string]bool `json:"slot_toggles"`
}

type SettingsRequest struct {
	Days          int             `json:"days"`
	ArrivalSlot   string          `json:"arrival_slot"`
	DepartureSlot string          `json:"departure_slot"`
	MapProvider   string          `json:"map_provider"`
	DayStart      string          `json:"day_start"`
	SlotToggles   map[string]bool `json:"slot_toggles"`
}

type FavoritesRequest struct {
	IDs []string `json:"ids"`
}

type FavoritesResponse struct {
	IDs []string `json:"ids"`
}

// CommandRequest is the flat union of every plan command's fields;
// Command picks which ones apply.
type CommandRequest struct {
	Command string `json:"command"`
	Day     int    `json:"day"`
	Index   int    `json:"index"`
	Delta   int    `json:"delta"`
	POIID   string `json:"poi_id"`
	ToDay   int    `json:"to_day"`
	Clock   string `json:"clock"`
	Slot    string `json:"slot"`
}

type RouteResponse struct {
	Day         int                   `json:"day"`
	Provider    string                `json:"provider"`
	URL         string                `json:"url"`
	Coordinates []CoordinatesResponse `json:"coordinates"`
}

// NewPlanResponse flattens a plan for transport. Clock pins and per-day
// start overrides come off the overlay; days without an override show
// the settings default.
func NewPlanResponse(p *domain.Plan, settings domain.PlanSettings) PlanResponse {
	out := PlanResponse{
		Origin:    CoordinatesResponse{Lat: p.Origin.Lat, Lon: p.Origin.Lon},
		SpeedKmph: p.SpeedKmph,
		Days:      make([]DayResponse, 0, len(p.Days)),
		Leftovers: make([]StopResponse, 0, len(p.Leftovers)),
	}
	for day := range p.Days {
		d := &p.Days[day]
		dr := DayResponse{
			Day:           day,
			DayStart:      settings.DayStart,
			BudgetMinutes: d.BudgetMinutes,
			TravelKm:      d.TravelKm,
			TravelMinutes: int(math.Round(geo.TravelMinutes(d.TravelKm, p.SpeedKmph))),
			VisitMinutes:  d.VisitMinutes,
			Stops:         make([]StopResponse, 0, len(d.Stops)),
		}
		if start, ok := p.Overlay.DayStart[day]; ok {
			dr.DayStart = start
		}
		for i := range d.Stops {
			dr.Stops = append(dr.Stops, newStopResponse(&d.Stops[i], p.Overlay.StopClock))
		}
		out.Days = append(out.Days, dr)
	}
	for i := range p.Leftovers {
		out.Leftovers = append(out.Leftovers, newStopResponse(&p.Leftovers[i], p.Overlay.StopClock))
	}
	return out
}

func newStopResponse(s *domain.Stop, clocks map[string]string) StopResponse {
	out := StopResponse{
		POIID:        s.POIID,
		Name:         s.Name,
		VisitMinutes: s.VisitMinutes,
		Slot:         string(s.Slot),
		Manual:       s.Manual,
		Clock:        clocks[s.POIID],
	}
	if !s.Coord.IsZero() {
		out.Coordinates = &CoordinatesResponse{Lat: s.Coord.Lat, Lon: s.Coord.Lon}
	}
	return out
}

// NewSettingsResponse flattens the per-catalogue settings.
func NewSettingsResponse(s domain.PlanSettings) SettingsResponse {
	toggles := make(map[string]bool, len(s.SlotToggles))
	for name, on := range s.SlotToggles {
		toggles[string(name)] = on
	}
	return SettingsResponse{
		Days:          s.Days,
		ArrivalSlot:   string(s.ArrivalSlot),
		DepartureSlot: string(s.DepartureSlot),
		MapProvider:   string(s.MapProvider),
		DayStart:      s.DayStart,
		SlotToggles:   toggles,
	}
}

// PlanSettings converts an inbound settings payload to the domain shape.
// Values are not validated here; the session normalizes on write.
func (r SettingsRequest) PlanSettings() domain.PlanSettings {
	toggles := make(map[domain.SlotName]bool, len(r.SlotToggles))
	for name, on := range r.SlotToggles {
		toggles[domain.SlotName(name)] = on
	}
	return domain.PlanSettings{
		Days:          r.Days,
		ArrivalSlot:   domain.DaySlot(r.ArrivalSlot),
		DepartureSlot: domain.DaySlot(r.DepartureSlot),
		MapProvider:   domain.MapProvider(r.MapProvider),
		DayStart:      r.DayStart,
		SlotToggles:   toggles,
	}
}
