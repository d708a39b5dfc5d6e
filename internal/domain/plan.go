package domain

// SlotName tags a stop inserted for a recurring daily need.
type SlotName string

const (
	SlotLunch  SlotName = "lunch"
	SlotDinner SlotName = "dinner"
	SlotDrinks SlotName = "drinks"
)

// Slots lists the recurring needs in the order they are filled each day.
var Slots = []SlotName{SlotLunch, SlotDinner, SlotDrinks}

// ValidSlotName reports whether n is one of the recognized slot names.
func ValidSlotName(n SlotName) bool {
	for _, s := range Slots {
		if n == s {
			return true
		}
	}
	return false
}

// Stop is a single placed visit in a day plan.
// Slot is empty for regular sightseeing stops; Manual marks stops the
// user placed or moved by hand.
type Stop struct {
	POIID        string      `json:"poi_id"`
	Name         string      `json:"name"`
	Coord        Coordinates `json:"coord"`
	VisitMinutes int         `json:"visit_minutes"`
	Slot         SlotName    `json:"slot,omitempty"`
	Manual       bool        `json:"manual,omitempty"`
}

// Coordinate returns the stop's position.
func (s Stop) Coordinate() Coordinates { return s.Coord }

// DayPlan is the ordered stop list for one trip day together with its
// derived statistics. TravelKm and VisitMinutes must always reflect the
// current Stops ordering: every mutation is followed by a full replay
// recompute before the day is valid for display or export.
type DayPlan struct {
	BudgetMinutes int     `json:"budget_minutes"`
	Stops         []Stop  `json:"stops"`
	TravelKm      float64 `json:"travel_km"`
	VisitMinutes  int     `json:"visit_minutes"`
}

// ManualOverlay carries the user's display annotations on top of a
// generated plan. It never changes stop ordering by itself.
type ManualOverlay struct {
	// StopClock pins a clock time ("HH:MM") to a stop for the timeline.
	StopClock map[string]string `json:"stop_clock,omitempty"`
	// DayStart pins the start time of a day, overriding the settings default.
	DayStart map[int]string `json:"day_start,omitempty"`
}

// Plan is a full generated itinerary: per-day stop lists, the POIs that
// could not be placed, and the manual overlay. Origin and SpeedKmph are
// snapshots of the inputs so statistics can be replayed without the
// catalogue at hand.
//
// Invariant: every POI that was an input to planning appears in exactly
// one of {some day's Stops, Leftovers} - never both, never neither,
// never duplicated.
type Plan struct {
	Origin    Coordinates   `json:"origin"`
	SpeedKmph float64       `json:"speed_kmph"`
	Days      []DayPlan     `json:"days"`
	Leftovers []Stop        `json:"leftovers"`
	Overlay   ManualOverlay `json:"overlay"`
}

// FindStop locates a POI inside the plan's days.
// Returns (-1, -1) when the id is not placed on any day.
func (p *Plan) FindStop(poiID string) (day, index int) {
	for d := range p.Days {
		for i := range p.Days[d].Stops {
			if p.Days[d].Stops[i].POIID == poiID {
				return d, i
			}
		}
	}
	return -1, -1
}

// FindLeftover returns the index of a POI in the leftovers, or -1.
func (p *Plan) FindLeftover(poiID string) int {
	for i := range p.Leftovers {
		if p.Leftovers[i].POIID == poiID {
			return i
		}
	}
	return -1
}

// StopIDs returns every placed and leftover POI id. Used to check the
// exactly-once invariant.
func (p *Plan) StopIDs() []string {
	ids := make([]string, 0, len(p.Leftovers))
	for d := range p.Days {
		for i := range p.Days[d].Stops {
			ids = append(ids, p.Days[d].Stops[i].POIID)
		}
	}
	for i := range p.Leftovers {
		ids = append(ids, p.Leftovers[i].POIID)
	}
	return ids
}

// Clone returns a deep copy, so a caller can hold a plan while the
// owning session keeps mutating its own.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := &Plan{Origin: p.Origin, SpeedKmph: p.SpeedKmph}

	out.Days = make([]DayPlan, len(p.Days))
	for i, d := range p.Days {
		d.Stops = append([]Stop(nil), d.Stops...)
		out.Days[i] = d
	}
	out.Leftovers = append([]Stop(nil), p.Leftovers...)

	if p.Overlay.StopClock != nil {
		out.Overlay.StopClock = make(map[string]string, len(p.Overlay.StopClock))
		for k, v := range p.Overlay.StopClock {
			out.Overlay.StopClock[k] = v
		}
	}
	if p.Overlay.DayStart != nil {
		out.Overlay.DayStart = make(map[int]string, len(p.Overlay.DayStart))
		for k, v := range p.Overlay.DayStart {
			out.Overlay.DayStart[k] = v
		}
	}
	return out
}

// RouteCoordinates returns the exact ordered coordinate list for one day:
// origin, each stop in order, origin again. Map deep-link builders consume
// this list as origin/waypoints/destination.
func (p *Plan) RouteCoordinates(day int) []Coordinates {
	if day < 0 || day >= len(p.Days) {
		return nil
	}
	coords := make([]Coordinates, 0, len(p.Days[day].Stops)+2)
	coords = append(coords, p.Origin)
	for _, s := range p.Days[day].Stops {
		coords = append(coords, s.Coord)
	}
	coords = append(coords, p.Origin)
	return coords
}
