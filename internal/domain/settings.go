package domain

// DaySlot is a coarse arrival/departure time of day.
type DaySlot string

const (
	SlotMorning   DaySlot = "morning"
	SlotAfternoon DaySlot = "afternoon"
	SlotEvening   DaySlot = "evening"
)

// ValidDaySlot reports whether s is one of the three recognized values.
func ValidDaySlot(s DaySlot) bool {
	switch s {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return true
	}
	return false
}

// MapProvider selects which external map application deep links target.
type MapProvider string

const (
	MapGoogle MapProvider = "google"
	MapOSM    MapProvider = "osm"
)

// PlanSettings is the user-editable planning configuration for one
// catalogue. Persisted per catalogue; defaults differ per catalogue.
type PlanSettings struct {
	Days          int         `json:"days"`
	ArrivalSlot   DaySlot     `json:"arrival_slot"`
	DepartureSlot DaySlot     `json:"departure_slot"`
	MapProvider   MapProvider `json:"map_provider"`
	// DayStart is the default day start clock time for the timeline ("09:00").
	DayStart    string            `json:"day_start"`
	SlotToggles map[SlotName]bool `json:"slot_toggles,omitempty"`
}

// SlotEnabled reports whether a recurring slot is turned on. Slots the
// catalogue does not recognize never reach this check.
func (s PlanSettings) SlotEnabled(name SlotName) bool {
	if s.SlotToggles == nil {
		return false
	}
	return s.SlotToggles[name]
}

// EnabledSlots returns the enabled slot names in canonical fill order.
func (s PlanSettings) EnabledSlots() []SlotName {
	out := make([]SlotName, 0, len(Slots))
	for _, name := range Slots {
		if s.SlotEnabled(name) {
			out = append(out, name)
		}
	}
	return out
}

// Normalize clamps out-of-range values back to usable defaults so a
// settings blob from storage can never break planning.
func (s PlanSettings) Normalize() PlanSettings {
	if s.Days < 1 {
		s.Days = 1
	}
	if s.Days > 10 {
		s.Days = 10
	}
	if !ValidDaySlot(s.ArrivalSlot) {
		s.ArrivalSlot = SlotMorning
	}
	if !ValidDaySlot(s.DepartureSlot) {
		s.DepartureSlot = SlotEvening
	}
	if s.MapProvider != MapGoogle && s.MapProvider != MapOSM {
		s.MapProvider = MapGoogle
	}
	if s.DayStart == "" {
		s.DayStart = "09:00"
	}
	return s
}

// CatalogSettings is the per-catalogue planning metadata shipped with a
// dataset: the fixed base location, the routing speed constant, and which
// recurring slots the catalogue's itinerary profile recognizes.
type CatalogSettings struct {
	DefaultOrigin Coordinates
	AvgSpeedKmph  float64
	DefaultDays   int
	// RecurringSlots names the slots this catalogue can fill at all
	// (a battlefields dataset may recognize none).
	RecurringSlots []SlotName
}

// DefaultPlanSettings derives the initial user settings for a catalogue.
// Recognized recurring slots start enabled.
func DefaultPlanSettings(cs CatalogSettings) PlanSettings {
	toggles := make(map[SlotName]bool, len(cs.RecurringSlots))
	for _, name := range cs.RecurringSlots {
		toggles[name] = true
	}
	days := cs.DefaultDays
	if days == 0 {
		days = 3
	}
	return PlanSettings{
		Days:          days,
		ArrivalSlot:   SlotMorning,
		DepartureSlot: SlotEvening,
		MapProvider:   MapGoogle,
		DayStart:      "09:00",
		SlotToggles:   toggles,
	}.Normalize()
}
