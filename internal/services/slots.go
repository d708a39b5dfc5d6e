package services

import (
	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/geo"
)

// SlotPins records the user's pinned venue per (day, slot). Persisted
// per catalogue and consulted on every regeneration.
type SlotPins map[int]map[domain.SlotName]string

// Choice returns the pinned POI id for a day's slot, or "".
func (sp SlotPins) Choice(day int, slot domain.SlotName) string {
	return sp[day][slot]
}

// Set pins a venue for a day's slot; an empty id clears the pin.
func (sp SlotPins) Set(day int, slot domain.SlotName, poiID string) {
	if poiID == "" {
		delete(sp[day], slot)
		if len(sp[day]) == 0 {
			delete(sp, day)
		}
		return
	}
	if sp[day] == nil {
		sp[day] = make(map[domain.SlotName]string, 1)
	}
	sp[day][slot] = poiID
}

// slotCategories maps each recurring slot to the categories that can
// fill it. A venue may sit in several pools but the global used-set
// consumes it once.
var slotCategories = map[domain.SlotName][]domain.Category{
	domain.SlotLunch:  {domain.CategoryFood},
	domain.SlotDinner: {domain.CategoryFood, domain.CategoryNightlife},
	domain.SlotDrinks: {domain.CategorySpecialty},
}

// SplitPools separates venue candidates from the sightseeing pool. A
// candidate is pooled when it can fill at least one enabled slot; every
// other candidate routes as a regular stop.
func SplitPools(cands []Candidate, classify func(*domain.POI) domain.Category, enabled []domain.SlotName) ([]Candidate, map[domain.SlotName][]Candidate) {
	sights := make([]Candidate, 0, len(cands))
	pools := make(map[domain.SlotName][]Candidate, len(enabled))

	for _, c := range cands {
		cat := classify(c.POI)
		pooled := false
		for _, slot := range enabled {
			for _, want := range slotCategories[slot] {
				if cat == want {
					pools[slot] = append(pools[slot], c)
					pooled = true
					break
				}
			}
		}
		if !pooled {
			sights = append(sights, c)
		}
	}
	return sights, pools
}

// slotEligible is the fixed day-position rule table: lunch needs a
// morning arrival on the first day and a non-morning departure on the
// last; dinner and drinks need an evening departure on the last day.
// A single-day trip faces both ends at once.
func slotEligible(slot domain.SlotName, day, dayCount int, s domain.PlanSettings) bool {
	first := day == 0
	last := day == dayCount-1

	switch slot {
	case domain.SlotLunch:
		if first && s.ArrivalSlot != domain.SlotMorning {
			return false
		}
		if last && s.DepartureSlot == domain.SlotMorning {
			return false
		}
		return true
	case domain.SlotDinner, domain.SlotDrinks:
		return !last || s.DepartureSlot == domain.SlotEvening
	}
	return false
}

// InsertSlots fills each day's enabled recurring slots from the pools,
// at most one pick per slot per day.
//
// A pinned (day, slot) choice wins regardless of distance; a pin naming
// a venue that is already consumed or no longer pooled degrades to the
// automatic pick. The automatic pick is the nearest unused pool member
// to the slot's anchor: the day's midpoint stop for lunch, the last
// stop for dinner and drinks, the origin when the day is still empty.
// An exhausted pool leaves the slot unfilled rather than reusing a
// consumed venue, keeping every venue placed at most once.
//
// Lunch splices into the middle of the day, dinner and drinks append to
// the end. Every insertion replays that day's statistics. Pool members
// never consumed are appended to the leftovers, so no input POI is
// dropped.
func InsertSlots(p *domain.Plan, pools map[domain.SlotName][]Candidate, pins SlotPins, settings domain.PlanSettings) {
	if p == nil || len(pools) == 0 {
		return
	}
	used := make(map[string]bool)

	for day := range p.Days {
		for _, slot := range settings.EnabledSlots() {
			pool := pools[slot]
			if len(pool) == 0 || !slotEligible(slot, day, len(p.Days), settings) {
				continue
			}

			pick, pinned, ok := chooseVenue(p, day, slot, pool, pins, used)
			if !ok {
				continue
			}
			used[pick.POI.ID] = true

			s := pick.stop()
			s.Slot = slot
			s.Manual = pinned
			spliceStop(&p.Days[day], slot, s)
			RecomputeDay(p, day)
		}
	}

	// Venues that never made it into a day fall to the leftovers.
	seen := make(map[string]bool)
	for _, slot := range domain.Slots {
		for _, c := range pools[slot] {
			if used[c.POI.ID] || seen[c.POI.ID] {
				continue
			}
			seen[c.POI.ID] = true
			p.Leftovers = append(p.Leftovers, c.stop())
		}
	}
}

func chooseVenue(p *domain.Plan, day int, slot domain.SlotName, pool []Candidate, pins SlotPins, used map[string]bool) (pick Candidate, pinned, ok bool) {
	if id := pins.Choice(day, slot); id != "" && !used[id] {
		for _, c := range pool {
			if c.POI.ID == id {
				return c, true, true
			}
		}
		// Stale pin, the venue left the pool. Choose automatically.
	}

	anchor := slotAnchor(p, day, slot)
	best := -1
	bestDist := 0.0
	for i, c := range pool {
		if used[c.POI.ID] {
			continue
		}
		if d := geo.Distance(anchor, c.Coord); best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return Candidate{}, false, false
	}
	return pool[best], false, true
}

// slotAnchor is the position a slot's automatic pick is measured from:
// lunch near whatever the day is doing at midday, dinner and drinks
// near wherever it ends.
func slotAnchor(p *domain.Plan, day int, slot domain.SlotName) domain.Coordinates {
	stops := p.Days[day].Stops
	if len(stops) == 0 {
		return p.Origin
	}
	if slot == domain.SlotLunch {
		return stops[geo.MidIndex(len(stops))].Coord
	}
	return stops[len(stops)-1].Coord
}

// spliceStop inserts a slot stop at its structural position.
func spliceStop(d *domain.DayPlan, slot domain.SlotName, s domain.Stop) {
	if slot != domain.SlotLunch {
		d.Stops = append(d.Stops, s)
		return
	}
	mid := geo.MidIndex(len(d.Stops))
	d.Stops = append(d.Stops, domain.Stop{})
	copy(d.Stops[mid+1:], d.Stops[mid:])
	d.Stops[mid] = s
}
