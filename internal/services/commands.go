package services

import (
	"time"

	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/geo"
)

// Command is one manual edit on the active plan. A command mutates the
// plan in place and returns the indices of the days whose statistics
// must be replayed.
//
// Every command is total: a stale POI id, day index, or position is a
// no-op, never an error, and the exactly-once placement invariant
// survives any input.
type Command interface {
	Apply(p *domain.Plan) (touched []int)
}

// ReorderStop swaps a stop with its neighbor inside one day. Delta is
// -1 (earlier) or +1 (later); anything else is rejected.
type ReorderStop struct {
	Day   int `json:"day"`
	Index int `json:"index"`
	Delta int `json:"delta"`
}

func (c ReorderStop) Apply(p *domain.Plan) []int {
	if c.Day < 0 || c.Day >= len(p.Days) {
		return nil
	}
	if c.Delta != -1 && c.Delta != 1 {
		return nil
	}
	stops := p.Days[c.Day].Stops
	j := c.Index + c.Delta
	if c.Index < 0 || c.Index >= len(stops) || j < 0 || j >= len(stops) {
		return nil
	}
	stops[c.Index], stops[j] = stops[j], stops[c.Index]
	return []int{c.Day}
}

// MoveStop moves a placed stop to the end of another day.
type MoveStop struct {
	POIID string `json:"poi_id"`
	ToDay int    `json:"to_day"`
}

func (c MoveStop) Apply(p *domain.Plan) []int {
	if c.ToDay < 0 || c.ToDay >= len(p.Days) {
		return nil
	}
	day, idx := p.FindStop(c.POIID)
	if day < 0 || day == c.ToDay {
		return nil
	}

	s := p.Days[day].Stops[idx]
	p.Days[day].Stops = append(p.Days[day].Stops[:idx], p.Days[day].Stops[idx+1:]...)

	s.Manual = true
	p.Days[c.ToDay].Stops = append(p.Days[c.ToDay].Stops, s)
	return []int{day, c.ToDay}
}

// RemoveStop takes a stop out of its day and parks it in the leftovers.
type RemoveStop struct {
	POIID string `json:"poi_id"`
}

func (c RemoveStop) Apply(p *domain.Plan) []int {
	day, idx := p.FindStop(c.POIID)
	if day < 0 {
		return nil
	}

	s := p.Days[day].Stops[idx]
	p.Days[day].Stops = append(p.Days[day].Stops[:idx], p.Days[day].Stops[idx+1:]...)

	s.Slot = ""
	s.Manual = false
	p.Leftovers = append(p.Leftovers, s)
	return []int{day}
}

// RestoreStop places a leftover back onto a day, at the end. Leftovers
// without resolved coordinates cannot be routed and stay where they are.
type RestoreStop struct {
	POIID string `json:"poi_id"`
	ToDay int    `json:"to_day"`
}

func (c RestoreStop) Apply(p *domain.Plan) []int {
	if c.ToDay < 0 || c.ToDay >= len(p.Days) {
		return nil
	}
	idx := p.FindLeftover(c.POIID)
	if idx < 0 {
		return nil
	}

	s := p.Leftovers[idx]
	if s.Coord.IsZero() {
		return nil
	}
	p.Leftovers = append(p.Leftovers[:idx], p.Leftovers[idx+1:]...)

	s.Manual = true
	p.Days[c.ToDay].Stops = append(p.Days[c.ToDay].Stops, s)
	return []int{c.ToDay}
}

// PinStopClock pins a timeline clock time on a placed stop. An empty
// clock clears the pin. Display-only: ordering and statistics stay
// untouched.
type PinStopClock struct {
	POIID string `json:"poi_id"`
	Clock string `json:"clock"`
}

func (c PinStopClock) Apply(p *domain.Plan) []int {
	if day, _ := p.FindStop(c.POIID); day < 0 {
		return nil
	}
	if c.Clock == "" {
		delete(p.Overlay.StopClock, c.POIID)
		return nil
	}
	if !validClock(c.Clock) {
		return nil
	}
	if p.Overlay.StopClock == nil {
		p.Overlay.StopClock = make(map[string]string)
	}
	p.Overlay.StopClock[c.POIID] = c.Clock
	return nil
}

// PinDayStart pins the clock time a day's timeline starts at,
// overriding the settings default for that day only.
type PinDayStart struct {
	Day   int    `json:"day"`
	Clock string `json:"clock"`
}

func (c PinDayStart) Apply(p *domain.Plan) []int {
	if c.Day < 0 || c.Day >= len(p.Days) {
		return nil
	}
	if c.Clock == "" {
		delete(p.Overlay.DayStart, c.Day)
		return nil
	}
	if !validClock(c.Clock) {
		return nil
	}
	if p.Overlay.DayStart == nil {
		p.Overlay.DayStart = make(map[int]string)
	}
	p.Overlay.DayStart[c.Day] = c.Clock
	return nil
}

// PinSlotChoice pins a venue for a day's recurring slot. When the venue
// currently sits in the leftovers it is swapped into the day right
// away and the displaced venue returns to the leftovers; otherwise only
// the persisted pin changes, shaping the next regeneration. The session
// owns persisting the pin itself.
type PinSlotChoice struct {
	Day   int             `json:"day"`
	Slot  domain.SlotName `json:"slot"`
	POIID string          `json:"poi_id"`
}

func (c PinSlotChoice) Apply(p *domain.Plan) []int {
	if c.Day < 0 || c.Day >= len(p.Days) || !domain.ValidSlotName(c.Slot) {
		return nil
	}
	if c.POIID == "" {
		// Clearing a pin leaves the placed stops alone.
		return nil
	}

	d := &p.Days[c.Day]
	cur := -1
	for i := range d.Stops {
		if d.Stops[i].Slot == c.Slot {
			cur = i
			break
		}
	}
	if cur >= 0 && d.Stops[cur].POIID == c.POIID {
		return nil
	}

	li := p.FindLeftover(c.POIID)
	if li < 0 || p.Leftovers[li].Coord.IsZero() {
		return nil
	}
	s := p.Leftovers[li]
	p.Leftovers = append(p.Leftovers[:li], p.Leftovers[li+1:]...)

	s.Slot = c.Slot
	s.Manual = true
	if cur >= 0 {
		displaced := d.Stops[cur]
		displaced.Slot = ""
		displaced.Manual = false
		d.Stops[cur] = s
		p.Leftovers = append(p.Leftovers, displaced)
	} else {
		spliceStop(d, c.Slot, s)
	}
	return []int{c.Day}
}

// OptimizeDay reorders one day's stops with a fresh nearest-neighbor
// pass seeded from the origin. Slot tags and manual flags travel with
// their stops; the pass puts travel order above slot structure.
type OptimizeDay struct {
	Day int `json:"day"`
}

func (c OptimizeDay) Apply(p *domain.Plan) []int {
	if c.Day < 0 || c.Day >= len(p.Days) {
		return nil
	}
	if len(p.Days[c.Day].Stops) <= 1 {
		return nil
	}
	p.Days[c.Day].Stops = geo.NearestNeighborFrom(p.Origin, p.Days[c.Day].Stops)
	return []int{c.Day}
}

// OptimizeAll reorders every day.
type OptimizeAll struct{}

func (OptimizeAll) Apply(p *domain.Plan) []int {
	touched := make([]int, 0, len(p.Days))
	for day := range p.Days {
		if len(p.Days[day].Stops) <= 1 {
			continue
		}
		p.Days[day].Stops = geo.NearestNeighborFrom(p.Origin, p.Days[day].Stops)
		touched = append(touched, day)
	}
	return touched
}

// validClock accepts 24h "HH:MM".
func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
