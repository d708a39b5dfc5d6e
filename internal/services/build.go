package services

import (
	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/geo"
)

// Candidate is a POI admitted to planning: its resolved position plus
// the estimated visit duration.
type Candidate struct {
	POI   *domain.POI
	Coord domain.Coordinates
	Visit int
}

// Coordinate satisfies geo.Locatable.
func (c Candidate) Coordinate() domain.Coordinates { return c.Coord }

func (c Candidate) stop() domain.Stop {
	return domain.Stop{
		POIID:        c.POI.ID,
		Name:         c.POI.Name,
		Coord:        c.Coord,
		VisitMinutes: c.Visit,
	}
}

// BuildPlan assigns candidates to days with a greedy budgeted
// nearest-neighbor pass.
//
// Each day starts at the origin with its budget as remaining time.
// Candidates are ranked by distance from the current position and the
// first one whose additional cost fits is accepted: travel to it, its
// visit duration, and the return leg to the origin must fit within the
// remaining budget minus the safety buffer (the first stop of a day may
// instead exceed the budget by the first-stop grace). Accepting a stop
// charges travel plus visit only; the return leg is a fit test, not a
// charge. A day ends when no candidate fits, even with budget left.
//
// Candidates never accepted into any day become leftovers. The result
// minimizes immediate travel at each step; it makes no global
// optimality claim.
func BuildPlan(cands []Candidate, origin domain.Coordinates, budgets []int, speedKmph float64, cfg Config) *domain.Plan {
	plan := &domain.Plan{
		Origin:    origin,
		SpeedKmph: speedKmph,
		Days:      make([]domain.DayPlan, len(budgets)),
	}

	unplaced := make([]Candidate, len(cands))
	copy(unplaced, cands)

	for day, budget := range budgets {
		plan.Days[day].BudgetMinutes = budget

		remaining := float64(budget)
		cur := origin
		var stops []domain.Stop

		for len(unplaced) > 0 {
			accepted := -1
			for _, i := range geo.RankByDistance(cur, unplaced) {
				c := unplaced[i]
				travel := geo.TravelMinutes(geo.Distance(cur, c.Coord), speedKmph)
				ret := geo.TravelMinutes(geo.Distance(c.Coord, origin), speedKmph)
				need := travel + float64(c.Visit) + ret

				var fits bool
				if len(stops) == 0 {
					fits = need <= remaining+float64(cfg.FirstStopGraceMinutes)
				} else {
					fits = need <= remaining-float64(cfg.SafetyBufferMinutes)
				}
				if fits {
					stops = append(stops, c.stop())
					remaining -= travel + float64(c.Visit)
					cur = c.Coord
					accepted = i
					break
				}
			}
			if accepted < 0 {
				break
			}
			unplaced = append(unplaced[:accepted], unplaced[accepted+1:]...)
		}

		plan.Days[day].Stops = stops
		RecomputeDay(plan, day)
	}

	for _, c := range unplaced {
		plan.Leftovers = append(plan.Leftovers, c.stop())
	}

	return plan
}

// RecomputeDay replays one day's full route (origin, stops, origin) and
// stores the derived totals. Statistics are always replayed from
// scratch, never patched incrementally, so they cannot drift from the
// stop ordering.
func RecomputeDay(p *domain.Plan, day int) {
	if p == nil || day < 0 || day >= len(p.Days) {
		return
	}
	d := &p.Days[day]

	travel := 0.0
	visit := 0
	cur := p.Origin
	for i := range d.Stops {
		travel += geo.Distance(cur, d.Stops[i].Coord)
		visit += d.Stops[i].VisitMinutes
		cur = d.Stops[i].Coord
	}
	travel += geo.Distance(cur, p.Origin)

	d.TravelKm = travel
	d.VisitMinutes = visit
}

// RecomputeAll replays every day.
func RecomputeAll(p *domain.Plan) {
	if p == nil {
		return
	}
	for day := range p.Days {
		RecomputeDay(p, day)
	}
}
