package geo

import (
	"sort"

	"github.com/jcmacallan-svg/ww1/internal/domain"
)

// Locatable is anything with a resolvable position, so ordering works on
// stops, candidate POIs, or bare coordinates alike.
type Locatable interface {
	Coordinate() domain.Coordinates
}

// NearestNeighborFrom orders all points into a greedy nearest-neighbor
// chain starting from an external position, so a day's stops can be
// reordered as a fresh pass seeded from the origin: the remaining point
// closest to the last appended one is appended until none are left.
//
// Ties break toward the earlier input position, so the result is stable.
// The input slice is not modified.
func NearestNeighborFrom[T Locatable](start domain.Coordinates, points []T) []T {
	remaining := make([]T, len(points))
	copy(remaining, points)

	out := make([]T, 0, len(points))
	cur := start
	for len(remaining) > 0 {
		best := 0
		bestDist := Distance(cur, remaining[0].Coordinate())
		for i := 1; i < len(remaining); i++ {
			if d := Distance(cur, remaining[i].Coordinate()); d < bestDist {
				best = i
				bestDist = d
			}
		}

		out = append(out, remaining[best])
		cur = remaining[best].Coordinate()
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return out
}

// RankByDistance returns the indices of points ordered by distance from
// a position, nearest first, ties keeping input order. The planner scans
// this ranking when picking the next stop of a day.
func RankByDistance[T Locatable](from domain.Coordinates, points []T) []int {
	type ranked struct {
		index int
		dist  float64
	}
	rs := make([]ranked, len(points))
	for i := range points {
		rs[i] = ranked{index: i, dist: Distance(from, points[i].Coordinate())}
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].dist < rs[j].dist })
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.index
	}
	return out
}
