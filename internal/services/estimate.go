package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jcmacallan-svg/ww1/internal/domain"
)

// Visit-duration constants, in minutes.
const (
	// MinVisitMinutes is the floor below which no estimate ever falls.
	MinVisitMinutes = 5

	halfDayMinutes  = 240
	multiDayMinutes = 360
)

var numberRe = regexp.MustCompile(`\d+`)

// EstimateVisitMinutes derives the expected visit duration for a POI.
//
// Priority: explicit numeric duration fields, then the free-text
// typical-visit-time field, then a category/type fallback table. It never
// fails and never returns less than MinVisitMinutes, whatever the input.
func EstimateVisitMinutes(p *domain.POI) int {
	if p == nil {
		return MinVisitMinutes
	}

	if p.Practical.VisitDurationMin > 0 && p.Practical.VisitDurationMax > 0 {
		return floorVisit((p.Practical.VisitDurationMin + p.Practical.VisitDurationMax) / 2)
	}

	if n, ok := parseDurationText(p.Practical.TypicalVisitTime); ok {
		return floorVisit(n)
	}

	return floorVisit(fallbackMinutes(p))
}

// parseDurationText extracts minutes from free text like "60–120 min",
// "90 min", "Half day". Two or more numbers average the smallest and
// largest found; a single number is used directly.
func parseDurationText(s string) (int, bool) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" || t == "—" || t == "-" || t == "n/a" {
		return 0, false
	}

	if strings.Contains(t, "half day") || strings.Contains(t, "half-day") {
		return halfDayMinutes, true
	}
	if strings.Contains(t, "multi-day") || strings.Contains(t, "multi day") {
		return multiDayMinutes, true
	}

	matches := numberRe.FindAllString(t, -1)
	if len(matches) == 0 {
		return 0, false
	}

	nums := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	if len(nums) == 0 {
		return 0, false
	}
	if len(nums) == 1 {
		return nums[0], true
	}

	lo, hi := nums[0], nums[0]
	for _, n := range nums[1:] {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return (lo + hi) / 2, true
}

// fallbackMinutes is the type/category default table used when a POI
// carries no duration hints at all.
func fallbackMinutes(p *domain.POI) int {
	switch domain.Classify(p) {
	case domain.CategoryFood, domain.CategoryNightlife, domain.CategorySpecialty:
		return 75
	}

	switch strings.ToLower(strings.TrimSpace(p.Type)) {
	case "museum", "fort", "palace", "visitor-centre":
		return 120
	case "memorial", "monument", "cemetery":
		return 40
	case "park", "trench", "battlefield":
		return 70
	}

	return 60
}

func floorVisit(n int) int {
	if n < MinVisitMinutes {
		return MinVisitMinutes
	}
	return n
}
