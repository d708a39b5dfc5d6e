package services

import "github.com/jcmacallan-svg/ww1/internal/domain"

// Day-budget constants, in minutes of plannable time.
const (
	// FullDayMinutes is the sightseeing budget of an ordinary trip day.
	FullDayMinutes = 540

	// MaxTripDays bounds the day count accepted from settings.
	MaxTripDays = 10
)

// arrivalAllowance maps the arrival slot to the usable minutes of the
// first day. Later arrival means less time.
var arrivalAllowance = map[domain.DaySlot]int{
	domain.SlotMorning:   480,
	domain.SlotAfternoon: 300,
	domain.SlotEvening:   150,
}

// departureAllowance maps the departure slot to the usable minutes of
// the last day. Later departure means more time.
var departureAllowance = map[domain.DaySlot]int{
	domain.SlotMorning:   150,
	domain.SlotAfternoon: 300,
	domain.SlotEvening:   480,
}

// ComputeDayBudgets derives the plannable minutes for each trip day from
// the day count and the arrival/departure slots.
//
// A single-day trip sums the two allowances capped at a full day; on
// multi-day trips only the first and last days are shortened.
func ComputeDayBudgets(days int, arrival, departure domain.DaySlot) []int {
	if days < 1 {
		days = 1
	}
	if days > MaxTripDays {
		days = MaxTripDays
	}
	if !domain.ValidDaySlot(arrival) {
		arrival = domain.SlotMorning
	}
	if !domain.ValidDaySlot(departure) {
		departure = domain.SlotEvening
	}

	if days == 1 {
		total := arrivalAllowance[arrival] + departureAllowance[departure]
		if total > FullDayMinutes {
			total = FullDayMinutes
		}
		return []int{total}
	}

	budgets := make([]int, days)
	for i := range budgets {
		budgets[i] = FullDayMinutes
	}
	budgets[0] = arrivalAllowance[arrival]
	budgets[days-1] = departureAllowance[departure]
	return budgets
}
