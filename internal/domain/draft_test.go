package domain

import "testing"

func draftSettings() PlanSettings {
	return PlanSettings{
		Days:          3,
		ArrivalSlot:   SlotMorning,
		DepartureSlot: SlotEvening,
		MapProvider:   MapGoogle,
		DayStart:      "09:00",
		SlotToggles:   map[SlotName]bool{SlotLunch: true, SlotDinner: false},
	}
}

func TestDraftKeyIgnoresFavoriteOrder(t *testing.T) {
	s := draftSettings()

	a := DraftKey("flanders", []string{"menin-gate", "cloth-hall"}, s)
	b := DraftKey("flanders", []string{"cloth-hall", "menin-gate"}, s)
	if a != b {
		t.Fatalf("favorite order changed the key: %s vs %s", a, b)
	}
}

func TestDraftKeyIgnoresDisplayOnlySettings(t *testing.T) {
	favs := []string{"menin-gate"}
	a := DraftKey("flanders", favs, draftSettings())

	s := draftSettings()
	s.MapProvider = MapOSM
	s.DayStart = "11:30"
	if b := DraftKey("flanders", favs, s); a != b {
		t.Fatalf("display-only settings changed the key: %s vs %s", a, b)
	}
}

func TestDraftKeyTracksPlanningInputs(t *testing.T) {
	favs := []string{"menin-gate"}
	base := DraftKey("flanders", favs, draftSettings())

	s := draftSettings()
	s.Days = 4
	if DraftKey("flanders", favs, s) == base {
		t.Fatalf("day count change must produce a new key")
	}

	s = draftSettings()
	s.SlotToggles[SlotDinner] = true
	if DraftKey("flanders", favs, s) == base {
		t.Fatalf("slot toggle change must produce a new key")
	}

	if DraftKey("flanders", []string{"menin-gate", "ramparts"}, draftSettings()) == base {
		t.Fatalf("favorites change must produce a new key")
	}

	if DraftKey("somme", favs, draftSettings()) == base {
		t.Fatalf("catalogue change must produce a new key")
	}
}
