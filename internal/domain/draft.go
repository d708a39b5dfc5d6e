package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DraftVersion is bumped when the persisted draft layout changes in an
// incompatible way; older drafts are ignored rather than migrated.
const DraftVersion = 1

// Draft is a persisted snapshot of a (possibly user-edited) plan. A draft
// is only valid for the exact favorites/settings combination encoded in
// its key; any change to those inputs starts a new draft and the old one
// is simply orphaned.
type Draft struct {
	Version int       `json:"version"`
	ID      string    `json:"id"`
	Key     string    `json:"key"`
	Plan    Plan      `json:"plan"`
	SavedAt time.Time `json:"saved_at"`
}

// DraftKey derives the storage key for the draft produced by a specific
// favorites set and the planning-relevant settings fields. Favorite order
// does not matter; map-provider and day-start changes do not invalidate a
// draft because they never affect stop placement.
func DraftKey(catalogID string, favoriteIDs []string, s PlanSettings) string {
	favs := make([]string, len(favoriteIDs))
	copy(favs, favoriteIDs)
	sort.Strings(favs)

	slots := make([]string, 0, len(s.SlotToggles))
	for _, name := range s.EnabledSlots() {
		slots = append(slots, string(name))
	}

	parts := []string{
		catalogID,
		strings.Join(favs, ","),
		fmt.Sprintf("days=%d", s.Days),
		"arrive=" + string(s.ArrivalSlot),
		"depart=" + string(s.DepartureSlot),
		"slots=" + strings.Join(slots, ","),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:16])
}
