package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jcmacallan-svg/ww1/internal/api/dto"
	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/services"
)

// PlanHandler exposes the itinerary for the active catalogue: reading,
// regeneration, manual edit commands, and draft restore/discard.
type PlanHandler struct {
	Manager *services.Manager
	// MapLink builds a directions deep link from a day's route
	// coordinates, origin first and last.
	MapLink func(provider domain.MapProvider, coords []domain.Coordinates) string
}

// Get returns the current plan, computing one when favorites or
// settings changed since the last build.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, err := h.Manager.Active()
	if err != nil {
		writeServiceError(w, r, "get plan", err)
		return
	}

	plan, err := sess.EnsurePlan(r.Context())
	if err != nil {
		writeServiceError(w, r, "get plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan, sess.Settings()))
}

// Generate discards manual edits and rebuilds the plan from scratch.
func (h *PlanHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, err := h.Manager.Active()
	if err != nil {
		writeServiceError(w, r, "generate plan", err)
		return
	}

	plan, err := sess.GeneratePlan(r.Context())
	if err != nil {
		writeServiceError(w, r, "generate plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan, sess.Settings()))
}

// Command applies one manual edit to the current plan and returns the
// edited plan. Commands never fail on stale ids or positions; a command
// that no longer applies leaves the plan unchanged.
func (h *PlanHandler) Command(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, err := h.Manager.Active()
	if err != nil {
		writeServiceError(w, r, "apply command", err)
		return
	}

	var req dto.CommandRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cmd, err := buildCommand(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := sess.Apply(r.Context(), cmd)
	if err != nil {
		writeServiceError(w, r, "apply command", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan, sess.Settings()))
}

// Restore replaces the current plan with the persisted draft.
func (h *PlanHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, err := h.Manager.Active()
	if err != nil {
		writeServiceError(w, r, "restore draft", err)
		return
	}

	plan, err := sess.RestoreDraft(r.Context())
	if err != nil {
		writeServiceError(w, r, "restore draft", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan, sess.Settings()))
}

// Discard deletes the persisted draft and rebuilds a fresh plan.
func (h *PlanHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, err := h.Manager.Active()
	if err != nil {
		writeServiceError(w, r, "discard draft", err)
		return
	}

	plan, err := sess.DiscardDraft(r.Context())
	if err != nil {
		writeServiceError(w, r, "discard draft", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan, sess.Settings()))
}

// DayRoute exports one day's visit-order coordinates plus a directions
// deep link for the configured map provider. Path: /plan/days/{day}/route.
func (h *PlanHandler) DayRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dayStr, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/plan/days/"), "/route")
	if !ok || dayStr == "" || strings.Contains(dayStr, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 0 {
		writeError(w, r, http.StatusBadRequest, "day must be a non-negative integer")
		return
	}

	sess, err := h.Manager.Active()
	if err != nil {
		writeServiceError(w, r, "day route", err)
		return
	}

	plan, err := sess.EnsurePlan(r.Context())
	if err != nil {
		writeServiceError(w, r, "day route", err)
		return
	}

	coords := plan.RouteCoordinates(day)
	if coords == nil {
		writeError(w, r, http.StatusNotFound, "day out of range")
		return
	}

	settings := sess.Settings()
	res := dto.RouteResponse{
		Day:         day,
		Provider:    string(settings.MapProvider),
		URL:         h.MapLink(settings.MapProvider, coords),
		Coordinates: make([]dto.CoordinatesResponse, 0, len(coords)),
	}
	for _, c := range coords {
		res.Coordinates = append(res.Coordinates, dto.CoordinatesResponse{Lat: c.Lat, Lon: c.Lon})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// buildCommand maps the flat request onto a concrete plan command.
func buildCommand(req dto.CommandRequest) (services.Command, error) {
	switch req.Command {
	case "reorder_stop":
		return services.ReorderStop{Day: req.Day, Index: req.Index, Delta: req.Delta}, nil
	case "move_stop":
		if req.POIID == "" {
			return nil, fmt.Errorf("poi_id is required for %s", req.Command)
		}
		return services.MoveStop{POIID: req.POIID, ToDay: req.ToDay}, nil
	case "remove_stop":
		if req.POIID == "" {
			return nil, fmt.Errorf("poi_id is required for %s", req.Command)
		}
		return services.RemoveStop{POIID: req.POIID}, nil
	case "restore_stop":
		if req.POIID == "" {
			return nil, fmt.Errorf("poi_id is required for %s", req.Command)
		}
		return services.RestoreStop{POIID: req.POIID, ToDay: req.ToDay}, nil
	case "pin_stop_clock":
		if req.POIID == "" {
			return nil, fmt.Errorf("poi_id is required for %s", req.Command)
		}
		return services.PinStopClock{POIID: req.POIID, Clock: req.Clock}, nil
	case "pin_day_start":
		return services.PinDayStart{Day: req.Day, Clock: req.Clock}, nil
	case "pin_slot_choice":
		// An empty poi_id clears the pin for that day and slot.
		return services.PinSlotChoice{Day: req.Day, Slot: domain.SlotName(req.Slot), POIID: req.POIID}, nil
	case "optimize_day":
		return services.OptimizeDay{Day: req.Day}, nil
	case "optimize_all":
		return services.OptimizeAll{}, nil
	}
	return nil, fmt.Errorf("unknown command %q", req.Command)
}
