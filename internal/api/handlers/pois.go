package handlers

import (
	"net/http"
	"strconv"

	"github.com/jcmacallan-svg/ww1/internal/api/dto"
	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/services"
)

// POIHandler exposes read-only POI listing over the active catalogue.
type POIHandler struct {
	Manager *services.Manager
}

func (h *POIHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, err := h.Manager.Active()
	if err != nil {
		writeServiceError(w, r, "list pois", err)
		return
	}

	region := r.URL.Query().Get("region")

	cat := sess.Catalog()
	res := dto.ListPOIsResponse{POIs: make([]dto.POIResponse, 0, len(cat.POIs))}
	for _, p := range cat.POIs {
		if region != "" && p.RegionID != region {
			continue
		}
		res.POIs = append(res.POIs, dto.NewPOIResponse(p, domain.Classify(p), services.EstimateVisitMinutes(p)))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Nearby lists POIs around a point, nearest first. Only POIs the
// catalogue ships embedded coordinates for are searchable.
func (h *POIHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, err := h.Manager.Active()
	if err != nil {
		writeServiceError(w, r, "nearby pois", err)
		return
	}

	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, r, http.StatusBadRequest, "lat and lon are required numbers")
		return
	}
	at := domain.Coordinates{Lat: lat, Lon: lon}
	if err := at.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	radiusKm := 5.0
	if s := q.Get("radius_km"); s != "" {
		radiusKm, err = strconv.ParseFloat(s, 64)
		if err != nil || radiusKm <= 0 {
			writeError(w, r, http.StatusBadRequest, "radius_km must be a positive number")
			return
		}
	}

	limit := 20
	if s := q.Get("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
	}

	pois := h.Manager.Source().Nearby(sess.Catalog().ID, at, radiusKm, limit)
	res := dto.ListPOIsResponse{POIs: make([]dto.POIResponse, 0, len(pois))}
	for _, p := range pois {
		res.POIs = append(res.POIs, dto.NewPOIResponse(p, domain.Classify(p), services.EstimateVisitMinutes(p)))
	}

	writeJSON(w, r, http.StatusOK, res)
}
