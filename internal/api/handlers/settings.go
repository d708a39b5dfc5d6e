package handlers

import (
	"net/http"

	"github.com/jcmacallan-svg/ww1/internal/api/dto"
	"github.com/jcmacallan-svg/ww1/internal/services"
)

// SettingsHandler reads and replaces the active catalogue's plan settings.
type SettingsHandler struct {
	Manager *services.Manager
}

func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		w.Header().Set("Allow", "GET, PUT")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Manager.Active()
	if err != nil {
		writeServiceError(w, r, "get settings", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewSettingsResponse(sess.Settings()))
}

// put stores the full settings object. Out-of-range values are clamped
// and slot toggles the catalogue does not recognize are dropped, so the
// response is the normalized form.
func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Manager.Active()
	if err != nil {
		writeServiceError(w, r, "set settings", err)
		return
	}

	var req dto.SettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	saved, err := sess.SetSettings(r.Context(), req.PlanSettings())
	if err != nil {
		writeServiceError(w, r, "set settings", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewSettingsResponse(saved))
}
