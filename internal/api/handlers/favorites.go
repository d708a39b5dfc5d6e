package handlers

import (
	"net/http"

	"github.com/jcmacallan-svg/ww1/internal/api/dto"
	"github.com/jcmacallan-svg/ww1/internal/services"
)

// FavoritesHandler reads and replaces the active catalogue's favorites.
type FavoritesHandler struct {
	Manager *services.Manager
}

func (h *FavoritesHandler) Favorites(w http.ResponseWriter, r *http.Request) {
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

func (h *FavoritesHandler) get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Manager.Active()
	if err != nil {
		writeServiceError(w, r, "get favorites", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FavoritesResponse{IDs: sess.Favorites()})
}

// put replaces the whole selection. Unknown ids are dropped, not
// rejected; the response shows what was actually saved.
func (h *FavoritesHandler) put(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Manager.Active()
	if err != nil {
		writeServiceError(w, r, "set favorites", err)
		return
	}

	var req dto.FavoritesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	saved, err := sess.SetFavorites(r.Context(), req.IDs)
	if err != nil {
		writeServiceError(w, r, "set favorites", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FavoritesResponse{IDs: saved})
}
