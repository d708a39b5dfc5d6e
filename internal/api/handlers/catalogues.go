package handlers

import (
	"net/http"
	"strings"

	"github.com/jcmacallan-svg/ww1/internal/api/dto"
	"github.com/jcmacallan-svg/ww1/internal/services"
)

// CatalogueHandler exposes catalogue discovery and activation.
type CatalogueHandler struct {
	Manager *services.Manager
}

func (h *CatalogueHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	activeID := ""
	if sess, err := h.Manager.Active(); err == nil {
		activeID = sess.Catalog().ID
	}

	cats := h.Manager.Source().Catalogs()
	res := dto.ListCataloguesResponse{
		Catalogues: make([]dto.CatalogueSummary, 0, len(cats)),
	}
	for _, cat := range cats {
		res.Catalogues = append(res.Catalogues, dto.NewCatalogueSummary(cat, cat.ID == activeID))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Activate switches the working catalogue, loading its persisted
// favorites, settings, and draft.
func (h *CatalogueHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ActivateCatalogueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	sess, err := h.Manager.Activate(r.Context(), strings.TrimSpace(req.ID))
	if err != nil {
		writeServiceError(w, r, "activate catalogue", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewCatalogueSummary(sess.Catalog(), true))
}
