package api

import (
	"net/http"

	"github.com/jcmacallan-svg/ww1/internal/api/handlers"
	"github.com/jcmacallan-svg/ww1/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(manager *services.Manager) http.Handler {
	mux := http.NewServeMux()

	catHandler := &handlers.CatalogueHandler{Manager: manager}
	poiHandler := &handlers.POIHandler{Manager: manager}
	favHandler := &handlers.FavoritesHandler{Manager: manager}
	setHandler := &handlers.SettingsHandler{Manager: manager}
	planHandler := &handlers.PlanHandler{Manager: manager, MapLink: MapLink}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/catalogues", catHandler.List)
	mux.HandleFunc("/catalogues/activate", catHandler.Activate)
	mux.HandleFunc("/pois", poiHandler.List)
	mux.HandleFunc("/pois/nearby", poiHandler.Nearby)
	mux.HandleFunc("/favorites", favHandler.Favorites)
	mux.HandleFunc("/settings", setHandler.Settings)
	mux.HandleFunc("/plan", planHandler.Get)
	mux.HandleFunc("/plan/generate", planHandler.Generate)
	mux.HandleFunc("/plan/commands", planHandler.Command)
	mux.HandleFunc("/plan/restore", planHandler.Restore)
	mux.HandleFunc("/plan/discard", planHandler.Discard)
	mux.HandleFunc("/plan/days/", planHandler.DayRoute)

	return loggingMiddleware(mux)
}
