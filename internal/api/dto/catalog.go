package dto

import (
	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/ports"
)

type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RegionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CatalogueSummary struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Country  string           `json:"country"`
	Regions  []RegionResponse `json:"regions"`
	POICount int              `json:"poi_count"`
	Active   bool             `json:"active"`
}

type ListCataloguesResponse struct {
	Catalogues []CatalogueSummary `json:"catalogues"`
}

type ActivateCatalogueRequest struct {
	ID string `json:"id"`
}

type POIResponse struct {
	ID           string               `json:"id"`
	RegionID     string               `json:"region_id"`
	Name         string               `json:"name"`
	Type         string               `json:"type"`
	Themes       []string             `json:"themes,omitempty"`
	Category     string               `json:"category"`
	Locality     string               `json:"locality,omitempty"`
	Province     string               `json:"province,omitempty"`
	Coordinates  *CoordinatesResponse `json:"coordinates,omitempty"`
	Wikipedia    string               `json:"wikipedia,omitempty"`
	Website      string               `json:"website,omitempty"`
	VisitMinutes int                  `json:"visit_minutes"`
}

type ListPOIsResponse struct {
	POIs []POIResponse `json:"pois"`
}

// NewCatalogueSummary flattens a catalogue for listing.
func NewCatalogueSummary(cat *ports.Catalog, active bool) CatalogueSummary {
	regions := make([]RegionResponse, 0, len(cat.Regions))
	for _, r := range cat.Regions {
		regions = append(regions, RegionResponse{ID: r.ID, Name: r.Name})
	}
	return CatalogueSummary{
		ID:       cat.ID,
		Name:     cat.Name,
		Country:  cat.Country,
		Regions:  regions,
		POICount: len(cat.POIs),
		Active:   active,
	}
}

// NewPOIResponse flattens a POI. visitMinutes is the planner's estimate
// for the poi; category its classification.
func NewPOIResponse(p *domain.POI, category domain.Category, visitMinutes int) POIResponse {
	out := POIResponse{
		ID:           p.ID,
		RegionID:     p.RegionID,
		Name:         p.Name,
		Type:         p.Type,
		Themes:       p.Themes,
		Category:     category.String(),
		Locality:     p.Location.Locality,
		Province:     p.Location.Province,
		Wikipedia:    p.Links.Wikipedia,
		Website:      p.Links.Website,
		VisitMinutes: visitMinutes,
	}
	if p.HasCoordinates() {
		out.Coordinates = &CoordinatesResponse{
			Lat: p.Location.Coordinates.Lat,
			Lon: p.Location.Coordinates.Lon,
		}
	}
	return out
}
