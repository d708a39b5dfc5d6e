package ports

import "github.com/jcmacallan-svg/ww1/internal/domain"

// Region is a named grouping of POIs inside a catalogue.
type Region struct {
	ID   string
	Name string
}

// Catalog is one loaded POI dataset. The planning core only reads it.
type Catalog struct {
	ID       string
	Name     string
	Country  string
	Regions  []Region
	POIs     []*domain.POI
	Settings domain.CatalogSettings
}

// POI returns the catalogue's POI with the given id, or nil.
func (c *Catalog) POI(id string) *domain.POI {
	for _, p := range c.POIs {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CatalogSource supplies loaded catalogues to the rest of the system.
type CatalogSource interface {
	// Catalogs lists every loaded catalogue, stable order.
	Catalogs() []*Catalog
	// Catalog returns one catalogue by id, ok=false when unknown.
	Catalog(id string) (*Catalog, bool)
	// Nearby returns up to limit POIs within radiusKm of a point,
	// nearest first. Only POIs with embedded coordinates are indexed.
	Nearby(catalogID string, at domain.Coordinates, radiusKm float64, limit int) []*domain.POI
}
