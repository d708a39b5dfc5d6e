package catalog

import (
	"fmt"
	"sort"

	"github.com/asim/quadtree"

	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/geo"
	"github.com/jcmacallan-svg/ww1/internal/ports"
)

// Source serves parsed catalogues and answers spatial lookups from a
// per-catalogue quadtree over the embedded coordinates. Catalogues are
// immutable after construction, so reads need no locking.
type Source struct {
	catalogs []*ports.Catalog
	byID     map[string]*ports.Catalog
	trees    map[string]*quadtree.QuadTree
}

// NewSource indexes the given catalogues. POIs without embedded
// coordinates stay out of the spatial index; they are still listed and
// plannable once resolved.
func NewSource(catalogs ...*ports.Catalog) (*Source, error) {
	s := &Source{
		catalogs: make([]*ports.Catalog, 0, len(catalogs)),
		byID:     make(map[string]*ports.Catalog, len(catalogs)),
		trees:    make(map[string]*quadtree.QuadTree, len(catalogs)),
	}

	for _, cat := range catalogs {
		if _, ok := s.byID[cat.ID]; ok {
			return nil, fmt.Errorf("catalogue source: duplicate catalogue id %q", cat.ID)
		}

		center := quadtree.NewPoint(0, 0, nil)
		half := quadtree.NewPoint(90, 180, nil)
		tree := quadtree.New(quadtree.NewAABB(center, half), 0, nil)
		for _, p := range cat.POIs {
			if !p.HasCoordinates() {
				continue
			}
			c := p.Location.Coordinates
			tree.Insert(quadtree.NewPoint(c.Lat, c.Lon, p))
		}

		s.catalogs = append(s.catalogs, cat)
		s.byID[cat.ID] = cat
		s.trees[cat.ID] = tree
	}
	return s, nil
}

func (s *Source) Catalogs() []*ports.Catalog {
	out := make([]*ports.Catalog, len(s.catalogs))
	copy(out, s.catalogs)
	return out
}

func (s *Source) Catalog(id string) (*ports.Catalog, bool) {
	cat, ok := s.byID[id]
	return cat, ok
}

// Nearby returns the POIs with embedded coordinates within radiusKm of a
// point, nearest first, at most limit entries (limit <= 0 means all).
func (s *Source) Nearby(catalogID string, at domain.Coordinates, radiusKm float64, limit int) []*domain.POI {
	tree, ok := s.trees[catalogID]
	if !ok || radiusKm <= 0 {
		return nil
	}

	center := quadtree.NewPoint(at.Lat, at.Lon, nil)
	half := center.HalfPoint(radiusKm * 1000)
	points := tree.Search(quadtree.NewAABB(center, half))

	type hit struct {
		poi  *domain.POI
		dist float64
	}
	hits := make([]hit, 0, len(points))
	for _, pt := range points {
		p, ok := pt.Data().(*domain.POI)
		if !ok {
			continue
		}
		// The search box is an approximation; filter to the real radius.
		d := geo.Distance(at, *p.Location.Coordinates)
		if d > radiusKm {
			continue
		}
		hits = append(hits, hit{poi: p, dist: d})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]*domain.POI, len(hits))
	for i, h := range hits {
		out[i] = h.poi
	}
	return out
}

var _ ports.CatalogSource = (*Source)(nil)
