package services

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/jcmacallan-svg/ww1/internal/domain"
	"github.com/jcmacallan-svg/ww1/internal/ports"
)

// Override source tags recorded next to a cached coordinate.
const (
	SourceKnowledgeBase = "knowledge-base"
	SourceGeocoder      = "geocoder"
)

// Resolver obtains a coordinate pair for a POI through a prioritized
// fallback chain: embedded coordinates, the per-catalogue override cache,
// a structured knowledge-base claim, then a single-best-match geocode.
//
// Successful network resolutions are written through the override cache
// immediately, so the expensive steps run at most once per POI per
// catalogue. Every external failure is swallowed and treated as a miss;
// resolution itself never errors.
type Resolver struct {
	kb    ports.KnowledgeBase
	geo   ports.Geocoder
	cache ports.OverrideCache

	group singleflight.Group
}

func NewResolver(kb ports.KnowledgeBase, geo ports.Geocoder, cache ports.OverrideCache) *Resolver {
	return &Resolver{kb: kb, geo: geo, cache: cache}
}

type resolved struct {
	coord domain.Coordinates
	ok    bool
}

// Resolve returns the coordinates for a POI, or ok=false when every
// source comes up empty. namespace is the active catalogue id; country
// is the catalogue-level trailing geocode term.
//
// Identical concurrent resolutions of one POI collapse into a single
// chain walk.
func (r *Resolver) Resolve(ctx context.Context, namespace string, p *domain.POI, country string) (domain.Coordinates, bool) {
	if p == nil {
		return domain.Coordinates{}, false
	}

	if p.HasCoordinates() {
		return *p.Location.Coordinates, true
	}

	v, _, _ := r.group.Do(namespace+"|"+p.ID, func() (any, error) {
		return r.resolveUncached(ctx, namespace, p, country), nil
	})
	res := v.(resolved)
	return res.coord, res.ok
}

func (r *Resolver) resolveUncached(ctx context.Context, namespace string, p *domain.POI, country string) resolved {
	if r.cache != nil {
		o, ok, err := r.cache.Get(ctx, namespace, p.ID)
		if err != nil {
			log.Printf("op=resolve poi=%s step=cache err=%v", p.ID, err)
		} else if ok {
			return resolved{coord: o.Coord, ok: true}
		}
	}

	if r.kb != nil && p.Links.Wikidata != "" {
		coord, ok, err := r.kb.EntityCoordinates(ctx, p.Links.Wikidata)
		if err != nil {
			log.Printf("op=resolve poi=%s step=knowledge-base err=%v", p.ID, err)
		} else if ok {
			r.writeOverride(ctx, namespace, p.ID, coord, SourceKnowledgeBase)
			return resolved{coord: coord, ok: true}
		}
	}

	if r.geo != nil {
		if query := GeocodeQuery(p, country); query != "" {
			coord, ok, err := r.geo.Geocode(ctx, query)
			if err != nil {
				log.Printf("op=resolve poi=%s step=geocode err=%v", p.ID, err)
			} else if ok {
				r.writeOverride(ctx, namespace, p.ID, coord, SourceGeocoder)
				return resolved{coord: coord, ok: true}
			}
		}
	}

	return resolved{}
}

func (r *Resolver) writeOverride(ctx context.Context, namespace, poiID string, coord domain.Coordinates, source string) {
	if r.cache == nil {
		return
	}
	err := r.cache.Put(ctx, namespace, poiID, ports.ResolvedOverride{Coord: coord, Source: source})
	if err != nil {
		log.Printf("op=resolve poi=%s step=cache-write err=%v", poiID, err)
	}
}

// GeocodeQuery builds the free-text lookup string for a POI: the explicit
// query hint when present (the POI name otherwise), then locality,
// province, and country, each included when non-empty.
func GeocodeQuery(p *domain.POI, country string) string {
	lead := strings.TrimSpace(p.Location.GeoQuery)
	if lead == "" {
		lead = strings.TrimSpace(p.Name)
	}

	parts := make([]string, 0, 4)
	if lead != "" {
		parts = append(parts, lead)
	}
	if l := strings.TrimSpace(p.Location.Locality); l != "" {
		parts = append(parts, l)
	}
	if pr := strings.TrimSpace(p.Location.Province); pr != "" {
		parts = append(parts, pr)
	}
	if c := strings.TrimSpace(country); c != "" {
		parts = append(parts, c)
	}

	return strings.Join(parts, ", ")
}
