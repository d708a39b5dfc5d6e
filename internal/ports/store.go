package ports

import (
	"context"

	"github.com/jcmacallan-svg/ww1/internal/domain"
)

// KVStore is a namespaced key -> JSON document store surviving across
// sessions. Namespaces are catalogue ids; two catalogues never share
// values. Get returns ok=false on a clean miss.
type KVStore interface {
	Get(ctx context.Context, namespace, key string, out any) (ok bool, err error)
	Put(ctx context.Context, namespace, key string, val any) error
	Delete(ctx context.Context, namespace, key string) error
}

// ResolvedOverride is a coordinate produced by a non-embedded resolution
// step, together with which source produced it.
type ResolvedOverride struct {
	Coord domain.Coordinates `json:"coord"`
	// Source tags where the point came from: "knowledge-base" or "geocoder".
	Source string `json:"source"`
}

// OverrideCache persists resolved coordinates keyed by POI id within one
// catalogue namespace, so the expensive network steps run at most once
// per POI per catalogue. Writes are immediate (write-through); Get
// returns ok=false on a miss.
type OverrideCache interface {
	Get(ctx context.Context, namespace, poiID string) (ResolvedOverride, bool, error)
	Put(ctx context.Context, namespace, poiID string, o ResolvedOverride) error
}
