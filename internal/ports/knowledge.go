package ports

import (
	"context"

	"github.com/jcmacallan-svg/ww1/internal/domain"
)

// KnowledgeBase looks up a structured entity by its external reference id
// (a Wikidata QID) and extracts its geographic claim, when one exists.
type KnowledgeBase interface {
	// EntityCoordinates returns the coordinate claim of an entity.
	// Entities without a geographic claim return ok=false, nil error.
	EntityCoordinates(ctx context.Context, entityID string) (coord domain.Coordinates, ok bool, err error)
}
