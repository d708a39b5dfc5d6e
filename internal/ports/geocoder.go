package ports

import (
	"context"

	"github.com/jcmacallan-svg/ww1/internal/domain"
)

// Geocoder resolves a free-text query to at most one best-match point.
//
// A query with no usable match returns ok=false and a nil error; err is
// reserved for transport-level failures. The resolver falls through to
// the next source in either case.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (coord domain.Coordinates, ok bool, err error)
}
