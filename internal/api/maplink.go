// Package api exposes the planner over HTTP.
package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/jcmacallan-svg/ww1/internal/domain"
)

// MapLink builds a multi-waypoint directions deep link for one day's
// route. Coordinates arrive in visit order, origin first and last.
// Returns "" when there is nothing to route.
func MapLink(provider domain.MapProvider, coords []domain.Coordinates) string {
	if len(coords) < 2 {
		return ""
	}
	points := make([]string, 0, len(coords))
	for _, c := range coords {
		points = append(points, formatPoint(c))
	}

	switch provider {
	case domain.MapOSM:
		return "https://www.openstreetmap.org/directions?route=" + url.QueryEscape(strings.Join(points, ";"))
	default:
		return "https://www.google.com/maps/dir/" + strings.Join(points, "/")
	}
}

func formatPoint(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', 5, 64) + "," + strconv.FormatFloat(c.Lon, 'f', 5, 64)
}
