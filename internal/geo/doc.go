// Package geo provides the distance and ordering primitives the trip
// planner is built on.
//
// What:
//
//   - Distance: great-circle (haversine) distance between two points, in km.
//   - TravelMinutes: distance converted to travel time at a flat speed.
//   - NearestNeighborFrom: greedy chain ordering from an explicit start.
//
// The haversine value is a heuristic for route construction, not a road
// distance; the planner multiplies it by a catalogue-level average speed
// to approximate travel time.
//
// Complexity:
//
//   - Distance: O(1).
//   - NearestNeighborFrom: O(n²), stable (ties keep input order).
package geo
