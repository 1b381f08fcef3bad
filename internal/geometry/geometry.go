package geometry

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultZoom is used when a polygon has too few vertices for a
	// bounding-box based zoom estimate.
	DefaultZoom = 13

	// minZoom and maxZoom bound the derived zoom level. 8 shows a whole
	// metro area, 16 a few city blocks.
	minZoom = 8
	maxZoom = 16

	// spanEpsilon guards against a zero-extent bounding box.
	spanEpsilon = 0.0001
)

// Point is a single longitude/latitude coordinate.
type Point struct {
	Longitude float64
	Latitude  float64
}

// Polygon is a parsed alert area: the polygon ring in feed order (the first
// and last vertex may repeat) plus the unweighted centroid of its vertices.
type Polygon struct {
	Coordinates []Point
	Center      Point
}

var polygonPattern = regexp.MustCompile(`POLYGON\s*\(\((.*?)\)\)`)

// ParsePolygon parses the feed's textual polygon form, e.g.
//
//	POLYGON ((8.512233 53.210926, 8.525872 53.201079, ...))
//
// with longitude first in each pair. It returns nil on any malformed input
// rather than an error; a bad polygon only degrades enrichment.
func ParsePolygon(text string) *Polygon {
	match := polygonPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	pairs := strings.Split(match[1], ",")
	coordinates := make([]Point, 0, len(pairs))

	for _, pair := range pairs {
		parts := strings.Fields(pair)
		if len(parts) != 2 {
			return nil
		}

		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil
		}

		coordinates = append(coordinates, Point{Longitude: lon, Latitude: lat})
	}

	if len(coordinates) == 0 {
		return nil
	}

	var sumLon, sumLat float64
	for _, c := range coordinates {
		sumLon += c.Longitude
		sumLat += c.Latitude
	}
	n := float64(len(coordinates))

	return &Polygon{
		Coordinates: coordinates,
		Center:      Point{Longitude: sumLon / n, Latitude: sumLat / n},
	}
}

// CalculateZoom derives a display zoom level from the bounding-box extent
// of the polygon.
//
// Fewer than 3 vertices yields DefaultZoom. Otherwise the candidate zooms
// are log2(360 / (lonSpan * 1.5)) and log2(170 / (latSpan * 1.5)), with
// spans floored at spanEpsilon; the smaller candidate wins (showing more
// area), rounded to the nearest integer and clamped to [8, 16]. The same
// value drives both the rendered map and the map-editor link, so the two
// always agree.
func CalculateZoom(coordinates []Point) int {
	if len(coordinates) < 3 {
		return DefaultZoom
	}

	minLon, maxLon := coordinates[0].Longitude, coordinates[0].Longitude
	minLat, maxLat := coordinates[0].Latitude, coordinates[0].Latitude
	for _, c := range coordinates[1:] {
		minLon = math.Min(minLon, c.Longitude)
		maxLon = math.Max(maxLon, c.Longitude)
		minLat = math.Min(minLat, c.Latitude)
		maxLat = math.Max(maxLat, c.Latitude)
	}

	lonZoom := math.Log2(360 / math.Max((maxLon-minLon)*1.5, spanEpsilon))
	latZoom := math.Log2(170 / math.Max((maxLat-minLat)*1.5, spanEpsilon))

	zoom := int(math.Round(math.Min(lonZoom, latZoom)))
	if zoom < minZoom {
		return minZoom
	}
	if zoom > maxZoom {
		return maxZoom
	}
	return zoom
}
