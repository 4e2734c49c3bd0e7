package spatial

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	EarthRadiusMeters = 6371000.0 // mean radius
	MetersPerMile     = 1609.34
)

// DistanceMeters is the great-circle distance between two points.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// WithinMiles reports whether the point lies inside the circle of radiusMiles around the center.
func WithinMiles(centerLat, centerLon, lat, lon, radiusMiles float64) bool {
	if radiusMiles <= 0 {
		return false
	}
	return DistanceMeters(centerLat, centerLon, lat, lon) <= radiusMiles*MetersPerMile
}

// BoundingBox is a lat/lng rectangle in degrees.
type BoundingBox struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// BoundsForRadius returns the rectangle enclosing a cap of radiusMiles around the center.
// Used as a cheap index-friendly prefilter before the exact distance check.
func BoundsForRadius(lat, lon, radiusMiles float64) BoundingBox {
	angle := s1.Angle(radiusMiles * MetersPerMile / EarthRadiusMeters)
	c := s2.CapFromCenterAngle(s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon)), angle)
	rect := c.RectBound()
	return BoundingBox{
		MinLat: rect.Lo().Lat.Degrees(),
		MinLon: rect.Lo().Lng.Degrees(),
		MaxLat: rect.Hi().Lat.Degrees(),
		MaxLon: rect.Hi().Lng.Degrees(),
	}
}

// CrossesAntimeridian reports whether the box wraps past ±180 longitude.
func (b BoundingBox) CrossesAntimeridian() bool {
	return b.MinLon > b.MaxLon
}
