package model

import (
	"fmt"
	"strings"
)

// Kind is one of the point-of-interest layers shown on the map.
type Kind string

const (
	KindMasjid     Kind = "masjid"
	KindRestaurant Kind = "restaurant"
)

// Kinds lists every layer in render order.
func Kinds() []Kind {
	return []Kind{KindMasjid, KindRestaurant}
}

// ParseKind accepts the singular or plural layer name ("masjid", "masjids", ...).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "masjid", "masjids":
		return KindMasjid, nil
	case "restaurant", "restaurants":
		return KindRestaurant, nil
	}
	return "", fmt.Errorf("unknown point of interest kind %q", s)
}

// Plural is the endpoint path segment for the kind.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// PointOfInterest is a single masjid or restaurant returned by the places endpoint.
type PointOfInterest struct {
	ID        int     `db:"id"         json:"-"`
	Kind      Kind    `db:"kind"       json:"kind,omitempty"`
	Name      string  `db:"name"       json:"name"`
	Latitude  float64 `db:"latitude"   json:"latitude"`
	Longitude float64 `db:"longitude"  json:"longitude"`
	Address   *string `db:"address"    json:"address,omitempty"`
	City      *string `db:"city"       json:"city,omitempty"`
	State     *string `db:"state"      json:"state,omitempty"`
}

func (p PointOfInterest) Position() Coordinate {
	return Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

// Description joins the non-empty address parts with ", ".
func (p PointOfInterest) Description() string {
	parts := make([]string, 0, 3)
	for _, s := range []*string{p.Address, p.City, p.State} {
		if s != nil && strings.TrimSpace(*s) != "" {
			parts = append(parts, strings.TrimSpace(*s))
		}
	}
	return strings.Join(parts, ", ")
}
