// Package location provides the permission and position sources for devices
// that have no platform location service, such as masjid lobby screens.
package location

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

var ErrNoPosition = errors.New("no position configured")

// ConfigPermissions answers the permission prompt from configuration.
type ConfigPermissions struct {
	Granted bool
}

func (p ConfigPermissions) RequestForeground(ctx context.Context) (model.PermissionStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.Granted {
		return model.PermissionGranted, nil
	}
	return model.PermissionDenied, nil
}

// StaticLocator reports a fixed installation position.
type StaticLocator struct {
	Position *model.Coordinate
}

func NewStaticLocator(latitude, longitude float64) (*StaticLocator, error) {
	if err := Validate(latitude, longitude); err != nil {
		return nil, err
	}
	return &StaticLocator{Position: &model.Coordinate{Latitude: latitude, Longitude: longitude}}, nil
}

func (l *StaticLocator) CurrentPosition(ctx context.Context) (model.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinate{}, err
	}
	if l == nil || l.Position == nil {
		return model.Coordinate{}, ErrNoPosition
	}
	return *l.Position, nil
}

// Validate checks that a coordinate lies on the globe.
func Validate(latitude, longitude float64) error {
	if math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", latitude)
	}
	if math.IsNaN(longitude) || longitude < -180 || longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", longitude)
	}
	return nil
}
