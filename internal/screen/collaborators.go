package screen

import (
	"context"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

// Permissions asks the device for foreground location access.
type Permissions interface {
	RequestForeground(ctx context.Context) (model.PermissionStatus, error)
}

// Geolocator reads the device position.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (model.Coordinate, error)
}

// PlaceFetcher queries the points-of-interest endpoint for one kind.
type PlaceFetcher interface {
	FetchPlaces(ctx context.Context, kind model.Kind, latitude, longitude, radiusMiles float64) ([]model.PointOfInterest, error)
}

// Renderer draws frames. Errors are logged and never change screen state.
type Renderer interface {
	Render(ctx context.Context, frame model.Frame) error
}

// IconResolver maps a kind to its marker icon handle.
type IconResolver interface {
	Icon(kind model.Kind) string
}

type RendererFunc func(ctx context.Context, frame model.Frame) error

func (f RendererFunc) Render(ctx context.Context, frame model.Frame) error { return f(ctx, frame) }

type nopRenderer struct{}

func (nopRenderer) Render(context.Context, model.Frame) error { return nil }

// MultiRenderer fans one frame out to every renderer and returns the first error.
func MultiRenderer(renderers ...Renderer) Renderer {
	return RendererFunc(func(ctx context.Context, frame model.Frame) error {
		var first error
		for _, r := range renderers {
			if err := r.Render(ctx, frame); err != nil && first == nil {
				first = err
			}
		}
		return first
	})
}
