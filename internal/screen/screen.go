// Package screen implements the location screen: permission, device fix,
// point-of-interest fetches and the frames handed to the map renderer.
package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/assets"
	"github.com/Nixie-Tech-LLC/nearby/internal/model"
	"github.com/Nixie-Tech-LLC/nearby/internal/observability"
)

type Options struct {
	Permissions Permissions
	Locator     Geolocator
	Fetcher     PlaceFetcher
	Renderer    Renderer
	Icons       IconResolver
	Metrics     *observability.ScreenCollector
}

// Screen owns the screen state. It is safe for concurrent use; network calls
// run outside the lock and their results are applied only if still current.
type Screen struct {
	mu    sync.Mutex
	state model.State

	permissions Permissions
	locator     Geolocator
	fetcher     PlaceFetcher
	renderer    Renderer
	icons       IconResolver
	metrics     *observability.ScreenCollector
}

func New(opts Options) *Screen {
	s := &Screen{
		state:       model.NewState(),
		permissions: opts.Permissions,
		locator:     opts.Locator,
		fetcher:     opts.Fetcher,
		renderer:    opts.Renderer,
		icons:       opts.Icons,
		metrics:     opts.Metrics,
	}
	if s.renderer == nil {
		s.renderer = nopRenderer{}
	}
	if s.icons == nil {
		s.icons = assets.NewRegistry()
	}
	s.metrics.SetRadius(s.state.RadiusMiles)
	return s
}

// AcquireLocation runs the whole load sequence: permission, device fix,
// region, one fetch per visible kind, Ready. Permission or position failures
// end in Error and are returned; fetch failures become alerts. A sequence
// overtaken by a newer one returns model.ErrSuperseded without touching the state.
func (s *Screen) AcquireLocation(ctx context.Context) error {
	s.mu.Lock()
	gen := s.state.BeginLoading()
	s.mu.Unlock()
	s.Render(ctx)

	status, err := s.permissions.RequestForeground(ctx)
	if err != nil {
		return s.fail(ctx, gen, model.ErrorLocationUnavailable, fmt.Errorf("%w: %v", model.ErrLocationUnavailable, err))
	}
	if status != model.PermissionGranted {
		return s.fail(ctx, gen, model.ErrorPermissionDenied, model.ErrPermissionDenied)
	}

	pos, err := s.locator.CurrentPosition(ctx)
	if err != nil {
		return s.fail(ctx, gen, model.ErrorLocationUnavailable, fmt.Errorf("%w: %v", model.ErrLocationUnavailable, err))
	}

	region := model.NewRegion(pos.Latitude, pos.Longitude)

	s.mu.Lock()
	if !s.state.Locate(gen, region) {
		s.mu.Unlock()
		log.Debug().Uint64("gen", gen).Msg("dropping superseded location fix")
		return model.ErrSuperseded
	}
	kinds := s.state.Layers.VisibleKinds()
	radius := s.state.RadiusMiles
	s.mu.Unlock()

	log.Info().
		Float64("latitude", region.Latitude).
		Float64("longitude", region.Longitude).
		Float64("radius_miles", radius).
		Msg("location acquired")

	if err := s.fetchAll(ctx, gen, kinds, region, radius); err != nil {
		log.Warn().Err(err).Msg("some point of interest fetches failed")
	}

	s.mu.Lock()
	ready := s.state.MarkReady(gen)
	s.mu.Unlock()
	if ready {
		s.metrics.Located(string(model.StatusReady))
	}
	s.Render(ctx)
	return nil
}

// LocateMe is the user-triggered retry of AcquireLocation. It is always allowed.
func (s *Screen) LocateMe(ctx context.Context) error {
	return s.AcquireLocation(ctx)
}

func (s *Screen) fail(ctx context.Context, gen uint64, kind model.ErrorKind, err error) error {
	message := err.Error()
	if kind == model.ErrorPermissionDenied {
		message = model.PermissionDeniedMessage
	}

	s.mu.Lock()
	applied := s.state.Fail(gen, kind, message)
	s.mu.Unlock()

	if applied {
		s.metrics.Located(string(kind))
		log.Error().Err(err).Str("error_kind", string(kind)).Msg("location sequence failed")
	}
	s.Render(ctx)
	return err
}

// FetchPointsOfInterest issues one request for kind. A successful response
// replaces that kind's set; a failure leaves it untouched and raises one
// alert. Either is dropped (ErrSuperseded) if a newer request for the same
// kind was issued meanwhile.
func (s *Screen) FetchPointsOfInterest(ctx context.Context, kind model.Kind, latitude, longitude, radiusMiles float64) error {
	err := s.fetch(ctx, 0, kind, latitude, longitude, radiusMiles)
	s.Render(ctx)
	return err
}

// fetch issues one request for kind. A non-zero gen ties the request to that
// load sequence: it is not issued once the sequence is superseded.
func (s *Screen) fetch(ctx context.Context, gen uint64, kind model.Kind, latitude, longitude, radiusMiles float64) error {
	s.mu.Lock()
	if gen != 0 && !s.state.CurrentLoad(gen) {
		s.mu.Unlock()
		return model.ErrSuperseded
	}
	seq := s.state.NextFetch(kind)
	s.mu.Unlock()

	start := time.Now()
	places, err := s.fetcher.FetchPlaces(ctx, kind, latitude, longitude, radiusMiles)
	s.metrics.ObserveFetch(string(kind), err, time.Since(start))

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.LatestFetch(kind, seq) {
		s.metrics.StaleResponse(string(kind))
		log.Debug().Str("kind", string(kind)).Uint64("seq", seq).Msg("dropping superseded response")
		return model.ErrSuperseded
	}

	if err != nil {
		var fe *model.FetchError
		if !errors.As(err, &fe) {
			err = &model.FetchError{Kind: kind, Err: err}
		}
		s.state.AddAlert(kind, err.Error())
		s.metrics.AlertRaised(string(kind))
		log.Error().Err(err).Str("kind", string(kind)).Msg("point of interest fetch failed")
		return err
	}

	s.state.ReplacePlaces(kind, places)
	log.Debug().Str("kind", string(kind)).Int("count", len(places)).Msg("points of interest updated")
	return nil
}

// fetchAll fetches every kind concurrently and joins the failures.
// Superseded responses are not failures.
func (s *Screen) fetchAll(ctx context.Context, gen uint64, kinds []model.Kind, region model.Region, radiusMiles float64) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, k := range kinds {
		wg.Add(1)
		go func(k model.Kind) {
			defer wg.Done()
			err := s.fetch(ctx, gen, k, region.Latitude, region.Longitude, radiusMiles)
			if err != nil && !errors.Is(err, model.ErrSuperseded) {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(k)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// SetRadius adjusts the search radius by delta miles, never below
// model.MinRadiusMiles. A change with a known region refetches every visible
// kind once against that region.
func (s *Screen) SetRadius(ctx context.Context, delta float64) error {
	s.mu.Lock()
	changed := s.state.AdjustRadius(delta)
	radius := s.state.RadiusMiles
	kinds := s.state.Layers.VisibleKinds()
	var region *model.Region
	if s.state.Region != nil {
		r := *s.state.Region
		region = &r
	}
	s.mu.Unlock()

	s.metrics.SetRadius(radius)

	var err error
	if changed && region != nil {
		err = s.fetchAll(ctx, 0, kinds, *region, radius)
	}
	s.Render(ctx)
	return err
}

func (s *Screen) IncreaseRadius(ctx context.Context) error {
	return s.SetRadius(ctx, model.RadiusStepMiles)
}

func (s *Screen) DecreaseRadius(ctx context.Context) error {
	return s.SetRadius(ctx, -model.RadiusStepMiles)
}

// ToggleLayer flips a layer. Switching it on with a known region fetches that
// kind once; switching it off keeps the data but stops rendering it.
func (s *Screen) ToggleLayer(ctx context.Context, kind model.Kind) (bool, error) {
	s.mu.Lock()
	on := s.state.Layers.Toggle(kind)
	radius := s.state.RadiusMiles
	var region *model.Region
	if s.state.Region != nil {
		r := *s.state.Region
		region = &r
	}
	s.mu.Unlock()

	var err error
	if on && region != nil {
		err = s.fetch(ctx, 0, kind, region.Latitude, region.Longitude, radius)
		if errors.Is(err, model.ErrSuperseded) {
			err = nil
		}
	}
	s.Render(ctx)
	return on, err
}

func (s *Screen) DismissAlert(ctx context.Context, id int) bool {
	s.mu.Lock()
	ok := s.state.DismissAlert(id)
	s.mu.Unlock()
	if ok {
		s.Render(ctx)
	}
	return ok
}

// Snapshot returns a copy of the current state.
func (s *Screen) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Frame builds the frame for the current state on the given platform.
func (s *Screen) Frame(platform string) model.Frame {
	return BuildFrame(s.Snapshot(), s.icons, platform)
}

// Render pushes the current frame to the renderer.
func (s *Screen) Render(ctx context.Context) {
	if err := s.renderer.Render(ctx, s.Frame("")); err != nil {
		log.Error().Err(err).Msg("failed to render frame")
	}
}
