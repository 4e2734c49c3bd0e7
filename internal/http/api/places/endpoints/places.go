package endpoints

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/db"
	"github.com/Nixie-Tech-LLC/nearby/internal/http/api"
	"github.com/Nixie-Tech-LLC/nearby/internal/http/api/places/packets"
	"github.com/Nixie-Tech-LLC/nearby/internal/model"
	"github.com/Nixie-Tech-LLC/nearby/internal/observability"
)

type PlacesController struct {
	finder  db.PlaceFinder
	metrics *observability.PlacesCollector
}

func NewPlacesController(finder db.PlaceFinder, metrics *observability.PlacesCollector) *PlacesController {
	return &PlacesController{finder: finder, metrics: metrics}
}

func PlacesModule(finder db.PlaceFinder, metrics *observability.PlacesCollector) api.Module {
	ctl := NewPlacesController(finder, metrics)
	return api.ModuleFunc(func(c *api.Controller) {
		for _, kind := range model.Kinds() {
			c.GET("/"+kind.Plural(), ctl.nearby(kind))
		}
	})
}

// GET /api/masjids?latitude=..&longitude=..&radiusInMiles=..
// GET /api/restaurants?latitude=..&longitude=..&radiusInMiles=..
func (p *PlacesController) nearby(kind model.Kind) api.HandlerFunc {
	return func(ctx *gin.Context) (any, *api.Error) {
		var query packets.NearbyQuery
		if err := ctx.ShouldBindQuery(&query); err != nil {
			return nil, api.BadRequest("latitude, longitude and radiusInMiles are required numbers: " + err.Error())
		}

		start := time.Now()
		places, err := p.finder.Nearby(ctx.Request.Context(), kind, *query.Latitude, *query.Longitude, *query.RadiusInMiles)
		p.metrics.ObserveLookup(string(kind), len(places), err, time.Since(start))
		if err != nil {
			log.Error().Err(err).Str("kind", string(kind)).Msg("nearby lookup failed")
			return nil, api.Internal("could not load " + kind.Plural())
		}

		out := make([]packets.PlaceResponse, 0, len(places))
		for _, place := range places {
			out = append(out, packets.NewPlaceResponse(place))
		}
		return out, nil
	}
}
