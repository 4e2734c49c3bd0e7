package endpoints

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/http/api"
	"github.com/Nixie-Tech-LLC/nearby/internal/http/api/screen/packets"
	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

// LocationScreen is the part of screen.Screen the HTTP surface drives.
type LocationScreen interface {
	LocateMe(ctx context.Context) error
	SetRadius(ctx context.Context, delta float64) error
	IncreaseRadius(ctx context.Context) error
	DecreaseRadius(ctx context.Context) error
	ToggleLayer(ctx context.Context, kind model.Kind) (bool, error)
	DismissAlert(ctx context.Context, id int) bool
	Snapshot() model.State
	Frame(platform string) model.Frame
}

type ScreenController struct {
	screen LocationScreen
}

func NewScreenController(screen LocationScreen) *ScreenController {
	return &ScreenController{screen: screen}
}

func ScreenModule(screen LocationScreen) api.Module {
	ctl := NewScreenController(screen)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/screen", ctl.getFrame)
		c.GET("/screen/state", ctl.getState)
		c.POST("/screen/locate", ctl.locate)
		c.POST("/screen/radius", ctl.adjustRadius)
		c.POST("/screen/radius/increase", ctl.increaseRadius)
		c.POST("/screen/radius/decrease", ctl.decreaseRadius)
		c.POST("/screen/layers/:kind/toggle", ctl.toggleLayer)
		c.DELETE("/screen/alerts/:id", ctl.dismissAlert)
	})
}

// HealthModule reports liveness plus the current screen status.
func HealthModule(screen LocationScreen) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/healthz", func(ctx *gin.Context) (any, *api.Error) {
			return packets.HealthResponse{Status: "ok", Screen: screen.Snapshot().Status}, nil
		})
	})
}

// detached keeps a screen update running after the client disconnects.
func detached(ctx *gin.Context) context.Context {
	return context.WithoutCancel(ctx.Request.Context())
}

// GET /api/screen?platform=web
func (s *ScreenController) getFrame(ctx *gin.Context) (any, *api.Error) {
	return s.screen.Frame(ctx.Query("platform")), nil
}

// GET /api/screen/state
func (s *ScreenController) getState(ctx *gin.Context) (any, *api.Error) {
	return s.screen.Snapshot(), nil
}

// POST /api/screen/locate
func (s *ScreenController) locate(ctx *gin.Context) (any, *api.Error) {
	if err := s.screen.LocateMe(detached(ctx)); err != nil {
		// the failure is already part of the state and shown by the frame
		log.Warn().Err(err).Msg("locate me failed")
	}
	return s.screen.Frame(ctx.Query("platform")), nil
}

// POST /api/screen/radius
func (s *ScreenController) adjustRadius(ctx *gin.Context) (any, *api.Error) {
	var request packets.RadiusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	logFetchErr(s.screen.SetRadius(detached(ctx), *request.Delta))
	return s.screen.Frame(ctx.Query("platform")), nil
}

// POST /api/screen/radius/increase
func (s *ScreenController) increaseRadius(ctx *gin.Context) (any, *api.Error) {
	logFetchErr(s.screen.IncreaseRadius(detached(ctx)))
	return s.screen.Frame(ctx.Query("platform")), nil
}

// POST /api/screen/radius/decrease
func (s *ScreenController) decreaseRadius(ctx *gin.Context) (any, *api.Error) {
	logFetchErr(s.screen.DecreaseRadius(detached(ctx)))
	return s.screen.Frame(ctx.Query("platform")), nil
}

// POST /api/screen/layers/:kind/toggle
func (s *ScreenController) toggleLayer(ctx *gin.Context) (any, *api.Error) {
	kind, err := model.ParseKind(ctx.Param("kind"))
	if err != nil {
		return nil, api.BadRequest(err.Error())
	}

	visible, err := s.screen.ToggleLayer(detached(ctx), kind)
	logFetchErr(err)

	return packets.ToggleResponse{
		Kind:    kind,
		Visible: visible,
		Frame:   s.screen.Frame(ctx.Query("platform")),
	}, nil
}

// DELETE /api/screen/alerts/:id
func (s *ScreenController) dismissAlert(ctx *gin.Context) (any, *api.Error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid alert id"}
	}

	if !s.screen.DismissAlert(detached(ctx), id) {
		return nil, api.NotFound("alert not found")
	}
	return s.screen.Frame(ctx.Query("platform")), nil
}

// Fetch failures are surfaced as alerts in the frame, so the request itself succeeds.
func logFetchErr(err error) {
	if err == nil {
		return
	}
	var fe *model.FetchError
	if errors.As(err, &fe) {
		log.Warn().Err(err).Msg("refetch finished with failures")
		return
	}
	log.Error().Err(err).Msg("screen update failed")
}
