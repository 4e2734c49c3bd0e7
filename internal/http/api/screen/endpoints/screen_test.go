package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/nearby/internal/http/api"
	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

type fakeScreen struct {
	state    model.State
	deltas   []float64
	toggled  []model.Kind
	locates  int
	setErr   error
	platform string
}

func newFakeScreen() *fakeScreen {
	st := model.NewState()
	st.Status = model.StatusReady
	return &fakeScreen{state: st}
}

func (f *fakeScreen) LocateMe(ctx context.Context) error {
	f.locates++
	return model.ErrPermissionDenied
}

func (f *fakeScreen) SetRadius(ctx context.Context, delta float64) error {
	f.deltas = append(f.deltas, delta)
	f.state.AdjustRadius(delta)
	return f.setErr
}

func (f *fakeScreen) IncreaseRadius(ctx context.Context) error {
	return f.SetRadius(ctx, model.RadiusStepMiles)
}

func (f *fakeScreen) DecreaseRadius(ctx context.Context) error {
	return f.SetRadius(ctx, -model.RadiusStepMiles)
}

func (f *fakeScreen) ToggleLayer(ctx context.Context, kind model.Kind) (bool, error) {
	f.toggled = append(f.toggled, kind)
	return f.state.Layers.Toggle(kind), nil
}

func (f *fakeScreen) DismissAlert(ctx context.Context, id int) bool {
	return f.state.DismissAlert(id)
}

func (f *fakeScreen) Snapshot() model.State { return f.state.Clone() }

func (f *fakeScreen) Frame(platform string) model.Frame {
	f.platform = platform
	return model.Frame{Status: f.state.Status, RadiusMiles: f.state.RadiusMiles, Alerts: f.state.Alerts}
}

func setupRouter(screen LocationScreen) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api"}, ScreenModule(screen))
	api.MountGroup(r, api.GroupConfig{}, HealthModule(screen))
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeFrame(t *testing.T, w *httptest.ResponseRecorder) model.Frame {
	t.Helper()
	var frame model.Frame
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &frame))
	return frame
}

func TestGetFramePassesPlatform(t *testing.T) {
	screen := newFakeScreen()
	r := setupRouter(screen)

	w := do(r, http.MethodGet, "/api/screen?platform=web", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "web", screen.platform)
	assert.Equal(t, model.StatusReady, decodeFrame(t, w).Status)
}

func TestAdjustRadius(t *testing.T) {
	screen := newFakeScreen()
	r := setupRouter(screen)

	w := do(r, http.MethodPost, "/api/screen/radius", map[string]float64{"delta": 5})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []float64{5}, screen.deltas)
	assert.Equal(t, 15.0, decodeFrame(t, w).RadiusMiles)
}

func TestAdjustRadiusRequiresDelta(t *testing.T) {
	screen := newFakeScreen()
	r := setupRouter(screen)

	w := do(r, http.MethodPost, "/api/screen/radius", map[string]float64{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, screen.deltas)
}

func TestAdjustRadiusFetchFailureStillReturnsFrame(t *testing.T) {
	screen := newFakeScreen()
	screen.setErr = &model.FetchError{Kind: model.KindMasjid, StatusCode: 500}
	r := setupRouter(screen)

	w := do(r, http.MethodPost, "/api/screen/radius/decrease", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []float64{-5}, screen.deltas)
}

func TestIncreaseRadius(t *testing.T) {
	screen := newFakeScreen()
	r := setupRouter(screen)

	do(r, http.MethodPost, "/api/screen/radius/increase", nil)
	w := do(r, http.MethodPost, "/api/screen/radius/increase", nil)

	assert.Equal(t, []float64{5, 5}, screen.deltas)
	assert.Equal(t, 20.0, decodeFrame(t, w).RadiusMiles)
}

func TestLocateReturnsFrameOnFailure(t *testing.T) {
	screen := newFakeScreen()
	r := setupRouter(screen)

	w := do(r, http.MethodPost, "/api/screen/locate", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, screen.locates)
}

func TestToggleLayer(t *testing.T) {
	screen := newFakeScreen()
	r := setupRouter(screen)

	w := do(r, http.MethodPost, "/api/screen/layers/restaurants/toggle", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Kind    model.Kind `json:"kind"`
		Visible bool       `json:"visible"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.KindRestaurant, resp.Kind)
	assert.False(t, resp.Visible)
	assert.Equal(t, []model.Kind{model.KindRestaurant}, screen.toggled)
}

func TestToggleUnknownLayer(t *testing.T) {
	screen := newFakeScreen()
	r := setupRouter(screen)

	w := do(r, http.MethodPost, "/api/screen/layers/churches/toggle", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, screen.toggled)
}

func TestDismissAlert(t *testing.T) {
	screen := newFakeScreen()
	alert := screen.state.AddAlert(model.KindMasjid, "fetch masjids: status 500")
	r := setupRouter(screen)

	w := do(r, http.MethodDelete, "/api/screen/alerts/"+jsonInt(alert.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeFrame(t, w).Alerts)

	w = do(r, http.MethodDelete, "/api/screen/alerts/"+jsonInt(alert.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/api/screen/alerts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStateAndHealth(t *testing.T) {
	screen := newFakeScreen()
	r := setupRouter(screen)

	w := do(r, http.MethodGet, "/api/screen/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var st model.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, model.DefaultRadiusMiles, st.RadiusMiles)

	w = do(r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","screen":"ready"}`, w.Body.String())
}

func jsonInt(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}
