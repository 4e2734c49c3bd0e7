package screen

import (
	"strings"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
	"github.com/Nixie-Tech-LLC/nearby/internal/spatial"
)

const PlatformWeb = "web"

// BuildFrame turns a state into what the map renderer draws. Loading and
// error states replace the map entirely; the web platform gets a notice
// instead of a map.
func BuildFrame(st model.State, icons IconResolver, platform string) model.Frame {
	frame := model.Frame{
		Status: st.Status,
		Alerts: append([]model.Alert{}, st.Alerts...),
	}

	switch st.Status {
	case model.StatusLoading:
		frame.Message = model.LoadingMessage
		return frame
	case model.StatusError:
		frame.Message = st.Message
		return frame
	}

	if strings.EqualFold(platform, PlatformWeb) {
		frame.Notice = model.WebNotice
		return frame
	}

	if st.Region == nil {
		frame.Message = model.LoadingMessage
		return frame
	}

	region := *st.Region
	layers := st.Layers
	frame.Region = &region
	frame.RadiusMiles = st.RadiusMiles
	frame.Layers = &layers
	frame.Circle = &model.Circle{
		Center:       region.Center(),
		RadiusMeters: model.MilesToMeters(st.RadiusMiles),
		StrokeColor:  model.CircleStrokeColor,
		FillColor:    model.CircleFillColor,
	}
	frame.You = &model.Marker{
		Position: region.Center(),
		Title:    model.YouAreHereTitle,
	}

	frame.Markers = []model.Marker{}
	for _, kind := range layers.VisibleKinds() {
		icon := icons.Icon(kind)
		for _, p := range st.Places[kind] {
			if !spatial.WithinMiles(region.Latitude, region.Longitude, p.Latitude, p.Longitude, st.RadiusMiles) {
				continue
			}
			frame.Markers = append(frame.Markers, model.Marker{
				Kind:        kind,
				Position:    p.Position(),
				Icon:        icon,
				Title:       p.Name,
				Description: p.Description(),
			})
		}
	}
	return frame
}
