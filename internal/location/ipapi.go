package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

const DefaultIPLookupURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city"

// IPLocator estimates the position from the public IP through an ip-api
// compatible lookup service.
type IPLocator struct {
	URL  string
	HTTP *http.Client
}

func NewIPLocator(url string) *IPLocator {
	if url == "" {
		url = DefaultIPLookupURL
	}
	return &IPLocator{URL: url, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

type ipLookup struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
}

func (l *IPLocator) CurrentPosition(ctx context.Context) (model.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return model.Coordinate{}, err
	}

	resp, err := l.HTTP.Do(req)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("ip lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Coordinate{}, fmt.Errorf("ip lookup: unexpected status %d", resp.StatusCode)
	}

	var body ipLookup
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Coordinate{}, fmt.Errorf("ip lookup: decode: %w", err)
	}
	if body.Status != "success" {
		return model.Coordinate{}, fmt.Errorf("ip lookup: %s", body.Message)
	}
	if err := Validate(body.Lat, body.Lon); err != nil {
		return model.Coordinate{}, fmt.Errorf("ip lookup: %w", err)
	}

	log.Debug().Str("city", body.City).Float64("lat", body.Lat).Float64("lon", body.Lon).Msg("ip lookup resolved")
	return model.Coordinate{Latitude: body.Lat, Longitude: body.Lon}, nil
}
