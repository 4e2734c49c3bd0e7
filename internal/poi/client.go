// Package poi calls the remote points-of-interest endpoints.
package poi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

const DefaultTimeout = 15 * time.Second

// Client fetches points of interest for one kind at a time from
// <BaseURL>/<kind path>?latitude=..&longitude=..&radiusInMiles=..
type Client struct {
	baseURL *url.URL
	paths   map[model.Kind]string
	http    *http.Client
}

type Option func(*Client)

// WithPath overrides the endpoint path for a kind (default "/api/<kind>s").
func WithPath(kind model.Kind, path string) Option {
	return func(c *Client) { c.paths[kind] = path }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid places base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid places base url %q: scheme and host required", baseURL)
	}

	c := &Client{
		baseURL: u,
		paths:   make(map[model.Kind]string),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, k := range model.Kinds() {
		c.paths[k] = "/api/" + k.Plural()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint builds the request URL for a kind and query.
func (c *Client) Endpoint(kind model.Kind, latitude, longitude, radiusMiles float64) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + c.paths[kind]
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("radiusInMiles", strconv.FormatFloat(radiusMiles, 'f', -1, 64))
	u.RawQuery = q.Encode()
	return u.String()
}

type place struct {
	Name      *string  `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   *string  `json:"address"`
	City      *string  `json:"city"`
	State     *string  `json:"state"`
}

// FetchPlaces issues one GET for kind. Transport errors, non-2xx statuses and
// bodies that are not a JSON array of places come back as *model.FetchError.
func (c *Client) FetchPlaces(ctx context.Context, kind model.Kind, latitude, longitude, radiusMiles float64) ([]model.PointOfInterest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint(kind, latitude, longitude, radiusMiles), nil)
	if err != nil {
		return nil, &model.FetchError{Kind: kind, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &model.FetchError{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &model.FetchError{Kind: kind, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	var raw []place
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&raw); err != nil {
		return nil, &model.FetchError{Kind: kind, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed body: %w", err)}
	}
	if raw == nil {
		return nil, &model.FetchError{Kind: kind, StatusCode: resp.StatusCode, Err: errors.New("malformed body: expected a JSON array")}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &model.FetchError{Kind: kind, StatusCode: resp.StatusCode, Err: errors.New("malformed body: trailing data after array")}
	}

	out := make([]model.PointOfInterest, 0, len(raw))
	for i, p := range raw {
		if p.Name == nil || p.Latitude == nil || p.Longitude == nil {
			return nil, &model.FetchError{Kind: kind, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed body: entry %d lacks name, latitude or longitude", i)}
		}
		out = append(out, model.PointOfInterest{
			Kind:      kind,
			Name:      *p.Name,
			Latitude:  *p.Latitude,
			Longitude: *p.Longitude,
			Address:   p.Address,
			City:      p.City,
			State:     p.State,
		})
	}
	return out, nil
}
