package poi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

func TestFetchPlacesSendsQueryAndDecodes(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"latitude":      r.URL.Query().Get("latitude"),
			"longitude":     r.URL.Query().Get("longitude"),
			"radiusInMiles": r.URL.Query().Get("radiusInMiles"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name":"Masjid Al-Noor","latitude":41.88,"longitude":-87.63,"address":"1 Main St","city":"Chicago","state":"IL"},
			{"name":"Masjid Omar","latitude":41.9,"longitude":-87.7}
		]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	places, err := c.FetchPlaces(context.Background(), model.KindMasjid, 41.8781, -87.6298, 10)
	require.NoError(t, err)

	assert.Equal(t, "/api/masjids", gotPath)
	assert.Equal(t, map[string]string{"latitude": "41.8781", "longitude": "-87.6298", "radiusInMiles": "10"}, gotQuery)

	require.Len(t, places, 2)
	assert.Equal(t, model.KindMasjid, places[0].Kind)
	assert.Equal(t, "Masjid Al-Noor", places[0].Name)
	assert.Equal(t, "IL", *places[0].State)
	assert.Nil(t, places[1].Address)
}

func TestFetchPlacesCustomPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/v1", WithPath(model.KindRestaurant, "/halal-restaurants"))
	require.NoError(t, err)

	places, err := c.FetchPlaces(context.Background(), model.KindRestaurant, 1, 2, 5)
	require.NoError(t, err)
	assert.Empty(t, places)
	assert.Equal(t, "/v1/halal-restaurants", gotPath)
}

func TestFetchPlacesNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.FetchPlaces(context.Background(), model.KindRestaurant, 1, 2, 10)
	var fe *model.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Equal(t, model.KindRestaurant, fe.Kind)
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestFetchPlacesMalformedBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":     `<html>oops</html>`,
		"object":       `{"name":"x"}`,
		"missing name": `[{"latitude":1,"longitude":2}]`,
		"null":         `null`,
		"null entry":   `[null]`,
		"trailing":     `[] []`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			c, err := NewClient(srv.URL)
			require.NoError(t, err)

			_, err = c.FetchPlaces(context.Background(), model.KindMasjid, 1, 2, 10)
			var fe *model.FetchError
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, err.Error(), "malformed body")
		})
	}
}

func TestFetchPlacesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(url)
	require.NoError(t, err)

	_, err = c.FetchPlaces(context.Background(), model.KindMasjid, 1, 2, 10)
	var fe *model.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("not a url")
	assert.Error(t, err)
}
