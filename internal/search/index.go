package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olivere/elastic/v7"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
	"github.com/Nixie-Tech-LLC/nearby/internal/spatial"
)

// maxResults caps a single radius search.
const maxResults = 1000

const mapping = `{
	"mappings": {
		"properties": {
			"kind":     {"type": "keyword"},
			"name":     {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"address":  {"type": "text"},
			"city":     {"type": "keyword"},
			"state":    {"type": "keyword"},
			"location": {"type": "geo_point"}
		}
	}
}`

type placeDoc struct {
	Kind     model.Kind       `json:"kind"`
	Name     string           `json:"name"`
	Address  *string          `json:"address,omitempty"`
	City     *string          `json:"city,omitempty"`
	State    *string          `json:"state,omitempty"`
	Location elastic.GeoPoint `json:"location"`
}

func toDoc(p model.PointOfInterest) placeDoc {
	return placeDoc{
		Kind:     p.Kind,
		Name:     p.Name,
		Address:  p.Address,
		City:     p.City,
		State:    p.State,
		Location: elastic.GeoPoint{Lat: p.Latitude, Lon: p.Longitude},
	}
}

func (d placeDoc) place(id string) model.PointOfInterest {
	n, _ := strconv.Atoi(id)
	return model.PointOfInterest{
		ID:        n,
		Kind:      d.Kind,
		Name:      d.Name,
		Latitude:  d.Location.Lat,
		Longitude: d.Location.Lon,
		Address:   d.Address,
		City:      d.City,
		State:     d.State,
	}
}

type Index struct {
	client *elastic.Client
	name   string
}

// NewIndex connects without sniffing, so the configured URL is the only node used.
func NewIndex(url, name string) (*Index, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
	)
	if err != nil {
		return nil, fmt.Errorf("elastic client %s: %w", url, err)
	}
	return &Index{client: client, name: name}, nil
}

// EnsureIndex creates the index with its geo_point mapping when it is missing.
func (x *Index) EnsureIndex(ctx context.Context) error {
	exists, err := x.client.IndexExists(x.name).Do(ctx)
	if err != nil {
		return fmt.Errorf("check index %s: %w", x.name, err)
	}
	if exists {
		log.Debug().Str("index", x.name).Msg("elastic index already exists")
		return nil
	}

	created, err := x.client.CreateIndex(x.name).BodyString(mapping).Do(ctx)
	if err != nil {
		return fmt.Errorf("create index %s: %w", x.name, err)
	}
	if !created.Acknowledged {
		log.Warn().Str("index", x.name).Msg("create index was not acknowledged")
	}
	log.Info().Str("index", x.name).Msg("elastic index created")
	return nil
}

// IndexPlaces bulk-indexes places by id and refreshes so they are searchable on return.
func (x *Index) IndexPlaces(ctx context.Context, places []model.PointOfInterest) error {
	if len(places) == 0 {
		return nil
	}

	bulk := x.client.Bulk().Index(x.name).Refresh("true")
	for _, p := range places {
		bulk.Add(elastic.NewBulkIndexRequest().Id(strconv.Itoa(p.ID)).Doc(toDoc(p)))
	}

	resp, err := bulk.Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}
	if failed := resp.Failed(); len(failed) > 0 {
		for _, item := range failed {
			if item.Error != nil {
				log.Error().Str("id", item.Id).Str("reason", item.Error.Reason).Msg("failed to index place")
			}
		}
		return fmt.Errorf("bulk index: %d of %d places failed", len(failed), len(places))
	}

	log.Info().Str("index", x.name).Int("count", len(places)).Msg("places indexed")
	return nil
}

// Nearby filters on kind and geo_distance and sorts nearest first.
func (x *Index) Nearby(ctx context.Context, kind model.Kind, latitude, longitude, radiusMiles float64) ([]model.PointOfInterest, error) {
	query := elastic.NewBoolQuery().Filter(
		elastic.NewTermQuery("kind", string(kind)),
		elastic.NewGeoDistanceQuery("location").
			Point(latitude, longitude).
			Distance(fmt.Sprintf("%gmi", radiusMiles)),
	)

	result, err := x.client.Search().
		Index(x.name).
		Query(query).
		SortBy(elastic.NewGeoDistanceSort("location").
			Point(latitude, longitude).
			Asc().
			Unit("mi").
			DistanceType("arc")).
		Size(maxResults).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", kind.Plural(), err)
	}

	out := make([]model.PointOfInterest, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var doc placeDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			log.Warn().Err(err).Str("id", hit.Id).Msg("skipping malformed place document")
			continue
		}
		p := doc.place(hit.Id)
		if !spatial.WithinMiles(latitude, longitude, p.Latitude, p.Longitude, radiusMiles) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
