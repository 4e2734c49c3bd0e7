package db

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Nixie-Tech-LLC/nearby/internal/location"
	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

// seed file columns, tab separated, first row is a header
const (
	colKind = iota
	colName
	colAddress
	colCity
	colState
	colLatitude
	colLongitude
	seedColumns
)

// ReadSeedFile loads places from a tab-separated seed file.
func ReadSeedFile(path string) ([]model.PointOfInterest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadSeed(file)
}

func ReadSeed(r io.Reader) ([]model.PointOfInterest, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = seedColumns
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	places := make([]model.PointOfInterest, 0, len(records))
	for i, record := range records {
		if i == 0 {
			continue
		}

		kind, err := model.ParseKind(record[colKind])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		latitude, err := strconv.ParseFloat(strings.TrimSpace(record[colLatitude]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid latitude: %w", i+1, err)
		}
		longitude, err := strconv.ParseFloat(strings.TrimSpace(record[colLongitude]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid longitude: %w", i+1, err)
		}
		if err := location.Validate(latitude, longitude); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		name := strings.TrimSpace(record[colName])
		if name == "" {
			return nil, fmt.Errorf("line %d: missing name", i+1)
		}

		places = append(places, model.PointOfInterest{
			Kind:      kind,
			Name:      name,
			Latitude:  latitude,
			Longitude: longitude,
			Address:   optional(record[colAddress]),
			City:      optional(record[colCity]),
			State:     optional(record[colState]),
		})
	}
	return places, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
