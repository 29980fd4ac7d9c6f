package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// LocationQuery is a normalized search string. It is the cache key for resolved locations.
type LocationQuery string

// NormalizeQuery lowercases the raw query and trims surrounding whitespace.
func NormalizeQuery(raw string) LocationQuery {
	return LocationQuery(strings.ToLower(strings.TrimSpace(raw)))
}

func (q LocationQuery) String() string {
	return string(q)
}

// LocationRecord is a resolved place as stored in the locations cache table.
type LocationRecord struct {
	ID             int64     `json:"-"`
	SearchQuery    string    `json:"search_query"`
	FormattedQuery string    `json:"formatted_query"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	CreatedAt      time.Time `json:"-"`
}

var (
	ErrEmptySearchQuery = errors.New("models: search query cannot be empty")
	ErrInvalidLatitude  = errors.New("models: latitude out of range")
	ErrInvalidLongitude = errors.New("models: longitude out of range")
)

// NewLocationRecord builds a record keyed by the normalized form of query and
// validates the coordinates.
func NewLocationRecord(query, formatted string, lat, lon float64) (LocationRecord, error) {
	key := NormalizeQuery(query)
	if key == "" {
		return LocationRecord{}, ErrEmptySearchQuery
	}
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return LocationRecord{}, fmt.Errorf("%w: %f", ErrInvalidLatitude, lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return LocationRecord{}, fmt.Errorf("%w: %f", ErrInvalidLongitude, lon)
	}

	return LocationRecord{
		SearchQuery:    key.String(),
		FormattedQuery: formatted,
		Latitude:       lat,
		Longitude:      lon,
	}, nil
}
