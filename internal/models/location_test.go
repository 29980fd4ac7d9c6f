package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected LocationQuery
	}{
		{name: "already normalized", raw: "seattle", expected: "seattle"},
		{name: "capitalized", raw: "Seattle", expected: "seattle"},
		{name: "trailing space", raw: "seattle ", expected: "seattle"},
		{name: "upper with leading space", raw: " SEATTLE", expected: "seattle"},
		{name: "inner whitespace kept", raw: "  New York\t", expected: "new york"},
		{name: "blank", raw: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeQuery(tt.raw))
		})
	}
}

func TestNewLocationRecord(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		lat         float64
		lon         float64
		expectedErr error
	}{
		{name: "valid", query: " Portland", lat: 45.52, lon: -122.68},
		{name: "poles and antimeridian", query: "edge", lat: -90, lon: 180},
		{name: "empty query", query: "  ", lat: 1, lon: 1, expectedErr: ErrEmptySearchQuery},
		{name: "latitude too large", query: "x", lat: 90.1, lon: 0, expectedErr: ErrInvalidLatitude},
		{name: "longitude too small", query: "x", lat: 0, lon: -180.5, expectedErr: ErrInvalidLongitude},
		{name: "latitude not a number", query: "x", lat: math.NaN(), lon: 0, expectedErr: ErrInvalidLatitude},
		{name: "longitude not a number", query: "x", lat: 0, lon: math.NaN(), expectedErr: ErrInvalidLongitude},
		{name: "infinite latitude", query: "x", lat: math.Inf(1), lon: 0, expectedErr: ErrInvalidLatitude},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewLocationRecord(tt.query, "Formatted", tt.lat, tt.lon)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, NormalizeQuery(tt.query).String(), rec.SearchQuery)
			assert.Equal(t, "Formatted", rec.FormattedQuery)
			assert.Equal(t, tt.lat, rec.Latitude)
			assert.Equal(t, tt.lon, rec.Longitude)
		})
	}
}

func TestProviderError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&ProviderError{Kind: ProviderNetwork, Query: "Portland", Err: cause})

	assert.True(t, IsProviderError(err, ProviderNetwork))
	assert.False(t, IsProviderError(err, ProviderEmptyResult))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "network")

	empty := &ProviderError{Kind: ProviderEmptyResult, Query: "nowhere"}
	assert.Equal(t, `geocoder: no results for "nowhere"`, empty.Error())

	status := &ProviderError{Kind: ProviderStatus, Query: "x", StatusCode: 502}
	assert.Equal(t, `geocoder: provider returned status 502 for "x"`, status.Error())
	assert.Equal(t, "empty_result", ProviderEmptyResult.String())
}
