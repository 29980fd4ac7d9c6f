package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"city-explorer-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLocationResolver is a mock implementation of the LocationResolver interface
type MockLocationResolver struct {
	mock.Mock
}

func (m *MockLocationResolver) ResolveLocation(ctx context.Context, rawQuery string) (*models.LocationRecord, error) {
	args := m.Called(ctx, rawQuery)
	rec, _ := args.Get(0).(*models.LocationRecord)
	return rec, args.Error(1)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queries.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseQueries(t *testing.T) {
	path := writeCSV(t, "query\nPortland\n\" \"\n\"Seattle, WA\"\n SEATTLE ,ignored\n")

	queries, err := parseQueries(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Portland", "Seattle, WA", " SEATTLE "}, queries)
}

func TestParseQueries_Errors(t *testing.T) {
	_, err := parseQueries(writeCSV(t, ""))
	assert.ErrorContains(t, err, "failed to read header")

	_, err = parseQueries(writeCSV(t, "query\n\"unterminated\n"))
	assert.ErrorContains(t, err, "failed to read record")

	_, err = parseQueries(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "failed to open file")
}

func TestWarm(t *testing.T) {
	portland := &models.LocationRecord{SearchQuery: "portland", FormattedQuery: "Portland, OR, USA", Latitude: 45.52, Longitude: -122.68}
	boise := &models.LocationRecord{SearchQuery: "boise", FormattedQuery: "Boise, ID, USA", Latitude: 43.61, Longitude: -116.2}
	storeDown := fmt.Errorf("repository: failed to look up location: %w", models.ErrStoreUnavailable)

	tests := []struct {
		name        string
		queries     []string
		setup       func(m *MockLocationResolver)
		expected    warmSummary
		expectedErr error
	}{
		{
			name:    "every query goes through the resolver",
			queries: []string{"Portland", "Boise"},
			setup: func(m *MockLocationResolver) {
				m.On("ResolveLocation", mock.Anything, "Portland").Return(portland, nil).Once()
				m.On("ResolveLocation", mock.Anything, "Boise").Return(boise, nil).Once()
			},
			expected: warmSummary{Resolved: 2},
		},
		{
			name:    "provider failure is skipped",
			queries: []string{"Atlantis", "Boise"},
			setup: func(m *MockLocationResolver) {
				m.On("ResolveLocation", mock.Anything, "Atlantis").
					Return(nil, &models.ProviderError{Kind: models.ProviderEmptyResult, Query: "Atlantis"}).Once()
				m.On("ResolveLocation", mock.Anything, "Boise").Return(boise, nil).Once()
			},
			expected: warmSummary{Resolved: 1, Failed: 1},
		},
		{
			name:    "store unavailable aborts",
			queries: []string{"Portland", "Boise", "Seattle"},
			setup: func(m *MockLocationResolver) {
				m.On("ResolveLocation", mock.Anything, "Portland").Return(portland, nil).Once()
				m.On("ResolveLocation", mock.Anything, "Boise").Return(nil, storeDown).Once()
			},
			expected:    warmSummary{Resolved: 1},
			expectedErr: models.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(MockLocationResolver)
			tt.setup(resolver)

			summary, err := warm(context.Background(), resolver, tt.queries)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, summary)
			resolver.AssertExpectations(t)
		})
	}
}
