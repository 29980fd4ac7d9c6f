package service

import (
	"context"
	"errors"
	"fmt"

	"city-explorer-api/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrEmptyQuery is returned when the query is blank after normalization.
var ErrEmptyQuery = errors.New("service: query cannot be empty")

// LocationRepository is the persistent location cache.
type LocationRepository interface {
	FindBySearchQuery(ctx context.Context, key models.LocationQuery) (*models.LocationRecord, error)
	Insert(ctx context.Context, rec models.LocationRecord) (*models.LocationRecord, error)
}

// Geocoder resolves a raw query through the external provider.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (*models.LocationRecord, error)
}

// LocationService resolves free-text queries to locations, serving repeats from the cache.
type LocationService struct {
	repo     LocationRepository
	geocoder Geocoder
	inflight singleflight.Group
}

// NewLocationService creates a new location service
func NewLocationService(repo LocationRepository, geocoder Geocoder) *LocationService {
	return &LocationService{repo: repo, geocoder: geocoder}
}

// ResolveLocation returns the cached record for the normalized query, calling the provider and
// populating the cache on a miss. Concurrent misses for one key within the process share a
// single resolution; across processes the store's uniqueness constraint decides the winner.
//
// Store and provider calls run detached from ctx cancellation: once issued they complete.
func (s *LocationService) ResolveLocation(ctx context.Context, rawQuery string) (*models.LocationRecord, error) {
	key := models.NormalizeQuery(rawQuery)
	if key == "" {
		return nil, ErrEmptyQuery
	}

	detached := context.WithoutCancel(ctx)
	v, err, _ := s.inflight.Do(key.String(), func() (any, error) {
		return s.resolve(detached, rawQuery, key)
	})
	if err != nil {
		return nil, err
	}

	rec := *v.(*models.LocationRecord)
	return &rec, nil
}

func (s *LocationService) resolve(ctx context.Context, rawQuery string, key models.LocationQuery) (*models.LocationRecord, error) {
	cached, err := s.repo.FindBySearchQuery(ctx, key)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		log.Debug().Str("query", key.String()).Msg("location cache hit")
		return cached, nil
	}

	log.Debug().Str("query", key.String()).Msg("location cache miss")

	resolved, err := s.geocoder.Resolve(ctx, rawQuery)
	if err != nil {
		return nil, err
	}
	rec := *resolved
	rec.SearchQuery = key.String()

	stored, err := s.repo.Insert(ctx, rec)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, models.ErrConstraintViolation) {
		return nil, err
	}

	// Another resolver stored this key between our lookup and insert; its record wins.
	log.Info().Str("query", key.String()).Msg("location already cached by a concurrent resolver")

	winner, err := s.repo.FindBySearchQuery(ctx, key)
	if err != nil {
		return nil, err
	}
	if winner == nil {
		return nil, fmt.Errorf("service: location %q missing after constraint violation", key)
	}
	return winner, nil
}
