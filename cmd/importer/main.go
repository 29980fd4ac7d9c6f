package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"city-explorer-api/internal/config"
	"city-explorer-api/internal/geocoder"
	"city-explorer-api/internal/logging"
	"city-explorer-api/internal/models"
	"city-explorer-api/internal/repository"
	"city-explorer-api/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// LocationResolver is the subset of the location service the warmer drives.
type LocationResolver interface {
	ResolveLocation(ctx context.Context, rawQuery string) (*models.LocationRecord, error)
}

func main() {
	file := flag.String("file", "", "Path to a CSV with a 'query' column of places to warm the cache with")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: --file flag is required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("cannot set up logging")
	}

	log.Info().Str("file", *file).Msg("starting cache warm-up")

	queries, err := parseQueries(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse CSV")
	}

	log.Info().Int("queries", len(queries)).Msg("parsed queries")

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer pool.Close()

	repo := repository.NewRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	geo := geocoder.NewClient(cfg.GeocodeAPIKey,
		geocoder.WithBaseURL(cfg.GeocodeBaseURL),
		geocoder.WithTimeout(cfg.GeocodeTimeout),
	)

	summary, err := warm(ctx, service.NewLocationService(repo, geo), queries)
	if err != nil {
		log.Fatal().Err(err).Int("resolved", summary.Resolved).Msg("cache warm-up aborted")
	}

	log.Info().
		Int("resolved", summary.Resolved).
		Int("failed", summary.Failed).
		Msg("cache warm-up finished")
}

type warmSummary struct {
	Resolved int
	Failed   int
}

// warm resolves each query through the resolver so the cache is only ever populated from
// provider results. Provider failures are logged and skipped; an unreachable store aborts.
func warm(ctx context.Context, resolver LocationResolver, queries []string) (warmSummary, error) {
	var summary warmSummary
	for _, query := range queries {
		rec, err := resolver.ResolveLocation(ctx, query)
		if err != nil {
			if errors.Is(err, models.ErrStoreUnavailable) {
				return summary, err
			}
			summary.Failed++
			log.Warn().Err(err).Str("query", query).Msg("cannot resolve query")
			continue
		}

		summary.Resolved++
		log.Debug().
			Str("query", query).
			Str("formatted_query", rec.FormattedQuery).
			Msg("query resolved")
	}
	return summary, nil
}

// parseQueries reads raw place queries from the first column. The first row is a header;
// blank rows are skipped.
func parseQueries(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var queries []string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if strings.TrimSpace(row[0]) == "" {
			continue
		}
		queries = append(queries, row[0])
	}

	return queries, nil
}
