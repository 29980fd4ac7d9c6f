package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"city-explorer-api/internal/models"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/puddle/v2"
)

const schema = `
	CREATE TABLE IF NOT EXISTS locations (
		id BIGSERIAL PRIMARY KEY,
		search_query TEXT NOT NULL UNIQUE,
		formatted_query TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

const locationColumns = `id, search_query, formatted_query, latitude, longitude, created_at`

// Repository is the PostgreSQL-backed location cache.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the locations table if it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return classify("failed to create schema", err)
	}
	return nil
}

// FindBySearchQuery returns the cached record for key, or nil when none is stored.
func (r *Repository) FindBySearchQuery(ctx context.Context, key models.LocationQuery) (*models.LocationRecord, error) {
	sql := `SELECT ` + locationColumns + ` FROM locations WHERE search_query = $1`

	loc, err := scanLocation(r.db.QueryRow(ctx, sql, key.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("failed to look up location", err)
	}

	return loc, nil
}

// Insert stores a new record and returns it as written, including store-assigned fields.
// A record for the same search query that already exists yields models.ErrConstraintViolation.
func (r *Repository) Insert(ctx context.Context, rec models.LocationRecord) (*models.LocationRecord, error) {
	sql := `
		INSERT INTO locations (search_query, formatted_query, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + locationColumns

	loc, err := scanLocation(r.db.QueryRow(ctx, sql, rec.SearchQuery, rec.FormattedQuery, rec.Latitude, rec.Longitude))
	if err != nil {
		return nil, classify("failed to insert location", err)
	}

	return loc, nil
}

func scanLocation(row pgx.Row) (*models.LocationRecord, error) {
	var loc models.LocationRecord
	err := row.Scan(
		&loc.ID,
		&loc.SearchQuery,
		&loc.FormattedQuery,
		&loc.Latitude,
		&loc.Longitude,
		&loc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// classify maps driver errors onto the store error taxonomy. Only failures to reach or keep
// talking to the server count as unavailability; everything else is wrapped as is.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("repository: %s: %w: %w", op, models.ErrConstraintViolation, err)
		}
		return fmt.Errorf("repository: %s: %w", op, err)
	}
	if isUnavailable(err) {
		return fmt.Errorf("repository: %s: %w: %w", op, models.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("repository: %s: %w", op, err)
}

func isUnavailable(err error) bool {
	var connectErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connectErr), errors.As(err, &netErr):
		return true
	case errors.Is(err, puddle.ErrClosedPool), errors.Is(err, net.ErrClosed):
		return true
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}
	return pgconn.Timeout(err)
}
