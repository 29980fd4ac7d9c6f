package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"city-explorer-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LocationHandler handles location lookups
type LocationHandler struct {
	service LocationService
}

// LocationService interface for dependency injection
type LocationService interface {
	ResolveLocation(context.Context, string) (*models.LocationRecord, error)
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(svc LocationService) *LocationHandler {
	return &LocationHandler{service: svc}
}

// Location handles GET /location requests
//
//	@Summary		Resolve a city to coordinates
//	@Description	Looks the city up in the location cache and falls back to the geocoding provider on a miss.
//	@Tags			location
//	@Produce		json
//	@Param			city	query		string	true	"Free-text place name"
//	@Success		200		{object}	models.LocationRecord
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/location [get]
func (h *LocationHandler) Location(c *gin.Context) {
	city := c.Query("city")
	if strings.TrimSpace(city) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: true, Message: "missing required query parameter 'city'"})
		return
	}

	location, err := h.service.ResolveLocation(c.Request.Context(), city)
	if err != nil {
		logResolveError(c, city, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: true, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, location)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func logResolveError(c *gin.Context, city string, err error) {
	var event *zerolog.Event
	var perr *models.ProviderError

	switch {
	case errors.As(err, &perr) && perr.Kind == models.ProviderEmptyResult:
		event = log.Warn().Str("kind", "provider_"+perr.Kind.String())
	case errors.As(err, &perr):
		event = log.Error().Str("kind", "provider_"+perr.Kind.String()).Int("provider_status", perr.StatusCode)
	case errors.Is(err, models.ErrStoreUnavailable):
		event = log.Error().Str("kind", "store_unavailable")
	default:
		event = log.Error().Str("kind", "internal")
	}

	event.Err(err).
		Str("request_id", c.GetString(requestIDKey)).
		Str("city", city).
		Msg("failed to resolve location")
}
