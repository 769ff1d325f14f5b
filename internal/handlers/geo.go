package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/dvalfre/urlshortener/internal/geoip"
)

// Locator resolves an IP address to a geographic location.
type Locator interface {
	Lookup(ctx context.Context, ip string) (geoip.Geolocation, error)
}

// GeoHandler exposes geolocation of the calling client.
type GeoHandler struct {
	locator Locator
	logger  *zap.Logger
}

// NewGeoHandler creates a geolocation handler.
func NewGeoHandler(locator Locator, logger *zap.Logger) *GeoHandler {
	return &GeoHandler{
		locator: locator,
		logger:  logger,
	}
}

// Geolocation looks up the location of the client IP taken from the
// request metadata.
func (h *GeoHandler) Geolocation(ctx context.Context, _ *struct{}) (*GeolocationResponse, error) {
	meta := RequestMetaFromContext(ctx)

	location, err := h.locator.Lookup(ctx, meta.ClientIP)
	if err != nil {
		var invalid *geoip.InvalidIPError
		if errors.As(err, &invalid) {
			return nil, huma.Error400BadRequest(invalid.Error())
		}

		var unavailable *geoip.UnavailableError
		if errors.As(err, &unavailable) {
			h.logger.Warn("geolocation provider unavailable",
				zap.String("ip", meta.ClientIP),
				zap.Error(err),
			)

			return nil, huma.Error503ServiceUnavailable("geolocation service unavailable")
		}

		h.logger.Error("failed to look up geolocation",
			zap.String("ip", meta.ClientIP),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to look up geolocation")
	}

	resp := &GeolocationResponse{}
	resp.Body.Latitude = location.Latitude
	resp.Body.Longitude = location.Longitude
	resp.Body.City = location.City
	resp.Body.Country = location.Country

	return resp, nil
}
