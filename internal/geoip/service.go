// Package geoip resolves client IPs to coarse geolocation data through an
// external data source, memoizing results per IP.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"

	"github.com/go-resty/resty/v2"

	"github.com/dvalfre/urlshortener/internal/cache"
)

// Sentinel values filled in when the upstream response omits a field.
const (
	UnknownCountry = "Unknown Country"
	UnknownCity    = "Unknown City"
)

// Geolocation is the coarse location of an IP. It is never partially
// populated: fields the upstream did not provide hold the documented
// defaults.
type Geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

// InvalidIPError reports a malformed or disallowed IP address. It is raised
// before any cache or network access.
type InvalidIPError struct {
	IP string
}

func (e *InvalidIPError) Error() string {
	return fmt.Sprintf("invalid ip address: %q", e.IP)
}

// UnavailableError wraps an upstream transport failure. Lookups that fail
// this way are never cached, so the next call retries.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("geolocation source unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Service looks up geolocation data for IP addresses. A write-expiring cache
// sits in front of the upstream so each IP triggers at most one outbound
// request per expiry window.
type Service struct {
	client *resty.Client
	cache  *cache.Cache[string, Geolocation]
	apiURL string
	apiKey string
}

// NewService creates a geolocation service. apiURL is the upstream base URL;
// the IP is appended as a path segment and the key as an access_key query
// parameter. The cache instance is owned by the caller.
func NewService(client *resty.Client, c *cache.Cache[string, Geolocation], apiURL, apiKey string) *Service {
	return &Service{
		client: client,
		cache:  c,
		apiURL: apiURL,
		apiKey: apiKey,
	}
}

// Lookup returns the geolocation of ip. Loopback, unspecified and multicast
// addresses fail with InvalidIPError before any cache or network work.
func (s *Service) Lookup(ctx context.Context, ip string) (Geolocation, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return Geolocation{}, &InvalidIPError{IP: ip}
	}

	if addr.IsLoopback() || addr.IsUnspecified() || addr.IsMulticast() {
		return Geolocation{}, &InvalidIPError{IP: ip}
	}

	return s.cache.Get(ctx, addr.String(), func(ctx context.Context) (Geolocation, error) {
		return s.fetch(ctx, addr.String())
	})
}

type upstreamPayload struct {
	CountryName string  `json:"country_name"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func (s *Service) fetch(ctx context.Context, ip string) (Geolocation, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("access_key", s.apiKey).
		Get(s.apiURL + "/" + ip)
	if err != nil {
		return Geolocation{}, &UnavailableError{Err: err}
	}

	if resp.IsError() {
		return Geolocation{}, &UnavailableError{Err: fmt.Errorf("upstream status %s", resp.Status())}
	}

	geo := Geolocation{Country: UnknownCountry, City: UnknownCity}

	// A response that does not decode yields the defaults rather than an
	// error: a lookup is never partially failed.
	var payload upstreamPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return geo, nil
	}

	if payload.CountryName != "" {
		geo.Country = payload.CountryName
	}

	if payload.City != "" {
		geo.City = payload.City
	}

	geo.Latitude = payload.Latitude
	geo.Longitude = payload.Longitude

	return geo, nil
}
