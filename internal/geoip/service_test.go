package geoip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dvalfre/urlshortener/internal/cache"
	"github.com/dvalfre/urlshortener/internal/geoip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache() *cache.Cache[string, geoip.Geolocation] {
	return cache.New[string, geoip.Geolocation](cache.Config{
		MaxEntries: 100,
		Expiry:     24 * time.Hour,
		Policy:     cache.ExpireAfterWrite,
	})
}

func newService(upstream string) *geoip.Service {
	return geoip.NewService(resty.New(), newCache(), upstream, "test-key")
}

func TestLookup(t *testing.T) {
	t.Run("parses upstream fields", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{
				"country_name": "United States",
				"city": "Mountain View",
				"latitude": 37.386,
				"longitude": -122.0838
			}`))
		}))
		defer srv.Close()

		svc := newService(srv.URL)

		geo, err := svc.Lookup(context.Background(), "8.8.8.8")

		require.NoError(t, err)
		assert.Equal(t, "United States", geo.Country)
		assert.Equal(t, "Mountain View", geo.City)
		assert.InDelta(t, 37.386, geo.Latitude, 1e-9)
		assert.InDelta(t, -122.0838, geo.Longitude, 1e-9)
	})

	t.Run("sends the access key", func(t *testing.T) {
		var gotKey atomic.Value

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey.Store(r.URL.Query().Get("access_key"))
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		svc := newService(srv.URL)

		_, err := svc.Lookup(context.Background(), "8.8.8.8")

		require.NoError(t, err)
		assert.Equal(t, "test-key", gotKey.Load())
	})

	t.Run("missing fields fall back to documented defaults", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"latitude": 1.5}`))
		}))
		defer srv.Close()

		svc := newService(srv.URL)

		geo, err := svc.Lookup(context.Background(), "8.8.8.8")

		require.NoError(t, err)
		assert.Equal(t, geoip.UnknownCountry, geo.Country)
		assert.Equal(t, geoip.UnknownCity, geo.City)
		assert.InDelta(t, 1.5, geo.Latitude, 1e-9)
		assert.InDelta(t, 0.0, geo.Longitude, 1e-9)
	})

	t.Run("undecodable body yields all defaults rather than failing", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		svc := newService(srv.URL)

		geo, err := svc.Lookup(context.Background(), "8.8.8.8")

		require.NoError(t, err)
		assert.Equal(t, geoip.UnknownCountry, geo.Country)
		assert.Equal(t, geoip.UnknownCity, geo.City)
	})

	t.Run("second lookup for the same ip hits the cache", func(t *testing.T) {
		var calls atomic.Int32

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"country_name": "United States"}`))
		}))
		defer srv.Close()

		svc := newService(srv.URL)

		first, err := svc.Lookup(context.Background(), "8.8.8.8")
		require.NoError(t, err)

		second, err := svc.Lookup(context.Background(), "8.8.8.8")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("upstream failures are reported and never cached", func(t *testing.T) {
		var calls atomic.Int32

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)

			if calls.Load() == 1 {
				w.WriteHeader(http.StatusInternalServerError)

				return
			}

			_, _ = w.Write([]byte(`{"country_name": "United States"}`))
		}))
		defer srv.Close()

		svc := newService(srv.URL)

		_, err := svc.Lookup(context.Background(), "8.8.8.8")

		var unavailable *geoip.UnavailableError
		require.ErrorAs(t, err, &unavailable)

		// The failure must not poison the cache: the next call retries.
		geo, err := svc.Lookup(context.Background(), "8.8.8.8")
		require.NoError(t, err)
		assert.Equal(t, "United States", geo.Country)
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestLookupPrecondition(t *testing.T) {
	// Any request reaching the upstream is a test failure: disallowed IPs
	// must be rejected before network access.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		panic("unexpected upstream call")
	}))
	defer srv.Close()

	svc := newService(srv.URL)

	tests := []struct {
		name string
		ip   string
	}{
		{name: "loopback", ip: "127.0.0.1"},
		{name: "ipv6 loopback", ip: "::1"},
		{name: "unspecified", ip: "0.0.0.0"},
		{name: "multicast", ip: "224.0.0.1"},
		{name: "malformed", ip: "999.999.999.999"},
		{name: "not an ip", ip: "example.com"},
		{name: "empty", ip: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Lookup(context.Background(), tt.ip)

			var invalid *geoip.InvalidIPError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.ip, invalid.IP)
		})
	}
}
