package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGeoResolverLookup(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/json/203.0.113.9" {
			t.Errorf("unexpected lookup path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","country":"Germany","countryCode":"DE","regionName":"Berlin","city":"Berlin","lat":52.52,"lon":13.405}`))
	}))
	defer srv.Close()

	r := NewGeoResolver(srv.URL, time.Hour, nil)
	loc, err := r.Lookup(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	require.Equal(t, "Germany", loc.Country)
	require.Equal(t, "DE", loc.CountryCode)
	require.Equal(t, "Berlin", loc.Region)
	require.Equal(t, "Berlin", loc.City)
	require.Equal(t, "52.52", loc.LatString())
	require.Equal(t, "13.405", loc.LonString())

	// Repeat lookups are served from the in-memory cache.
	_, err = r.Lookup(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGeoResolverSkipsUnresolvableAddresses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("remote lookup should not happen")
	}))
	defer srv.Close()

	r := NewGeoResolver(srv.URL, time.Hour, nil)
	for _, ip := range []string{"", UnknownIP, "127.0.0.1", "192.168.1.10", "not-an-ip"} {
		loc, err := r.Lookup(context.Background(), ip)
		require.NoError(t, err, "ip %q", ip)
		require.True(t, loc.IsZero(), "ip %q", ip)
	}
}

func TestGeoResolverNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := NewGeoResolver(srv.URL, time.Hour, nil)
	_, err := r.Lookup(context.Background(), "203.0.113.9")
	require.Error(t, err)
}

func TestGeoResolverFailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer srv.Close()

	r := NewGeoResolver(srv.URL, time.Hour, nil)
	_, err := r.Lookup(context.Background(), "203.0.113.9")
	require.Error(t, err)
	require.Contains(t, err.Error(), "reserved range")
}

func TestGeoResolverNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	r := NewGeoResolver(srv.URL, time.Hour, nil)
	_, err := r.Lookup(context.Background(), "203.0.113.9")
	require.Error(t, err)
}

func TestGeoLocationZeroValue(t *testing.T) {
	var loc GeoLocation
	require.True(t, loc.IsZero())
	require.Empty(t, loc.LatString())
	require.Empty(t, loc.LonString())
}
