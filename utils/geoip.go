package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// GeoLocation is the subset of the IP geolocation response the collector
// stores and echoes back. The zero value means "nothing resolved".
type GeoLocation struct {
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
	Region      string  `json:"region,omitempty"`
	City        string  `json:"city,omitempty"`
	Lat         float64 `json:"lat,omitempty"`
	Lon         float64 `json:"lon,omitempty"`
}

// IsZero reports whether no location field was resolved.
func (g GeoLocation) IsZero() bool {
	return g == GeoLocation{}
}

// LatString returns the latitude as stored text, empty when unresolved.
func (g GeoLocation) LatString() string {
	if g.IsZero() {
		return ""
	}
	return strconv.FormatFloat(g.Lat, 'f', -1, 64)
}

// LonString returns the longitude as stored text, empty when unresolved.
func (g GeoLocation) LonString() string {
	if g.IsZero() {
		return ""
	}
	return strconv.FormatFloat(g.Lon, 'f', -1, 64)
}

type geoAPIResp struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

type geoCacheEntry struct {
	value     GeoLocation
	expiresAt time.Time
}

// GeoResolver looks up approximate locations for public IPs against an
// ip-api.com style endpoint, with an in-memory TTL cache and an optional Redis
// cache in front of the remote call. Lookups are best-effort: callers are
// expected to log failures and carry on.
type GeoResolver struct {
	baseURL string
	client  *http.Client
	rdb     *redis.Client
	ttl     time.Duration

	mu    sync.RWMutex
	cache map[string]geoCacheEntry
}

// NewGeoResolver creates a resolver for the given base URL. rdb may be nil to
// run without the Redis tier.
func NewGeoResolver(baseURL string, ttl time.Duration, rdb *redis.Client) *GeoResolver {
	return &GeoResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 3 * time.Second},
		rdb:     rdb,
		ttl:     ttl,
		cache:   make(map[string]geoCacheEntry),
	}
}

// Lookup resolves ip to a location. Private, loopback, unparseable and
// "unknown" addresses resolve to the zero value without a remote call.
func (r *GeoResolver) Lookup(ctx context.Context, ip string) (GeoLocation, error) {
	if ip == "" || ip == UnknownIP || IsPrivateIP(ip) || !isParseableIP(ip) {
		return GeoLocation{}, nil
	}
	if v, ok := r.cacheGet(ip); ok {
		return v, nil
	}
	if v, ok := r.redisGet(ctx, ip); ok {
		r.cacheSet(ip, v)
		return v, nil
	}

	loc, err := r.fetch(ctx, ip)
	if err != nil {
		return GeoLocation{}, err
	}
	r.cacheSet(ip, loc)
	r.redisSet(ctx, ip, loc)
	return loc, nil
}

func (r *GeoResolver) fetch(ctx context.Context, ip string) (GeoLocation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/json/"+ip, nil)
	if err != nil {
		return GeoLocation{}, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return GeoLocation{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return GeoLocation{}, fmt.Errorf("geolocation api status %d", resp.StatusCode)
	}
	var body geoAPIResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return GeoLocation{}, err
	}
	if body.Status != "" && body.Status != "success" {
		return GeoLocation{}, errors.New("geolocation api: " + nonEmpty(body.Message, "lookup failed"))
	}
	return GeoLocation{
		Country:     body.Country,
		CountryCode: body.CountryCode,
		Region:      body.RegionName,
		City:        body.City,
		Lat:         body.Lat,
		Lon:         body.Lon,
	}, nil
}

func (r *GeoResolver) cacheGet(ip string) (GeoLocation, bool) {
	r.mu.RLock()
	e, ok := r.cache[ip]
	r.mu.RUnlock()
	if !ok {
		return GeoLocation{}, false
	}
	if time.Now().After(e.expiresAt) {
		r.mu.Lock()
		delete(r.cache, ip)
		r.mu.Unlock()
		return GeoLocation{}, false
	}
	return e.value, true
}

func (r *GeoResolver) cacheSet(ip string, loc GeoLocation) {
	r.mu.Lock()
	r.cache[ip] = geoCacheEntry{value: loc, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()
}

func geoRedisKey(ip string) string { return "geoip:" + ip }

func (r *GeoResolver) redisGet(ctx context.Context, ip string) (GeoLocation, bool) {
	if r.rdb == nil {
		return GeoLocation{}, false
	}
	ctx2, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	raw, err := r.rdb.Get(ctx2, geoRedisKey(ip)).Result()
	if err != nil || raw == "" {
		return GeoLocation{}, false
	}
	var loc GeoLocation
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return GeoLocation{}, false
	}
	return loc, true
}

func (r *GeoResolver) redisSet(ctx context.Context, ip string, loc GeoLocation) {
	if r.rdb == nil {
		return
	}
	raw, err := json.Marshal(loc)
	if err != nil {
		return
	}
	ctx2, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_ = r.rdb.Set(ctx2, geoRedisKey(ip), raw, r.ttl).Err()
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
