package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumeview/lumeview/models"
	"github.com/lumeview/lumeview/store"
	"github.com/lumeview/lumeview/utils"
)

// registerSite seeds a website through the store directly; the HTTP
// registration path is covered by the website controller tests.
func registerSite(t *testing.T, st store.Store) string {
	t.Helper()
	w := &models.Website{Name: "Acme", Domain: "acme.com", APIKey: "test-key"}
	require.NoError(t, st.CreateWebsite(context.Background(), w))
	return w.APIKey
}

func pageviewEvent(id, pageURL, route string) map[string]any {
	return map[string]any{
		"u":  pageURL,
		"id": id,
		"e": map[string]any{
			"t": "pageview",
			"p": map[string]any{
				"url":       route,
				"referrer":  "",
				"userAgent": "ua",
				"timestamp": 1700000000000,
			},
		},
	}
}

func TestCollectRequiresTrackingID(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(st, &stubGeo{})

	w, resp := doJSON(t, r, http.MethodPost, "/analytics", pageviewEvent("", "https://acme.com/", "/home"), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Tracking ID is required", resp["error"])
}

func TestCollectRejectsUnknownTrackingID(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(st, &stubGeo{})

	w, resp := doJSON(t, r, http.MethodPost, "/analytics", pageviewEvent("bogus", "https://acme.com/", "/home"), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid tracking ID", resp["error"])

	views, err := st.ListPageViews(context.Background())
	require.NoError(t, err)
	require.Empty(t, views)
	locs, err := st.ListUserLocations(context.Background())
	require.NoError(t, err)
	require.Empty(t, locs)
}

func TestCollectCreatesAndIncrements(t *testing.T) {
	st := store.NewMemory()
	geo := &stubGeo{loc: utils.GeoLocation{Country: "Germany", CountryCode: "DE", Region: "Berlin", City: "Berlin", Lat: 52.52, Lon: 13.405}}
	r := newTestRouter(st, geo)
	key := registerSite(t, st)
	headers := map[string]string{"X-Forwarded-For": "203.0.113.9"}

	w, resp := doJSON(t, r, http.MethodPost, "/analytics", pageviewEvent(key, "https://acme.com/", "/home"), headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp["success"])
	require.Equal(t, "203.0.113.9", resp["ip"])
	loc, ok := resp["location"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Germany", loc["country"])

	// Identical event again: same row, count 2.
	w, _ = doJSON(t, r, http.MethodPost, "/analytics", pageviewEvent(key, "https://acme.com/", "/home"), headers)
	require.Equal(t, http.StatusOK, w.Code)

	views, err := st.ListPageViews(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "acme.com", views[0].Domain)
	require.Equal(t, "/home", views[0].Route)
	require.Equal(t, int64(2), views[0].Count)

	locs, err := st.ListUserLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locs, 2)
	for _, l := range locs {
		require.Equal(t, views[0].ID, l.PageViewID)
		require.Equal(t, "Germany", l.Country)
		require.Equal(t, "203.0.113.9", l.IPAddress)
	}
}

func TestCollectSeparateRoutes(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(st, &stubGeo{})
	key := registerSite(t, st)

	for _, route := range []string{"/home", "/pricing"} {
		w, _ := doJSON(t, r, http.MethodPost, "/analytics", pageviewEvent(key, "https://acme.com/", route), nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	views, err := st.ListPageViews(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		require.Equal(t, int64(1), v.Count)
	}
}

func TestCollectGeoFailureStillStoresLocationRow(t *testing.T) {
	st := store.NewMemory()
	geo := &stubGeo{err: errors.New("connection refused")}
	r := newTestRouter(st, geo)
	key := registerSite(t, st)

	w, resp := doJSON(t, r, http.MethodPost, "/analytics", pageviewEvent(key, "https://acme.com/", "/home"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp["success"])
	require.Equal(t, 1, geo.calls)

	locs, err := st.ListUserLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locs, 1)
	require.Empty(t, locs[0].Country)
	require.Empty(t, locs[0].Latitude)
	require.Equal(t, utils.UnknownIP, locs[0].IPAddress)
}

func TestCollectHashChangeEvent(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(st, &stubGeo{})
	key := registerSite(t, st)

	body := map[string]any{
		"u":  "https://acme.com/docs#install",
		"id": key,
		"e": map[string]any{
			"t": "hashchange",
			"p": map[string]any{"u": "https://acme.com/docs#install", "r": "https://acme.com/"},
		},
	}
	w, _ := doJSON(t, r, http.MethodPost, "/analytics", body, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/analytics", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	views, err := st.ListPageViews(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "/docs#install", views[0].Route)
	require.Equal(t, int64(2), views[0].Count)
}

func TestCollectRejectsUnknownEventType(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(st, &stubGeo{})
	key := registerSite(t, st)

	body := map[string]any{
		"u":  "https://acme.com/",
		"id": key,
		"e":  map[string]any{"t": "click", "p": map[string]any{}},
	}
	w, resp := doJSON(t, r, http.MethodPost, "/analytics", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, resp["error"], "unknown event type")

	views, err := st.ListPageViews(context.Background())
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestCollectMalformedBody(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(st, &stubGeo{})

	w, resp := doJSON(t, r, http.MethodPost, "/analytics", "not an object", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "Failed to process analytics data", resp["error"])
}

func TestDumpReturnsEverything(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(st, &stubGeo{})
	key := registerSite(t, st)

	for _, route := range []string{"/home", "/home", "/pricing"} {
		w, _ := doJSON(t, r, http.MethodPost, "/analytics", pageviewEvent(key, "https://acme.com/", route), nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, resp := doJSON(t, r, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["pageViews"], 2)
	require.Len(t, resp["websites"], 1)
	require.Len(t, resp["userLocations"], 3)
}
