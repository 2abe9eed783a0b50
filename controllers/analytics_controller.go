package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumeview/lumeview/models"
	"github.com/lumeview/lumeview/store"
	"github.com/lumeview/lumeview/utils"
)

// GeoLookup resolves an IP address to a best-effort location.
type GeoLookup interface {
	Lookup(ctx context.Context, ip string) (utils.GeoLocation, error)
}

// AnalyticsController ingests beacon events and serves the raw data dump.
type AnalyticsController struct {
	store store.Store
	geo   GeoLookup
}

// NewAnalyticsController creates a new AnalyticsController instance.
func NewAnalyticsController(st store.Store, geo GeoLookup) *AnalyticsController {
	return &AnalyticsController{store: st, geo: geo}
}

// Collect validates one beacon event, resolves the caller's location, upserts
// the (domain, route) page-view counter and records a location row.
func (a *AnalyticsController) Collect(ctx *gin.Context) {
	var evt models.Event
	if err := ctx.ShouldBindJSON(&evt); err != nil {
		utils.Sugar.Warnw("malformed analytics body", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to process analytics data")
		return
	}

	if evt.ID == "" {
		utils.Error(ctx, http.StatusBadRequest, "Tracking ID is required")
		return
	}

	ip := utils.ClientIP(ctx)
	if ip == utils.UnknownIP {
		utils.Sugar.Warn("client IP unknown - location data may be limited")
	}

	// Best-effort: a failed lookup never blocks ingestion.
	location, err := a.geo.Lookup(ctx.Request.Context(), ip)
	if err != nil {
		utils.Sugar.Warnw("geolocation lookup failed", "ip", ip, "error", err)
		location = utils.GeoLocation{}
	}

	site, err := a.store.WebsiteByAPIKey(ctx.Request.Context(), evt.ID)
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(ctx, http.StatusBadRequest, "Invalid tracking ID")
		return
	}
	if err != nil {
		utils.Sugar.Errorw("website lookup failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to process analytics data")
		return
	}

	domain, err := evt.Domain()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}
	visit, err := evt.Visit()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	pv, err := a.store.RecordPageView(ctx.Request.Context(), &models.PageView{
		Domain:         domain,
		Route:          visit.Route,
		Referrer:       visit.Referrer,
		UserAgent:      visit.UserAgent,
		Timestamp:      visit.Timestamp,
		AdditionalData: visit.Data,
		WebsiteID:      site.ID,
		Count:          1,
	})
	if err != nil {
		utils.Sugar.Errorw("page view upsert failed", "domain", domain, "route", visit.Route, "error", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to process analytics data")
		return
	}

	// One location row per event, whatever the upsert did and however little
	// the resolver returned.
	loc := &models.UserLocation{
		PageViewID:  pv.ID,
		Country:     location.Country,
		CountryCode: location.CountryCode,
		Region:      location.Region,
		City:        location.City,
		Latitude:    location.LatString(),
		Longitude:   location.LonString(),
		IPAddress:   ip,
	}
	if err := a.store.CreateUserLocation(ctx.Request.Context(), loc); err != nil {
		utils.Sugar.Errorw("user location insert failed", "pageViewId", pv.ID, "error", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to process analytics data")
		return
	}

	utils.Sugar.Infow("event recorded",
		"type", evt.E.T, "domain", domain, "route", pv.Route, "count", pv.Count, "ip", ip)
	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"id":       pv.ID,
		"ip":       ip,
		"location": location,
	})
}

// Dump returns every stored record: page views newest first, websites and
// user locations. No pagination.
func (a *AnalyticsController) Dump(ctx *gin.Context) {
	views, err := a.store.ListPageViews(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorw("list page views failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to load analytics data")
		return
	}
	sites, err := a.store.ListWebsites(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorw("list websites failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to load analytics data")
		return
	}
	locs, err := a.store.ListUserLocations(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorw("list user locations failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to load analytics data")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"pageViews":     views,
		"websites":      sites,
		"userLocations": locs,
	})
}
