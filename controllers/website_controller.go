package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumeview/lumeview/models"
	"github.com/lumeview/lumeview/store"
	"github.com/lumeview/lumeview/utils"
)

// WebsiteController handles tracked-website registration.
type WebsiteController struct {
	store store.Store
}

// NewWebsiteController creates a new WebsiteController instance.
func NewWebsiteController(st store.Store) *WebsiteController {
	return &WebsiteController{store: st}
}

type createWebsiteRequest struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// Create registers a website and mints its tracking id. The returned apiKey is
// the value the site embeds in the beacon script URL.
func (w *WebsiteController) Create(ctx *gin.Context) {
	var req createWebsiteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Domain == "" {
		utils.Error(ctx, http.StatusBadRequest, "Name and domain are required")
		return
	}

	site := &models.Website{
		Name:   req.Name,
		Domain: req.Domain,
		APIKey: uuid.NewString(),
	}
	if err := w.store.CreateWebsite(ctx.Request.Context(), site); err != nil {
		utils.Sugar.Errorw("create website failed", "name", req.Name, "domain", req.Domain, "error", err)
		utils.Error(ctx, http.StatusInternalServerError, "Failed to create website")
		return
	}

	utils.Sugar.Infow("website registered", "id", site.ID, "domain", site.Domain)
	ctx.JSON(http.StatusCreated, site)
}
