package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumeview/lumeview/models"
)

type mysqlStore struct {
	db *gorm.DB
}

// NewMySQL wraps an initialized gorm connection as a Store.
func NewMySQL(db *gorm.DB) Store {
	return &mysqlStore{db: db}
}

func (s *mysqlStore) CreateWebsite(ctx context.Context, w *models.Website) error {
	return s.db.WithContext(ctx).Create(w).Error
}

func (s *mysqlStore) WebsiteByAPIKey(ctx context.Context, key string) (*models.Website, error) {
	var w models.Website
	err := s.db.WithContext(ctx).Where("api_key = ?", key).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *mysqlStore) RecordPageView(ctx context.Context, pv *models.PageView) (*models.PageView, error) {
	if pv.Count == 0 {
		pv.Count = 1
	}
	if pv.Timestamp.IsZero() {
		pv.Timestamp = time.Now()
	}

	// Atomic upsert keyed on the (domain, route) unique index so concurrent
	// identical events can neither lose increments nor create duplicate rows.
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "domain"}, {Name: "route"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":     gorm.Expr("count + 1"),
			"timestamp": time.Now(),
		}),
	}).Create(pv).Error
	if err != nil {
		return nil, err
	}

	// Re-read for the authoritative id and counter, which the upsert statement
	// does not report on the increment path.
	var out models.PageView
	if err := s.db.WithContext(ctx).
		Where("domain = ? AND route = ?", pv.Domain, pv.Route).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *mysqlStore) CreateUserLocation(ctx context.Context, loc *models.UserLocation) error {
	if loc.Timestamp.IsZero() {
		loc.Timestamp = time.Now()
	}
	return s.db.WithContext(ctx).Create(loc).Error
}

func (s *mysqlStore) ListPageViews(ctx context.Context) ([]models.PageView, error) {
	var views []models.PageView
	if err := s.db.WithContext(ctx).Order("timestamp DESC").Find(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func (s *mysqlStore) ListWebsites(ctx context.Context) ([]models.Website, error) {
	var sites []models.Website
	if err := s.db.WithContext(ctx).Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

func (s *mysqlStore) ListUserLocations(ctx context.Context) ([]models.UserLocation, error) {
	var locs []models.UserLocation
	if err := s.db.WithContext(ctx).Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}
