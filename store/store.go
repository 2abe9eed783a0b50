package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumeview/lumeview/config"
	"github.com/lumeview/lumeview/models"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary consumed by the controllers.
type Store interface {
	CreateWebsite(ctx context.Context, w *models.Website) error
	// WebsiteByAPIKey resolves a website from its tracking id, ErrNotFound when
	// no website carries the key.
	WebsiteByAPIKey(ctx context.Context, key string) (*models.Website, error)

	// RecordPageView registers one observation of (pv.Domain, pv.Route): the
	// first observation inserts pv as-is with Count 1, later ones atomically
	// increment the stored counter and refresh its timestamp. The resulting row
	// is returned in either case.
	RecordPageView(ctx context.Context, pv *models.PageView) (*models.PageView, error)
	CreateUserLocation(ctx context.Context, loc *models.UserLocation) error

	ListPageViews(ctx context.Context) ([]models.PageView, error)
	ListWebsites(ctx context.Context) ([]models.Website, error)
	ListUserLocations(ctx context.Context) ([]models.UserLocation, error)
}

// Open builds the store selected by cfg.StorageDriver.
func Open(cfg config.AppConfig) (Store, error) {
	switch cfg.StorageDriver {
	case "memory":
		return NewMemory(), nil
	case "", "mysql":
		db, err := config.OpenDatabase(cfg, &models.Website{}, &models.PageView{}, &models.UserLocation{})
		if err != nil {
			return nil, err
		}
		return NewMySQL(db), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
