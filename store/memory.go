package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lumeview/lumeview/models"
)

// memoryStore keeps everything in process memory. It backs the tests and the
// "memory" storage driver for running the collector without a database.
type memoryStore struct {
	mu        sync.Mutex
	websites  []models.Website
	views     map[string]*models.PageView // keyed by domain + "\x00" + route
	locations []models.UserLocation
	nextID    uint
}

// NewMemory returns an empty in-memory Store.
func NewMemory() Store {
	return &memoryStore{views: make(map[string]*models.PageView), nextID: 1}
}

func (s *memoryStore) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

func viewKey(domain, route string) string {
	return domain + "\x00" + route
}

func (s *memoryStore) CreateWebsite(_ context.Context, w *models.Website) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	w.ID = s.id()
	w.CreatedAt = now
	w.UpdatedAt = now
	s.websites = append(s.websites, *w)
	return nil
}

func (s *memoryStore) WebsiteByAPIKey(_ context.Context, key string) (*models.Website, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.websites {
		if s.websites[i].APIKey == key {
			w := s.websites[i]
			return &w, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) RecordPageView(_ context.Context, pv *models.PageView) (*models.PageView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The find-increment runs under the store lock, matching the atomicity the
	// SQL driver gets from its upsert.
	if existing, ok := s.views[viewKey(pv.Domain, pv.Route)]; ok {
		existing.Count++
		existing.Timestamp = time.Now()
		out := *existing
		return &out, nil
	}

	stored := *pv
	stored.ID = s.id()
	if stored.Count == 0 {
		stored.Count = 1
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now()
	}
	s.views[viewKey(pv.Domain, pv.Route)] = &stored
	out := stored
	return &out, nil
}

func (s *memoryStore) CreateUserLocation(_ context.Context, loc *models.UserLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc.ID = s.id()
	if loc.Timestamp.IsZero() {
		loc.Timestamp = time.Now()
	}
	s.locations = append(s.locations, *loc)
	return nil
}

func (s *memoryStore) ListPageViews(_ context.Context) ([]models.PageView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	views := make([]models.PageView, 0, len(s.views))
	for _, pv := range s.views {
		views = append(views, *pv)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Timestamp.After(views[j].Timestamp) })
	return views, nil
}

func (s *memoryStore) ListWebsites(_ context.Context) ([]models.Website, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Website(nil), s.websites...), nil
}

func (s *memoryStore) ListUserLocations(_ context.Context) ([]models.UserLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.UserLocation(nil), s.locations...), nil
}
