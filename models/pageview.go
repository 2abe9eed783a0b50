package models

import "time"

// PageView stores an aggregated view counter per (domain, route). The composite
// unique index lets the store perform the increment as an atomic upsert instead
// of a racy read-then-write.
type PageView struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Domain         string    `gorm:"size:255;not null;index:idx_pv_domain_route,unique" json:"domain"`
	Route          string    `gorm:"size:255;not null;index:idx_pv_domain_route,unique" json:"route"`
	Count          int64     `gorm:"not null;default:1" json:"count"`
	Timestamp      time.Time `gorm:"not null" json:"timestamp"`
	Referrer       string    `gorm:"size:512" json:"referrer"`
	UserAgent      string    `gorm:"size:512" json:"userAgent"`
	AdditionalData JSONMap   `gorm:"type:text" json:"additionalData"`
	WebsiteID      uint      `gorm:"index" json:"websiteId"`
}
