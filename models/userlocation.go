package models

import "time"

// UserLocation records one best-effort geolocation per ingested event, linked to
// the PageView the event was aggregated into. Rows are insert-only.
type UserLocation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PageViewID  uint      `gorm:"index;not null" json:"pageViewId"`
	Country     string    `gorm:"size:128" json:"country"`
	CountryCode string    `gorm:"size:8" json:"countryCode"`
	Region      string    `gorm:"size:128" json:"region"`
	City        string    `gorm:"size:128" json:"city"`
	Latitude    string    `gorm:"size:32" json:"latitude"`
	Longitude   string    `gorm:"size:32" json:"longitude"`
	IPAddress   string    `gorm:"size:64" json:"ipAddress"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`
}
