package models

import "time"

// Website is the identity record for a tracked site. Its APIKey doubles as the
// tracking id embedded in the beacon script URL and is immutable after creation.
type Website struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Domain    string    `gorm:"size:255;not null" json:"domain"`
	APIKey    string    `gorm:"column:api_key;size:64;uniqueIndex;not null" json:"apiKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
