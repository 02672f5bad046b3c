package models

import "time"

// User mirrors an identity-provider account into the local store. Records are
// created lazily the first time an authenticated subject calls sync-user; the
// numeric ID is what every other table references.
type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ExternalID string `gorm:"uniqueIndex;not null" json:"external_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
