package models

import "time"

// Base carries the identity and timestamps shared by every table. IDs are
// opaque UUIDs generated by the database.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
