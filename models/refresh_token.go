package models

import "time"

type RefreshToken struct {
	Base
	UserID         string    `json:"userId" gorm:"type:uuid;not null;index"`
	Token          string    `json:"token" gorm:"not null;uniqueIndex"`
	ExpirationDate time.Time `json:"expiry" gorm:"not null"`
}
