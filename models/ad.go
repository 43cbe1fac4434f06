package models

// Ad is a side banner managed by the marketing team.
type Ad struct {
	Base
	Link  string `json:"link" gorm:"not null"`
	Image string `json:"image" gorm:"not null"`
}
