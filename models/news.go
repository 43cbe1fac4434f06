package models

// News is an article written through the editor workflow. Title and Content
// hold rich-text HTML produced by the editor.
type News struct {
	Base
	Title    string `json:"title" gorm:"type:text;not null"`
	Content  string `json:"content" gorm:"type:text"`
	Image    string `json:"image"`
	Category string `json:"category" gorm:"type:varchar(50);index"`
	UserID   string `json:"userId" gorm:"type:uuid;not null;index"`
}
