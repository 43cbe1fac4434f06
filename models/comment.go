package models

import (
	"time"

	"github.com/lib/pq"
)

// Comment is a reader comment on an article. ParentID is nil for a root
// comment. User is the author's display name at posting time and is never
// rewritten. Only Likes changes after creation.
type Comment struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NewsID    string         `json:"newsId" gorm:"not null;index"`
	ParentID  *string        `json:"parentId" gorm:"type:uuid;index"`
	User      string         `json:"user" gorm:"not null"`
	UserID    string         `json:"userId" gorm:"not null;index"`
	Text      string         `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"createdAt" gorm:"not null;default:now();autoCreateTime:false;index"`
	Likes     pq.StringArray `json:"likes" gorm:"type:text[];not null;default:'{}'"`
}

func (c *Comment) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// LikedBy reports whether accountID is in the likes set.
func (c *Comment) LikedBy(accountID string) bool {
	for _, id := range c.Likes {
		if id == accountID {
			return true
		}
	}
	return false
}
