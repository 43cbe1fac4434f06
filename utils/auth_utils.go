package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/thread"
)

type UserClaims struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
}

func (u *UserClaims) HasRole(roles ...string) bool {
	if u == nil {
		return false
	}
	for _, have := range u.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Viewer is the thread viewer for these claims, nil when signed out.
func (u *UserClaims) Viewer() *thread.Viewer {
	if u == nil {
		return nil
	}
	return &thread.Viewer{AccountID: u.UserID, Name: u.Name}
}

type contextKey string

const UserContextKey contextKey = "user"

func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if userClaims, ok := user.(*UserClaims); ok {
		return userClaims
	}
	return nil
}
