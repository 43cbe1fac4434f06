package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sabelo-news/api-go/config"
	"github.com/sabelo-news/api-go/models"
	"github.com/sabelo-news/api-go/utils"
	"gorm.io/gorm"
)

var ErrUnknownUser = errors.New("unknown user")

// UserLoader returns the current account row for a token's user id, or
// ErrUnknownUser when the account no longer exists.
type UserLoader func(ctx context.Context, id string) (*models.User, error)

func DBUsers(db *gorm.DB) UserLoader {
	return func(ctx context.Context, id string) (*models.User, error) {
		if _, err := uuid.Parse(id); err != nil {
			return nil, ErrUnknownUser
		}
		var user models.User
		err := db.WithContext(ctx).First(&user, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownUser
		}
		if err != nil {
			return nil, fmt.Errorf("load user %s: %w", id, err)
		}
		return &user, nil
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// currentClaims checks the token and rebuilds the name and roles from the
// account as it is now, so renames, role changes and deletions apply to
// tokens already handed out.
func currentClaims(c *gin.Context, users UserLoader, token string) (*utils.UserClaims, error) {
	claims, err := utils.ParseAccessToken(token, config.JWTSecret())
	if err != nil {
		return nil, err
	}
	user, err := users(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, err
	}
	return &utils.UserClaims{
		UserID: user.ID,
		Name:   user.DisplayName(),
		Roles:  user.Roles(),
	}, nil
}

func AuthMiddleware(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			c.Abort()
			return
		}

		claims, err := currentClaims(c, users, token)
		switch {
		case errors.Is(err, utils.ErrInvalidToken), errors.Is(err, ErrUnknownUser):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		case err != nil:
			log.Printf("auth: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not verify user"})
			c.Abort()
			return
		}

		c.Set(string(utils.UserContextKey), claims)
		c.Next()
	}
}

// OptionalAuth sets the user when a valid token is sent and lets anonymous
// requests through.
func OptionalAuth(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := currentClaims(c, users, token); err == nil {
				c.Set(string(utils.UserContextKey), claims)
			}
		}
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.GetUser(c).HasRole(roles...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}
