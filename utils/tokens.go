package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/sabelo-news/api-go/models"
)

const (
	AccessTokenTTL  = time.Hour * 24 * 7
	RefreshTokenTTL = time.Hour * 24 * 30
)

var ErrInvalidToken = errors.New("invalid token")

func GenerateAccessToken(user *models.User, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.DisplayName(),
		"roles":   user.Roles(),
		"exp":     time.Now().Add(AccessTokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// GenerateRefreshToken signs an opaque refresh token. The jti keeps two
// tokens issued in the same second distinct.
func GenerateRefreshToken(userID, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"typ":     "refresh",
		"jti":     uuid.New().String(),
		"exp":     time.Now().Add(RefreshTokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseAccessToken validates an access token and returns its claims.
// Refresh tokens are rejected.
func ParseAccessToken(tokenString, secret string) (*UserClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ == "refresh" {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}
	name, _ := claims["name"].(string)

	var roles []string
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, r := range raw {
			if role, ok := r.(string); ok {
				roles = append(roles, role)
			}
		}
	}

	return &UserClaims{UserID: userID, Name: name, Roles: roles}, nil
}
