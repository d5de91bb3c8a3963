// Package auth consumes the identity supplied by the session
// collaborator. Tokens are only verified here, never issued.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const identityKey = "identity"

// Location is the user's stored region, used by the regional feed.
type Location struct {
	State string `json:"state,omitempty"`
	City  string `json:"city,omitempty"`
}

// Identity describes the caller of a feed request. Requests without a
// valid token act as a guest.
type Identity struct {
	UserID   string
	Name     string
	Guest    bool
	Language string
	Location Location
}

// Claims is the token payload the session collaborator signs.
type Claims struct {
	Name     string `json:"name,omitempty"`
	Language string `json:"lang,omitempty"`
	State    string `json:"state,omitempty"`
	City     string `json:"city,omitempty"`
	jwt.RegisteredClaims
}

// Middleware resolves the request identity. A missing header yields a
// guest identity; a present but invalid token is rejected.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(identityKey, Identity{
				UserID: "guest-" + uuid.NewString(),
				Guest:  true,
			})
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(identityKey, Identity{
			UserID:   claims.Subject,
			Name:     claims.Name,
			Language: claims.Language,
			Location: Location{State: claims.State, City: claims.City},
		})
		c.Next()
	}
}

// RequireUser rejects guests. Placed after Middleware on routes that
// need an account.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if FromContext(c).Guest {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		c.Next()
	}
}

// FromContext returns the identity resolved by Middleware.
func FromContext(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{UserID: "guest-" + uuid.NewString(), Guest: true}
}
