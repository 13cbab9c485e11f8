package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stemsi/careerpath/internal/response"
)

const (
	// ContextKeyUserID is the Gin context key for the caller's user id.
	ContextKeyUserID = "user_id"
)

var errNoToken = errors.New("no bearer token")

// Identity resolves the caller from an optional HMAC-signed bearer token.
// The token's subject is the user id.
type Identity struct {
	secret []byte
}

// NewIdentity creates an Identity. An empty secret treats every caller as
// anonymous.
func NewIdentity(secret string) *Identity {
	return &Identity{secret: []byte(secret)}
}

// Optional stores the user id when a valid token is sent and lets anonymous
// requests through. A token that is sent but invalid is rejected.
func (i *Identity) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(i.secret) == 0 {
			c.Next()
			return
		}

		userID, err := i.fromRequest(c)
		switch {
		case errors.Is(err, errNoToken):
		case errors.Is(err, jwt.ErrTokenExpired):
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenExpired)
			return
		case err != nil:
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		default:
			c.Set(ContextKeyUserID, userID)
		}
		c.Next()
	}
}

// Require aborts requests without a resolved user id. It runs after Optional.
func (i *Identity) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrIdentityRequired)
			return
		}
		c.Next()
	}
}

// UserID returns the caller's user id, "" for anonymous callers.
func UserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// ParseToken validates tokenStr and returns its subject.
func (i *Identity) ParseToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return "", err
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

func (i *Identity) fromRequest(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errNoToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("malformed authorization header")
	}
	return i.ParseToken(strings.TrimSpace(parts[1]))
}
