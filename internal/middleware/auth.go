package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/config"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/service"
)

// Ключи контекста gin для данных аутентифицированного пользователя
const (
	ctxUserIDKey   = "auth_user_id"
	ctxUsernameKey = "auth_username"
)

// RequireJWT возвращает middleware, требующий валидный Bearer токен.
// Subject токена кладётся в контекст как id пользователя.
func RequireJWT(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "authorization token is required",
			})
			c.Abort()
			return
		}

		rawToken := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &service.AccessClaims{}
		token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
			// Принимаем только HMAC: токен с другим алгоритмом невалиден
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		}, jwt.WithIssuer(cfg.Issuer), jwt.WithAudience(cfg.Audience))

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxUserIDKey, claims.Subject)
		c.Set(ctxUsernameKey, claims.Username)

		c.Next()
	}
}

// UserID извлекает id аутентифицированного пользователя из контекста
func UserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ctxUserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := id.(string)
	return userID, ok && userID != ""
}

// Username извлекает имя аутентифицированного пользователя из контекста
func Username(c *gin.Context) (string, bool) {
	name, exists := c.Get(ctxUsernameKey)
	if !exists {
		return "", false
	}
	username, ok := name.(string)
	return username, ok && username != ""
}
