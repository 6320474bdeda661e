package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"insurance-tracker/internal/auth"
	"insurance-tracker/internal/domain"
)

type ctxKey string

const (
	claimsCtxKey ctxKey = "claims"
	todayCtxKey  ctxKey = "today"
)

// authMiddleware requires a valid bearer token and stores its claims.
func authMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := auth.Parse(secret, header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid bearer token"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), claimsCtxKey, claims)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requirePerm(p auth.Perm) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !claimsFrom(c).Has(p) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing permission " + string(p)})
			return
		}
		c.Next()
	}
}

// todayMiddleware fixes the calendar day once per request so every
// classification in it agrees.
func todayMiddleware(now func() time.Time, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), todayCtxKey, domain.Today(now(), loc))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	claims, _ := c.Request.Context().Value(claimsCtxKey).(*auth.Claims)
	return claims
}

func todayFrom(c *gin.Context) time.Time {
	if t, ok := c.Request.Context().Value(todayCtxKey).(time.Time); ok {
		return t
	}
	return domain.Today(time.Now(), time.UTC)
}
