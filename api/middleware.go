package api

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/zvrva/staybook/internal/domain"
	"golang.org/x/time/rate"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

type identityClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Image    string `json:"image"`
	jwt.RegisteredClaims
}

// UserProvisioner backs the auth middleware: unknown subjects are created on
// first sight with default role user.
type UserProvisioner interface {
	Ensure(ctx context.Context, user *domain.User) (*domain.User, error)
}

// Auth verifies the identity-provider token and loads (or provisions) the
// user. The subject id is treated as opaque; no further validation happens.
func Auth(jwtSecret []byte, users UserProvisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
			return
		}
		if len(header) < 8 || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token format"})
			return
		}

		claims := &identityClaims{}
		token, err := jwt.ParseWithClaims(header[7:], claims, func(token *jwt.Token) (any, error) {
			return jwtSecret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		user, err := users.Ensure(c.Request.Context(), &domain.User{
			ID:                   claims.Subject,
			Username:             claims.Username,
			Email:                claims.Email,
			Image:                claims.Image,
			Role:                 domain.RoleTraveler,
			RecentSearchedCities: []string{},
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to sync user account"})
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxUserRole, string(user.Role))
		c.Next()
	}
}

// OwnerOnly gates owner-scoped routes on the hotelOwner role.
func OwnerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxUserRole) != string(domain.RoleHotelOwner) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied: hotel manager only"})
			return
		}
		c.Next()
	}
}

// RateLimit keeps one token bucket per client IP. Used on the AI endpoint
// where each request costs an upstream model call.
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 10
	}
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := limiters[ip]; ok {
			return l
		}
		l := rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute)
		limiters[ip] = l
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Too many requests"})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
