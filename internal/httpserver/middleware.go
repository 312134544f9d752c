package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"petmarket/internal/domain"
	cartsvc "petmarket/internal/service/cart"
)

const (
	ctxUserKey  = "currentUser"
	ctxGuestKey = "currentGuest"
)

// authenticate resolves the bearer token, if any, into a user or a guest id.
// It never rejects: route groups decide what identity they require.
func authenticate(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		if u, err := accounts.LookupByToken(c.Request.Context(), token); err == nil {
			c.Set(ctxUserKey, u)
			c.Next()
			return
		}
		if guestID, err := accounts.LookupGuest(c.Request.Context(), token); err == nil {
			c.Set(ctxGuestKey, guestID)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func currentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}

func currentGuest(c *gin.Context) string {
	v, ok := c.Get(ctxGuestKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// currentOwner maps the request identity onto a cart owner.
func currentOwner(c *gin.Context) cartsvc.Owner {
	if u, ok := currentUser(c); ok {
		return cartsvc.Owner{CustomerID: u.ID}
	}
	return cartsvc.Owner{GuestID: currentGuest(c)}
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// requireOwner admits logged-in users and guest-token holders alike.
func requireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); ok {
			c.Next()
			return
		}
		if currentGuest(c) != "" {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	}
}

func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}
