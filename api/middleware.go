package api

import (
	"net/http"
	"strings"

	"github.com/JasonLinn/cryo-booking/internal/auth"
	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/JasonLinn/cryo-booking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const viewerKey = "viewer"

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// Authenticate reads an optional Bearer token. Requests without one pass
// through as anonymous; a present but invalid token is rejected.
func Authenticate(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "missing bearer token", Code: "Unauthorized"})
			return
		}
		claims, err := parser.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "invalid token", Code: "Unauthorized"})
			return
		}
		c.Set(viewerKey, booking.Viewer{UserID: claims.Subject, Role: claims.Role})
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if viewerFrom(c).Anonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: domain.ErrUnauthorized.Error(), Code: "Unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireRole must run after Authenticate.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		v := viewerFrom(c)
		if v.Anonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: domain.ErrUnauthorized.Error(), Code: "Unauthorized"})
			return
		}
		if !allowed[v.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Error: domain.ErrForbidden.Error(), Code: "Forbidden"})
			return
		}
		c.Next()
	}
}

func viewerFrom(c *gin.Context) booking.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(booking.Viewer); ok {
			return viewer
		}
	}
	return booking.Viewer{}
}
