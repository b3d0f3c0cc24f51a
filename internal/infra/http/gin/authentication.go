package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/auth"
	domainuser "staycal/internal/domain/user"
)

const principalContextKey = "staycal.principal"

// AuthMiddleware resolves the bearer token against the external verifier.
// Read endpoints are open: a missing or bad token just leaves the request
// anonymous, and the role gates reject it later if it tries to write.
type AuthMiddleware struct {
	Verifier auth.Verifier
	Logger   *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Verifier == nil {
		c.Next()
		return
	}
	identity, err := m.Verifier.Verify(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, auth.ErrTokenInvalid) && m.Logger != nil {
			m.Logger.Debug("token verification failed", "error", err)
		}
		c.Next()
		return
	}
	c.Set(principalContextKey, identity)
	c.Next()
}

func currentIdentity(c *gin.Context) (auth.Identity, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := val.(auth.Identity)
	return identity, ok
}

// requireEditor admits admins and managers; helpers and anonymous callers
// are rejected.
func requireEditor(c *gin.Context) (auth.Identity, bool) {
	identity, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return auth.Identity{}, false
	}
	if !identity.Role.CanEditAvailability() {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return auth.Identity{}, false
	}
	return identity, true
}

func requireAdmin(c *gin.Context) (auth.Identity, bool) {
	identity, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return auth.Identity{}, false
	}
	if identity.Role != domainuser.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return auth.Identity{}, false
	}
	return identity, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
