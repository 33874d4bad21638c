package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/salemkamoundev/Snay3ia/internal/identity"
)

const identityKey = "identity"

// authMiddleware resolves the bearer token and aborts with 401 before any
// handler side effect when no identity can be established.
func authMiddleware(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		ident, err := provider.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": identity.ErrUnauthenticated.Error()})
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// currentIdentity returns the identity set by authMiddleware.
func currentIdentity(c *gin.Context) identity.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return identity.Identity{}
	}
	ident, ok := v.(*identity.Identity)
	if !ok || ident == nil {
		return identity.Identity{}
	}
	return *ident
}
