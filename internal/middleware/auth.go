// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/utils"
)

const sessionCookie = "__session"

// Gate resolves the caller's identity from the session token and guards
// protected routes.
type Gate struct {
	verifier *utils.SessionVerifier
}

func NewGate(verifier *utils.SessionVerifier) *Gate {
	return &Gate{verifier: verifier}
}

func sessionToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}

// Identify returns the caller's identity, verifying the token at most once
// per request.
func (g *Gate) Identify(c *gin.Context) (*utils.Identity, bool) {
	if identity, ok := utils.GetIdentity(c); ok {
		return identity, true
	}
	if g == nil || g.verifier == nil {
		return nil, false
	}

	token := sessionToken(c)
	if token == "" {
		return nil, false
	}

	identity, err := g.verifier.Verify(token)
	if err != nil {
		logrus.WithError(err).Debug("Session token rejected")
		return nil, false
	}

	utils.SetIdentity(c, identity)
	return identity, true
}

// RequireIdentity answers 401 and aborts when there is no signed-in caller.
func (g *Gate) RequireIdentity(c *gin.Context) (*utils.Identity, bool) {
	identity, ok := g.Identify(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		c.Abort()
		return nil, false
	}
	return identity, true
}

// RequireAdmin answers 401 without an identity and 403 for non-admins.
func (g *Gate) RequireAdmin(c *gin.Context) bool {
	identity, ok := g.RequireIdentity(c)
	if !ok {
		return false
	}
	if !identity.IsAdmin {
		utils.ForbiddenResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAdminAccessDenied))
		c.Abort()
		return false
	}
	return true
}

func (g *Gate) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := g.RequireIdentity(c); !ok {
			return
		}
		c.Next()
	}
}

func (g *Gate) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.RequireAdmin(c) {
			return
		}
		c.Next()
	}
}

func (g *Gate) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		g.Identify(c)
		c.Next()
	}
}
