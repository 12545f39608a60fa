package middleware

import (
	"net/http"
	"strings"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/domain"
	"github.com/yokitheyo/mediacatalog/internal/dto"
)

const identityKey = "identity"

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// AuthMiddleware requires an "Authorization: Bearer <token>" header and
// stores the verified identity on the request context.
func AuthMiddleware(auth domain.AuthService) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Msg: msgNoToken})
			return
		}

		scheme, raw, ok := strings.Cut(header, " ")
		raw = strings.TrimSpace(raw)
		if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
			zlog.Logger.Warn().Str("path", c.Request.URL.Path).Msg("malformed authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Msg: msgInvalidToken})
			return
		}

		identity, err := auth.Verify(c.Request.Context(), raw)
		if err != nil {
			zlog.Logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Msg: msgInvalidToken})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity set by AuthMiddleware, or nil.
func IdentityFrom(c *ginext.Context) *domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*domain.Identity)
	return identity
}
