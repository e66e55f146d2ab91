package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	HeaderAPIVersion = "X-API-Version"

	// ContextKeyAPIVersion holds the served API version on the echo context
	ContextKeyAPIVersion = "api_version"
)

// VersionHeader adds the API version to every response on the group it is
// mounted on.
func VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(HeaderAPIVersion, version)
			c.Set(ContextKeyAPIVersion, version)
			return next(c)
		}
	}
}
