package handlers

import (
	"errors"
	"net/http"

	"closetrent/internal/common"
	"closetrent/internal/services"
	"closetrent/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// MediaHandlers serves stored uploads from an object store by redirecting
// to a short-lived presigned URL.
type MediaHandlers struct {
	resolver services.MediaURLResolver
	log      *logrus.Entry
}

func NewMediaHandlers(resolver services.MediaURLResolver) *MediaHandlers {
	return &MediaHandlers{resolver: resolver, log: logger.WithComponent("media_handlers")}
}

// Redirect handles GET /uploads/*
func (h *MediaHandlers) Redirect(c echo.Context) error {
	mediaPath := services.UploadsPrefix + c.Param("*")
	target, err := h.resolver.ResolveURL(c.Request().Context(), mediaPath)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMediaPath) {
			return common.SendNotFoundError(c, "file")
		}
		return common.SendError(c, h.log, err)
	}
	return c.Redirect(http.StatusTemporaryRedirect, target)
}
