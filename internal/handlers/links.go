package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/dvalfre/urlshortener/internal/analytics"
	"github.com/dvalfre/urlshortener/internal/messaging"
	"github.com/dvalfre/urlshortener/internal/shortener"
)

// LinkHandler handles short-link creation and resolution.
type LinkHandler struct {
	engine          *shortener.Engine
	baseURL         string
	publishCreated  messaging.Publish[analytics.LinkCreatedEvent]
	publishAccessed messaging.Publish[analytics.LinkAccessedEvent]
	logger          *zap.Logger
}

// NewLinkHandler creates a link handler.
func NewLinkHandler(
	engine *shortener.Engine,
	baseURL string,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishAccessed messaging.Publish[analytics.LinkAccessedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		engine:          engine,
		baseURL:         baseURL,
		publishCreated:  publishCreated,
		publishAccessed: publishAccessed,
		logger:          logger,
	}
}

// CreateShortLink shortens a URL, recording the client IP into the link's
// properties.
func (h *LinkHandler) CreateShortLink(ctx context.Context, req *CreateShortLinkRequest) (*CreateShortLinkResponse, error) {
	meta := RequestMetaFromContext(ctx)

	link, err := h.engine.Create(ctx, req.Body.URL, shortener.Properties{
		IP:      meta.ClientIP,
		Sponsor: req.Body.Sponsor,
		Brand:   req.Body.Brand,
	})
	if err != nil {
		var invalid *shortener.InvalidURLError
		if errors.As(err, &invalid) {
			return nil, huma.Error400BadRequest(invalid.Error())
		}

		h.logger.Error("failed to create short link", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create short link")
	}

	event := &analytics.LinkCreatedEvent{
		Hash:      link.Hash,
		Target:    link.Redirection.Target,
		Sponsor:   link.Properties.Sponsor,
		Brand:     link.Properties.Brand,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		CreatedAt: link.CreatedAt,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("hash", event.Hash),
			zap.Error(err),
		)
	}

	shortURL := fmt.Sprintf("%s/%s", h.baseURL, link.Hash)

	resp := &CreateShortLinkResponse{}
	resp.Headers.Location = shortURL
	resp.Body.Hash = link.Hash
	resp.Body.ShortURL = shortURL
	resp.Body.Target = link.Redirection.Target

	return resp, nil
}

// Redirect resolves a hash and redirects with the stored mode.
func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	link, err := h.engine.FindByKey(ctx, req.Hash)
	if err != nil {
		h.logger.Error("failed to look up short link",
			zap.String("hash", req.Hash),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to look up short link")
	}

	if link == nil {
		return nil, huma.Error404NotFound("short link not found")
	}

	meta := RequestMetaFromContext(ctx)

	event := &analytics.LinkAccessedEvent{
		Hash:       link.Hash,
		Target:     link.Redirection.Target,
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
		AccessedAt: time.Now(),
	}

	if err := h.publishAccessed(event); err != nil {
		h.logger.Error("failed to publish link accessed event",
			zap.String("hash", event.Hash),
			zap.Error(err),
		)
	}

	status := http.StatusMovedPermanently
	if link.Redirection.Mode == shortener.ModeTemporary {
		status = http.StatusTemporaryRedirect
	}

	return &RedirectResponse{
		Status:   status,
		Location: link.Redirection.Target,
	}, nil
}
