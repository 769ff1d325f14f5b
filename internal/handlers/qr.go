package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/dvalfre/urlshortener/internal/qr"
	"github.com/dvalfre/urlshortener/internal/shortener"
)

// QRHandler renders QR codes for short links, shortening the URL first
// when it has not been seen before.
type QRHandler struct {
	engine *shortener.Engine
	qr     *qr.Service
	logger *zap.Logger
}

// NewQRHandler creates a QR handler.
func NewQRHandler(engine *shortener.Engine, service *qr.Service, logger *zap.Logger) *QRHandler {
	return &QRHandler{
		engine: engine,
		qr:     service,
		logger: logger,
	}
}

// GenerateQR returns a PNG QR code pointing at the short link for the
// given URL. An existing link is reused, otherwise one is created.
func (h *QRHandler) GenerateQR(ctx context.Context, req *GenerateQRRequest) (*GenerateQRResponse, error) {
	hash := h.engine.HashOf(req.Body.URL)

	link, err := h.engine.FindByKey(ctx, hash)
	if err != nil {
		h.logger.Error("failed to look up short link for qr code",
			zap.String("hash", hash),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to look up short link")
	}

	if link == nil {
		meta := RequestMetaFromContext(ctx)

		link, err = h.engine.Create(ctx, req.Body.URL, shortener.Properties{
			IP:      meta.ClientIP,
			Sponsor: req.Body.Sponsor,
		})
		if err != nil {
			var invalid *shortener.InvalidURLError
			if errors.As(err, &invalid) {
				return nil, huma.Error400BadRequest(invalid.Error())
			}

			h.logger.Error("failed to create short link for qr code", zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to create short link")
		}
	}

	png, err := h.qr.Generate(ctx, link.Hash)
	if err != nil {
		h.logger.Error("failed to render qr code",
			zap.String("hash", link.Hash),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to render qr code")
	}

	return &GenerateQRResponse{
		ContentType:        "image/png",
		ContentDisposition: fmt.Sprintf("inline; filename=%q", "qr_code.png"),
		Body:               png,
	}, nil
}
