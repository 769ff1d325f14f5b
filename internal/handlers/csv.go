package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/dvalfre/urlshortener/internal/batch"
	"github.com/dvalfre/urlshortener/internal/shortener"
)

// CSVHandler shortens every URL in an uploaded CSV file.
type CSVHandler struct {
	transformer *batch.Transformer
	logger      *zap.Logger
}

// NewCSVHandler creates a CSV upload handler.
func NewCSVHandler(transformer *batch.Transformer, logger *zap.Logger) *CSVHandler {
	return &CSVHandler{
		transformer: transformer,
		logger:      logger,
	}
}

// UploadCSV shortens the URLs in the uploaded file and returns a CSV of
// short URLs in the same order. A single invalid cell fails the whole
// upload.
func (h *CSVHandler) UploadCSV(ctx context.Context, req *UploadCSVRequest) (*UploadCSVResponse, error) {
	var out bytes.Buffer

	if err := h.transformer.Transform(ctx, bytes.NewReader(req.RawBody), &out); err != nil {
		var invalid *shortener.InvalidURLError
		if errors.As(err, &invalid) {
			return nil, huma.Error400BadRequest(invalid.Error())
		}

		h.logger.Error("failed to transform csv upload", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to process csv")
	}

	return &UploadCSVResponse{
		ContentType:        "text/csv",
		ContentDisposition: fmt.Sprintf("attachment; filename=%s", "shortened_urls.csv"),
		Body:               out.Bytes(),
	}, nil
}
