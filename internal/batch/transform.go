// Package batch shortens every URL found in a CSV-shaped input stream.
package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dvalfre/urlshortener/internal/shortener"
)

// Creator is the slice of the short-link engine the pipeline needs.
type Creator interface {
	Create(ctx context.Context, rawURL string, props shortener.Properties) (*shortener.ShortLink, error)
}

// Transformer streams comma-separated URLs through the short-link engine,
// emitting one single-cell record per shortened URL.
type Transformer struct {
	creator Creator
	baseURL string
}

// NewTransformer creates a pipeline writing short links under baseURL.
func NewTransformer(creator Creator, baseURL string) *Transformer {
	return &Transformer{
		creator: creator,
		baseURL: baseURL,
	}
}

// Transform reads CSV records from r and writes a "<base>/<hash>" record to
// w for every non-blank URL cell, strictly line-by-line and left-to-right.
// Quoted cells may carry embedded comma-separated lists; those are split
// again. Processing is incremental: neither input nor output is materialized
// whole.
//
// The first cell that fails shortening aborts the transform and its error is
// returned; output already written stays written. Callers wanting
// partial-success semantics must wrap this at a higher layer.
func (t *Transformer) Transform(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	writer := csv.NewWriter(w)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		for _, cell := range record {
			if err := t.shortenCell(ctx, writer, cell); err != nil {
				return err
			}
		}
	}

	writer.Flush()

	return writer.Error()
}

func (t *Transformer) shortenCell(ctx context.Context, writer *csv.Writer, cell string) error {
	for _, raw := range strings.Split(cell, ",") {
		rawURL := strings.TrimSpace(raw)
		if rawURL == "" {
			continue
		}

		link, err := t.creator.Create(ctx, rawURL, shortener.Properties{})
		if err != nil {
			return err
		}

		if err := writer.Write([]string{t.baseURL + "/" + link.Hash}); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	return nil
}
