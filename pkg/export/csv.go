// ABOUTME: CSV export of frames through gocloud.dev blob buckets
// ABOUTME: Keys ending in .gz are gzip-compressed on the way out
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gocloud.dev/blob"

	"github.com/cerebra-health/cerebra-go/pkg/frame"
)

// WriteCSV writes f as a CSV object at key in the bucket. Keys ending
// in ".gz" are gzip-compressed. A nil frame writes only the header
// row. Nothing is committed on error.
func WriteCSV(ctx context.Context, bucket *blob.Bucket, key string, f *frame.Frame) error {
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	compress := strings.HasSuffix(key, ".gz")
	opts := &blob.WriterOptions{ContentType: "text/csv"}
	if compress {
		opts.ContentType = "application/gzip"
	}

	w, err := bucket.NewWriter(wctx, key, opts)
	if err != nil {
		return fmt.Errorf("create writer: %w", err)
	}

	var dst io.Writer = w
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(w)
		dst = gz
	}

	err = f.WriteCSV(dst)
	if err == nil && gz != nil {
		err = gz.Close()
	}
	if err != nil {
		// Canceling the context aborts the blob write uncommitted.
		cancel()
		w.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}
