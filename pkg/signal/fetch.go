// ABOUTME: Chunk fetcher combining transport download with payload decode
// ABOUTME: Each fetch is a self-contained blocking network call plus CPU decode
package signal

import (
	"context"

	"go.uber.org/zap"

	"github.com/cerebra-health/cerebra-go/internal/transport"
	"github.com/cerebra-health/cerebra-go/pkg/frame"
)

// ByteFetcher is the transport dependency: a blocking GET returning the
// full body at a pre-signed URL.
type ByteFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	// Transport downloads chunk bytes. Defaults to a transport client
	// with default options (30s timeout, no retries).
	Transport ByteFetcher

	// Logger receives skipped-chunk warnings. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Fetcher downloads chunk payloads and decodes them into frames.
type Fetcher struct {
	transport ByteFetcher
	log       *zap.Logger
}

// NewFetcher creates a fetcher with the given configuration.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Transport == nil {
		cfg.Transport = transport.NewClient(transport.DefaultOptions())
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Fetcher{
		transport: cfg.Transport,
		log:       cfg.Logger,
	}
}

// FetchDecode downloads one chunk and decodes it. A nil frame with a
// nil error means the chunk held no rows. Download failures return a
// TransportError; payload failures return a DecodeError or
// EncodingError. Nothing is retried here.
func (f *Fetcher) FetchDecode(ctx context.Context, task Task) (*frame.Frame, error) {
	payload, err := f.transport.Fetch(ctx, task.URL)
	if err != nil {
		return nil, &TransportError{
			SegmentID:  task.SegmentID,
			ChunkIndex: task.ChunkIndex,
			URL:        task.URL,
			Err:        err,
		}
	}
	return DecodeChunk(task, payload)
}
