// ABOUTME: Core chunk retrieval pipeline package
// ABOUTME: Derives chunk URLs, fetches and decodes payloads, reassembles tables
// Package signal retrieves recorded channel data from pre-signed chunk
// objects and reconstructs it as ordered tables of physical values.
//
// The pipeline has four stages. Derivation expands each segment's
// templated base URL into per-chunk URLs with start times. Fetching
// downloads a chunk and decodes its fixed-point payload into a frame.
// Dispatch runs the fetches sequentially or on a bounded worker pool,
// dropping failed chunks instead of failing the batch. Reassembly
// concatenates the decoded frames, filters to the requested window and
// stable-sorts by (study, channel group, segment, time).
//
// Example:
//
//	tasks := signal.Tasks(segments, from, to, logger)
//	fetcher := signal.NewFetcher(signal.FetcherConfig{Logger: logger})
//	frames := fetcher.Dispatch(ctx, tasks, 5)
//	table := signal.Reassemble(frames, from, to)
package signal
