// ABOUTME: Typed errors for the chunk retrieval pipeline
// ABOUTME: Each error is scoped to one chunk or one segment and carries its identity
package signal

import "fmt"

// TransportError reports a failed chunk download. It wraps the
// underlying transport failure and is scoped to a single chunk.
type TransportError struct {
	SegmentID  string
	ChunkIndex int
	URL        string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: segment %s chunk %d: %v", e.SegmentID, e.ChunkIndex, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a chunk payload that could not be decoded:
// a decompression failure or a byte length that does not match the
// channel group's record shape.
type DecodeError struct {
	SegmentID  string
	ChunkIndex int
	Reason     string
	Err        error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode: segment %s chunk %d: %s: %v", e.SegmentID, e.ChunkIndex, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode: segment %s chunk %d: %s", e.SegmentID, e.ChunkIndex, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodingError reports an unsupported sample encoding. Encodings come
// from channel-group metadata, so hitting one usually means the
// metadata is wrong rather than the payload.
type EncodingError struct {
	Encoding string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("unsupported sample encoding %q", e.Encoding)
}

// DerivationError reports a segment whose chunk URLs could not be
// derived: a malformed URL template or a chunk index wider than the
// template's digit field. The whole segment is excluded.
type DerivationError struct {
	SegmentID string
	Reason    string
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("derive chunk urls: segment %s: %s", e.SegmentID, e.Reason)
}
