// ABOUTME: Value types describing channel groups, segments, chunks and tasks
// ABOUTME: These bundles are immutable inputs to derivation, fetch and decode
package signal

import (
	"errors"
	"fmt"
)

// Descriptor describes how one channel group encodes its data chunks.
// All fields come from channel-group metadata.
type Descriptor struct {
	// SampleEncoding names the raw sample type: int8, int16, int32 or int64.
	SampleEncoding string

	// Compression is "", "none" or "gzip". Only "gzip" triggers
	// decompression; anything else is treated as uncompressed.
	Compression string

	// SampleRate in Hz.
	SampleRate float64

	// SamplesPerRecord is the per-channel sample count in one record.
	SamplesPerRecord int

	// RecordsPerChunk is the record count in one full chunk.
	RecordsPerChunk int

	// SignalMin and SignalMax bound the physical signal range that the
	// digital range maps onto.
	SignalMin float64
	SignalMax float64

	// Exponent is the power-of-10 factor applied after rescaling to
	// reach final physical units. The platform reports it as a float.
	Exponent float64

	// Units names the physical unit after the exponent is applied.
	// Empty when the platform metadata omits it.
	Units string

	// Channels holds the ordered channel labels. The order defines the
	// column order of decoded frames.
	Channels []string
}

// ChunkPeriod returns the time span covered by one full chunk, in seconds.
func (d Descriptor) ChunkPeriod() float64 {
	return float64(d.RecordsPerChunk) * float64(d.SamplesPerRecord) / d.SampleRate
}

// Validate checks the descriptor invariants that decode and derivation
// rely on.
func (d Descriptor) Validate() error {
	if _, err := EncodingByName(d.SampleEncoding); err != nil {
		return err
	}
	if d.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %v", d.SampleRate)
	}
	if d.SamplesPerRecord < 1 {
		return fmt.Errorf("samples per record must be at least 1, got %d", d.SamplesPerRecord)
	}
	if d.RecordsPerChunk < 1 {
		return fmt.Errorf("records per chunk must be at least 1, got %d", d.RecordsPerChunk)
	}
	if d.SignalMax <= d.SignalMin {
		return fmt.Errorf("signal max %v must exceed signal min %v", d.SignalMax, d.SignalMin)
	}
	if len(d.Channels) == 0 {
		return errors.New("no channels")
	}
	return nil
}

// Segment is one contiguous recorded interval of a channel group.
type Segment struct {
	StudyID        string
	ChannelGroupID string
	ID             string

	// StartTime is the segment start in epoch milliseconds.
	StartTime float64

	// Duration of the segment in milliseconds.
	Duration float64

	// BaseURL is the templated chunk URL resolved for this segment: a
	// pre-signed URL containing a zero-padded numeric field followed by
	// ".dat". Empty when the resolver returned nothing for the segment.
	BaseURL string

	Descriptor Descriptor
}

// ChunkRef locates one downloadable chunk within a segment.
type ChunkRef struct {
	Index     int
	URL       string
	StartTime float64 // epoch milliseconds
}

// Task bundles everything needed to fetch and decode one chunk. Tasks
// are self-contained: workers read only their own task and write only
// their own result.
type Task struct {
	StudyID        string
	ChannelGroupID string
	SegmentID      string
	ChunkIndex     int
	URL            string

	// StartTime is the chunk start in epoch milliseconds.
	StartTime float64

	// SegmentEnd is the segment end in epoch milliseconds. Chunks are
	// padded out to a full chunk period, so decoded rows at or past
	// this time are discarded.
	SegmentEnd float64

	Descriptor Descriptor
}
