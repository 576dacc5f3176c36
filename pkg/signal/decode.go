// ABOUTME: Chunk payload decoding: decompress, de-interleave, rescale
// ABOUTME: Turns raw fixed-point bytes into frames of physical float32 values
package signal

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/gzip"

	"github.com/cerebra-health/cerebra-go/pkg/frame"
)

// DecodeChunk converts one raw chunk payload into a frame of physical
// values, one row per time-step.
//
// The payload is record-major: each record holds samplesPerRecord
// consecutive samples for channel 1, then channel 2, and so on. Rows
// where every channel reads the encoding's digital minimum are
// missing data: a trailing run of them is trimmed, interior ones are
// zeroed. Rows at or past the segment end are padding and are
// discarded. A chunk with no surviving rows decodes to a nil frame
// with no error.
func DecodeChunk(task Task, payload []byte) (*frame.Frame, error) {
	d := task.Descriptor
	enc, err := EncodingByName(d.SampleEncoding)
	if err != nil {
		return nil, err
	}

	if d.Compression == "gzip" {
		gz, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, &DecodeError{SegmentID: task.SegmentID, ChunkIndex: task.ChunkIndex, Reason: "decompress", Err: err}
		}
		payload, err = io.ReadAll(gz)
		gz.Close()
		if err != nil {
			return nil, &DecodeError{SegmentID: task.SegmentID, ChunkIndex: task.ChunkIndex, Reason: "decompress", Err: err}
		}
	}

	channels := len(d.Channels)
	if channels == 0 || d.SamplesPerRecord < 1 {
		return nil, &DecodeError{SegmentID: task.SegmentID, ChunkIndex: task.ChunkIndex, Reason: "descriptor has no channels or records"}
	}
	recordBytes := d.SamplesPerRecord * channels * enc.Width
	if len(payload)%recordBytes != 0 {
		return nil, &DecodeError{
			SegmentID:  task.SegmentID,
			ChunkIndex: task.ChunkIndex,
			Reason:     fmt.Sprintf("payload size %d is not a multiple of the %d-byte record", len(payload), recordBytes),
		}
	}
	records := len(payload) / recordBytes
	if records == 0 {
		return nil, nil
	}

	// De-interleave into row-major (time-step, channel) order.
	rows := records * d.SamplesPerRecord
	raw := make([]int64, rows*channels)
	for r := 0; r < records; r++ {
		base := r * d.SamplesPerRecord * channels
		for c := 0; c < channels; c++ {
			for s := 0; s < d.SamplesPerRecord; s++ {
				row := r*d.SamplesPerRecord + s
				raw[row*channels+c] = enc.Sample(payload, base+c*d.SamplesPerRecord+s)
			}
		}
	}

	digMin := enc.DigitalMin()

	// Rows with every channel at the digital minimum carry no data.
	missing := make([]bool, rows)
	lastData := -1
	for i := 0; i < rows; i++ {
		m := true
		for c := 0; c < channels; c++ {
			if raw[i*channels+c] != digMin {
				m = false
				break
			}
		}
		missing[i] = m
		if !m {
			lastData = i
		}
	}
	if lastData < 0 {
		return nil, nil
	}
	rows = lastData + 1

	scale := (d.SignalMax - d.SignalMin) / (float64(enc.DigitalMax()) - float64(digMin))
	exp := math.Pow(10, d.Exponent)
	stepMs := 1000.0 / d.SampleRate

	out := frame.New(d.Channels)
	out.Rows = make([]frame.Row, 0, rows)
	for i := 0; i < rows; i++ {
		t := task.StartTime + float64(i)*stepMs
		if t >= task.SegmentEnd {
			break
		}
		values := make([]float32, channels)
		if !missing[i] {
			for c := 0; c < channels; c++ {
				v := (float64(raw[i*channels+c])-float64(digMin))*scale + d.SignalMin
				v *= exp
				if math.IsNaN(v) || math.IsInf(v, 0) {
					v = 0
				}
				values[c] = float32(v)
			}
		}
		out.Rows = append(out.Rows, frame.Row{
			Time:           t,
			StudyID:        task.StudyID,
			ChannelGroupID: task.ChannelGroupID,
			SegmentID:      task.SegmentID,
			Values:         values,
		})
	}
	if len(out.Rows) == 0 {
		return nil, nil
	}
	return out, nil
}
